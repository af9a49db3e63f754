// Package session owns the receive-side chunk set: it accumulates
// validated volumes across any number of extraction passes and
// reassembles the original bytes once the index set is complete.
//
// State machine per transmission:
//
//	Idle -> Accumulating        on the first accepted volume
//	Accumulating -> Accumulating on each further valid volume
//	Accumulating -> Complete     when reassembly succeeds
//	Accumulating -> Failed       only on a terminal decode failure
//	any -> Idle                  on Reset (chunk set discarded)
//
// A single bad fragment never fails the session; it is dropped and
// reported through the insert outcome and metrics.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/codec"
	"github.com/justapithecus/glyphcast/log"
	"github.com/justapithecus/glyphcast/metrics"
	"github.com/justapithecus/glyphcast/types"
)

// State is the lifecycle state of a session.
type State string

// Session states.
const (
	StateIdle         State = "idle"
	StateAccumulating State = "accumulating"
	StateComplete     State = "complete"
	StateFailed       State = "failed"
)

// DefaultMaxTotal bounds the fragment count a session will accept.
// A volume declaring a larger total is treated as hostile or corrupt
// input and rejected before anything is allocated for it.
const DefaultMaxTotal = 4096

// ErrInvalidConfig is returned by New for an unusable configuration.
var ErrInvalidConfig = errors.New("invalid session config: alphabet is required")

// Config configures a Session.
type Config struct {
	// Alphabet is the transport alphabet shared with the sender
	// (required).
	Alphabet *alphabet.Alphabet

	// MaxTotal caps the accepted fragment count (default
	// DefaultMaxTotal).
	MaxTotal int

	// Logger is an optional logger. If nil, no logging is emitted.
	Logger *log.Logger

	// Metrics is an optional collector. May be nil.
	Metrics *metrics.Collector
}

// Session accumulates volumes for one transmission. Inserts are
// guarded by a mutex: they are commutative per index, so concurrent
// writers need nothing finer.
type Session struct {
	mu      sync.Mutex
	id      string
	state   State
	media   types.MediaType
	total   int
	volumes map[int]types.Volume

	codec   *codec.Codec
	config  Config
	logger  *log.Logger
	metrics *metrics.Collector
}

// New creates an idle session.
func New(config Config) (*Session, error) {
	if config.Alphabet == nil {
		return nil, ErrInvalidConfig
	}
	if config.MaxTotal <= 0 {
		config.MaxTotal = DefaultMaxTotal
	}

	return &Session{
		id:      uuid.NewString(),
		state:   StateIdle,
		volumes: make(map[int]types.Volume),
		codec:   codec.New(config.Alphabet),
		config:  config,
		logger:  config.Logger,
		metrics: config.Metrics,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// InsertOutcome summarizes one InsertAll pass. Rejections are counts,
// not errors: a bad fragment in a paste is normal transport noise.
type InsertOutcome struct {
	// Accepted counts first-time inserts.
	Accepted int
	// Duplicates counts overwrites of an already-held index
	// (harmless; last valid write wins).
	Duplicates int
	// Rejected counts volumes refused for range or consistency
	// reasons.
	Rejected int
	// Inconsistent is set when at least one rejection was a
	// total/media disagreement with the pinned transmission. Surfaced
	// rather than silently merged.
	Inconsistent bool
}

// InsertAll merges candidate volumes into the chunk set. Order does
// not matter and re-delivery is harmless: the final reassembly result
// is independent of insert order and duplication.
//
// The first accepted volume pins the transmission's media type and
// total; later candidates disagreeing with either are rejected.
func (s *Session) InsertAll(candidates []types.Volume) InsertOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out InsertOutcome
	for _, v := range candidates {
		s.insert(v, &out)
	}
	return out
}

func (s *Session) insert(v types.Volume, out *InsertOutcome) {
	if s.state == StateFailed {
		out.Rejected++
		return
	}

	if v.Total <= 0 || v.Total > s.config.MaxTotal {
		out.Rejected++
		s.metrics.IndexRejected()
		s.logWarn("volume total out of bounds", map[string]any{"total": v.Total, "max_total": s.config.MaxTotal})
		return
	}

	if s.total == 0 {
		// First accepted volume pins the transmission.
		s.total = v.Total
		s.media = v.Media
		s.state = StateAccumulating
	} else if v.Total != s.total || v.Media != s.media {
		out.Rejected++
		out.Inconsistent = true
		s.metrics.InconsistentRejected()
		s.logWarn("volume disagrees with pinned transmission", map[string]any{
			"total": v.Total, "media": string(v.Media),
			"pinned_total": s.total, "pinned_media": string(s.media),
		})
		return
	}

	if v.Index < 0 || v.Index >= s.total {
		out.Rejected++
		s.metrics.IndexRejected()
		return
	}

	if _, held := s.volumes[v.Index]; held {
		out.Duplicates++
		s.metrics.VolumeDuplicated()
	} else {
		out.Accepted++
		s.metrics.VolumeAccepted()
	}
	s.volumes[v.Index] = v
}

// IncompleteError reports a reassembly attempt on a set that is still
// missing fragments. A normal intermediate state, not a failure.
type IncompleteError struct {
	Have  int
	Total int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("transmission incomplete: have %d/%d volumes", e.Have, e.Total)
}

// TryReassemble decodes the original bytes if every index in
// [0, total) is present. Until then it returns *IncompleteError.
//
// A decode failure on a complete set is terminal: the session moves to
// Failed and the error is escalated, distinct from still-accumulating.
func (s *Session) TryReassemble() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFailed {
		return nil, fmt.Errorf("session failed: %w", &IncompleteError{Have: len(s.volumes), Total: s.total})
	}
	if s.total == 0 || len(s.volumes) < s.total {
		return nil, &IncompleteError{Have: len(s.volumes), Total: s.total}
	}

	var stream strings.Builder
	for i := 0; i < s.total; i++ {
		v, ok := s.volumes[i]
		if !ok {
			return nil, &IncompleteError{Have: len(s.volumes), Total: s.total}
		}
		stream.WriteString(v.Payload)
	}

	data, err := s.codec.Decode(stream.String())
	if err != nil {
		s.state = StateFailed
		s.metrics.DecodeFailure()
		s.logError("reassembled stream failed to decode", map[string]any{"total": s.total, "error": err.Error()})
		return nil, fmt.Errorf("reassemble: %w", err)
	}

	s.state = StateComplete
	s.metrics.ReassemblyCompleted()
	s.logInfo("transmission reassembled", map[string]any{"total": s.total, "bytes": len(data)})
	return data, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Media returns the pinned media type, empty while idle.
func (s *Session) Media() types.MediaType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.media
}

// Progress reports how many volumes are held against the pinned
// total. Total is zero while idle.
func (s *Session) Progress() (have, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.volumes), s.total
}

// Missing lists the absent indices in ascending order. Empty when the
// set is complete or the session is idle.
func (s *Session) Missing() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []int
	for i := 0; i < s.total; i++ {
		if _, ok := s.volumes[i]; !ok {
			missing = append(missing, i)
		}
	}
	return missing
}

// Reset discards the chunk set and returns to Idle from any state.
// Reset is the only implicit-free cleanup: nothing expires on its own
// mid-transmission.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle
	s.media = ""
	s.total = 0
	s.volumes = make(map[int]types.Volume)
	s.logInfo("session reset", nil)
}

func (s *Session) logInfo(msg string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Info(msg, fields)
	}
}

func (s *Session) logWarn(msg string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Warn(msg, fields)
	}
}

func (s *Session) logError(msg string, fields map[string]any) {
	if s.logger != nil {
		s.logger.Error(msg, fields)
	}
}
