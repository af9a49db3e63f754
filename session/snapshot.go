package session

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/glyphcast/types"
)

// Snapshot is the persistable state of a session. Receive flows run
// one paste at a time, often in separate process invocations; the
// snapshot carries the chunk set between them.
//
// Serialized with msgpack (compact, stable field tags).
type Snapshot struct {
	FormatVersion string               `msgpack:"format_version"`
	SessionID     string               `msgpack:"session_id"`
	State         State                `msgpack:"state"`
	Media         types.MediaType      `msgpack:"media"`
	Total         int                  `msgpack:"total"`
	Volumes       map[int]types.Volume `msgpack:"volumes"`
}

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	volumes := make(map[int]types.Volume, len(s.volumes))
	for i, v := range s.volumes {
		volumes[i] = v
	}

	return &Snapshot{
		FormatVersion: types.Version,
		SessionID:     s.id,
		State:         s.state,
		Media:         s.media,
		Total:         s.total,
		Volumes:       volumes,
	}
}

// Restore replaces the session state with the snapshot's. The snapshot
// must respect the session's MaxTotal bound; a larger total means the
// file was produced under a different configuration or tampered with.
func (s *Session) Restore(snap *Snapshot) error {
	if snap.Total < 0 || snap.Total > s.config.MaxTotal {
		return fmt.Errorf("snapshot total %d exceeds max_total %d", snap.Total, s.config.MaxTotal)
	}

	for i := range snap.Volumes {
		if i < 0 || i >= snap.Total {
			return fmt.Errorf("snapshot volume index %d outside [0, %d)", i, snap.Total)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = snap.SessionID
	s.state = snap.State
	s.media = snap.Media
	s.total = snap.Total
	s.volumes = make(map[int]types.Volume, len(snap.Volumes))
	for i, v := range snap.Volumes {
		s.volumes[i] = v
	}
	return nil
}

// Marshal serializes the snapshot.
func (snap *Snapshot) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot deserializes a snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// SaveFile writes the snapshot to path, mode 0600.
func (snap *Snapshot) SaveFile(path string) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a snapshot from path. Callers distinguish a missing
// file (fresh session) via errors.Is(err, os.ErrNotExist).
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}
