// Package metrics provides per-session counters for the receive path.
//
// The Collector is a leaf with no internal dependencies. Extraction and
// session components accept it optionally; all increment methods are
// nil-receiver safe so wiring it is never mandatory.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the counters.
// Returned by Collector.Snapshot(). Safe to read concurrently.
type Snapshot struct {
	// Extraction
	SegmentsScanned   int64
	MalformedSegments int64
	UnknownMedia      int64
	ChecksumRejected  int64
	VolumesExtracted  int64

	// Accumulation
	VolumesAccepted      int64
	VolumesDuplicated    int64
	IndexRejected        int64
	InconsistentRejected int64

	// Reassembly
	ReassembliesCompleted int64
	DecodeFailures        int64

	// Dimensions (informational, set at construction)
	SessionID string
}

// Collector accumulates receive-path counters for one session.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	segmentsScanned   int64
	malformedSegments int64
	unknownMedia      int64
	checksumRejected  int64
	volumesExtracted  int64

	volumesAccepted      int64
	volumesDuplicated    int64
	indexRejected        int64
	inconsistentRejected int64

	reassembliesCompleted int64
	decodeFailures        int64

	sessionID string
}

// NewCollector creates a collector tagged with the session identity.
func NewCollector(sessionID string) *Collector {
	return &Collector{sessionID: sessionID}
}

// inc assumes the caller already handled the nil receiver; taking a
// field address on a nil Collector would fault before the call.
func (c *Collector) inc(field *int64) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}

// SegmentScanned records one candidate segment found behind a prefix.
func (c *Collector) SegmentScanned() {
	if c == nil {
		return
	}
	c.inc(&c.segmentsScanned)
}

// MalformedSegment records a segment with too few fields or
// non-numeric header values.
func (c *Collector) MalformedSegment() {
	if c == nil {
		return
	}
	c.inc(&c.malformedSegments)
}

// UnknownMedia records a segment with an unrecognized media tag.
func (c *Collector) UnknownMedia() {
	if c == nil {
		return
	}
	c.inc(&c.unknownMedia)
}

// ChecksumRejected records a payload whose fingerprint did not match.
func (c *Collector) ChecksumRejected() {
	if c == nil {
		return
	}
	c.inc(&c.checksumRejected)
}

// VolumeExtracted records a fully validated candidate volume.
func (c *Collector) VolumeExtracted() {
	if c == nil {
		return
	}
	c.inc(&c.volumesExtracted)
}

// VolumeAccepted records a first-time insert into the chunk set.
func (c *Collector) VolumeAccepted() {
	if c == nil {
		return
	}
	c.inc(&c.volumesAccepted)
}

// VolumeDuplicated records a re-insert of an already-held index.
func (c *Collector) VolumeDuplicated() {
	if c == nil {
		return
	}
	c.inc(&c.volumesDuplicated)
}

// IndexRejected records an insert with an out-of-range index or total.
func (c *Collector) IndexRejected() {
	if c == nil {
		return
	}
	c.inc(&c.indexRejected)
}

// InconsistentRejected records an insert disagreeing with the pinned
// transmission total or media type.
func (c *Collector) InconsistentRejected() {
	if c == nil {
		return
	}
	c.inc(&c.inconsistentRejected)
}

// ReassemblyCompleted records a successful full decode.
func (c *Collector) ReassemblyCompleted() {
	if c == nil {
		return
	}
	c.inc(&c.reassembliesCompleted)
}

// DecodeFailure records a terminal decode failure on a complete set.
func (c *Collector) DecodeFailure() {
	if c == nil {
		return
	}
	c.inc(&c.decodeFailures)
}

// Snapshot returns an immutable copy of all counters.
// Nil-receiver safe: returns a zero snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SegmentsScanned:       c.segmentsScanned,
		MalformedSegments:     c.malformedSegments,
		UnknownMedia:          c.unknownMedia,
		ChecksumRejected:      c.checksumRejected,
		VolumesExtracted:      c.volumesExtracted,
		VolumesAccepted:       c.volumesAccepted,
		VolumesDuplicated:     c.volumesDuplicated,
		IndexRejected:         c.indexRejected,
		InconsistentRejected:  c.inconsistentRejected,
		ReassembliesCompleted: c.reassembliesCompleted,
		DecodeFailures:        c.decodeFailures,
		SessionID:             c.sessionID,
	}
}
