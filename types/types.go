// Package types defines the shared leaf types of the glyphcast codec:
// media kinds, the volume wire constants, and the Volume value itself.
//
// This package has no internal dependencies. Everything else imports it.
package types

import "fmt"

// Wire format constants for the textual volume envelope:
//
//	GC:{type}:{total}:{index}:{checksum}:{payload}
const (
	// WirePrefix marks the start of a volume in free-form text.
	// Includes the trailing field delimiter.
	WirePrefix = "GC:"
	// FieldDelimiter separates header fields. Excluded from the
	// transport alphabet so it can never appear inside a payload.
	FieldDelimiter = ":"
	// ChecksumLen is the length of the base-36 payload fingerprint.
	ChecksumLen = 4
)

// MediaType tags a transmission with the kind of payload it carries.
// The tag is informational routing metadata; the codec itself treats
// every payload as an opaque byte buffer.
type MediaType string

// Media type constants, one character each on the wire.
const (
	MediaImage MediaType = "I"
	MediaAudio MediaType = "A"
	MediaVideo MediaType = "V"
)

// ParseMediaType parses a wire media tag. Returns false for anything
// outside the known single-character set.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaImage, MediaAudio, MediaVideo:
		return MediaType(s), true
	}
	return "", false
}

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	_, ok := ParseMediaType(string(m))
	return ok
}

// Volume is one validated fragment of an encoded transmission.
// Immutable value object; Checksum always matches Payload for volumes
// produced by the chunker or accepted by the extractor.
type Volume struct {
	Media    MediaType `msgpack:"media"`
	Total    int       `msgpack:"total"`
	Index    int       `msgpack:"index"`
	Checksum string    `msgpack:"checksum"`
	Payload  string    `msgpack:"payload"`
}

// Wire renders the volume in its textual transport form.
func (v Volume) Wire() string {
	return fmt.Sprintf("%s%s:%d:%d:%s:%s", WirePrefix, v.Media, v.Total, v.Index, v.Checksum, v.Payload)
}
