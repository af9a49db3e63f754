// Package codec packs byte buffers into 15-bit alphabet symbols and
// unpacks them again.
//
// Encoded layout, after mapping each symbol back to its 15-bit index
// and concatenating:
//
//	[4 bytes big-endian length N][N payload bytes][0-14 padding bits]
//
// The length header makes the stream self-terminating: padding bits
// emitted to fill the final symbol are never reinterpreted as data.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/justapithecus/glyphcast/alphabet"
)

const (
	// symbolBits is the payload width of one alphabet symbol.
	symbolBits = 15
	// headerSize is the size of the big-endian length header in bytes.
	headerSize = 4
)

// ErrTruncated reports an encoded stream whose length header promises
// more payload bytes than the stream actually carries. This is a
// terminal integrity failure: the transmission completed structurally
// but its content cannot be recovered.
var ErrTruncated = errors.New("encoded stream truncated: length header exceeds decoded bytes")

// Codec encodes and decodes against one injected alphabet. Stateless
// and safe for concurrent use.
type Codec struct {
	alpha *alphabet.Alphabet
}

// New creates a codec over the given alphabet.
func New(alpha *alphabet.Alphabet) *Codec {
	return &Codec{alpha: alpha}
}

// EncodedLen returns the symbol count Encode produces for n payload
// bytes: ceil(8*(n+4)/15).
func EncodedLen(n int) int {
	return (8*(n+headerSize) + symbolBits - 1) / symbolBits
}

// Encode converts data into a symbol string. Total: it never fails,
// including for empty input (which still encodes its length header).
func (c *Codec) Encode(data []byte) string {
	var header [headerSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))

	var out strings.Builder
	// Symbols above ASCII dominate; 3 bytes per rune is the common case.
	out.Grow(3 * EncodedLen(len(data)))

	var acc uint32
	bits := 0
	pack := func(b byte) {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= symbolBits {
			bits -= symbolBits
			out.WriteRune(c.alpha.Symbol(uint16(acc >> bits & (alphabet.Size - 1))))
		}
	}

	for _, b := range header {
		pack(b)
	}
	for _, b := range data {
		pack(b)
	}

	// Left-justify the remaining bits into one final symbol.
	if bits > 0 {
		out.WriteRune(c.alpha.Symbol(uint16(acc << (symbolBits - bits) & (alphabet.Size - 1))))
	}

	return out.String()
}

// Decode recovers the byte buffer encoded in symbols.
//
// Runes outside the alphabet are skipped silently: transport channels
// inject whitespace, reflowing, and stray characters, and tolerating
// them is the point of the format. Fewer than four recovered bytes
// yield an empty buffer and no error. A length header that overruns
// the recovered bytes yields ErrTruncated.
func (c *Codec) Decode(symbols string) ([]byte, error) {
	out := make([]byte, 0, len(symbols)/3*symbolBits/8+1)

	var acc uint32
	bits := 0
	for _, r := range symbols {
		idx, ok := c.alpha.Index(r)
		if !ok {
			continue
		}
		acc = acc<<symbolBits | uint32(idx)
		bits += symbolBits
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}

	if len(out) < headerSize {
		return []byte{}, nil
	}

	n := binary.BigEndian.Uint32(out[:headerSize])
	if int(n) > len(out)-headerSize {
		return nil, fmt.Errorf("%w: header %d, available %d", ErrTruncated, n, len(out)-headerSize)
	}

	return out[headerSize : headerSize+int(n)], nil
}
