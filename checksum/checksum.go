// Package checksum computes the short per-volume payload fingerprint.
//
// The fingerprint detects incidental transport corruption (a dropped or
// doubled character from a sloppy paste). It is not cryptographic and
// offers no protection against deliberate tampering.
package checksum

import (
	"strconv"
	"strings"
)

// Length is the fingerprint length in characters.
const Length = 4

// Sum returns the fingerprint of s: a 31-multiplier fold over the code
// points in wraparound 32-bit signed arithmetic, rendered as uppercase
// base 36 and cut to Length characters.
//
// The wraparound at every step is part of the wire format. Widening the
// accumulator would change fingerprints on long payloads and break
// interop with deployed peers.
func Sum(s string) string {
	var h int32
	for _, r := range s {
		h = h*31 + r
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}

	enc := strings.ToUpper(strconv.FormatInt(v, 36))
	if len(enc) > Length {
		enc = enc[:Length]
	}
	return enc
}
