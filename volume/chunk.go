// Package volume splits an encoded symbol stream into self-describing,
// checksummed wire fragments and extracts them back out of noisy text.
//
// Wire format of one volume:
//
//	GC:{type}:{total}:{index}:{checksum}:{payload}
//
// The payload is a contiguous run of alphabet symbols and can never
// contain the field delimiter or the prefix, by alphabet construction.
package volume

import (
	"errors"
	"fmt"

	"github.com/justapithecus/glyphcast/checksum"
	"github.com/justapithecus/glyphcast/types"
)

// ErrCharBudget reports a max_chars too small to fit even one payload
// symbol next to the volume header. This is a configuration error, not
// a data error.
var ErrCharBudget = errors.New("char budget too small for volume header")

// maxOverheadIterations bounds the fixed-point loop in headerOverhead.
// digits(total) can only grow while total shrinks, so convergence takes
// at most a handful of rounds; ten is unreachable in practice.
const maxOverheadIterations = 10

// Chunk splits symbols into wire volumes of at most maxChars characters
// each. The header overhead is computed exactly from the digit counts
// of total and index rather than a guessed margin, so every produced
// volume fits maxChars with no slack wasted.
//
// An empty symbol string still produces one volume with an empty
// payload, so a transmission always has at least one fragment.
func Chunk(media types.MediaType, symbols string, maxChars int) ([]string, error) {
	vols, err := ChunkVolumes(media, symbols, maxChars)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(vols))
	for i, v := range vols {
		out[i] = v.Wire()
	}
	return out, nil
}

// ChunkVolumes is Chunk before wire serialization, for callers that
// publish volumes structurally instead of as text.
func ChunkVolumes(media types.MediaType, symbols string, maxChars int) ([]types.Volume, error) {
	if !media.Valid() {
		return nil, fmt.Errorf("invalid media type %q", media)
	}

	runes := []rune(symbols)
	total, effective, err := layout(len(runes), maxChars)
	if err != nil {
		return nil, err
	}

	out := make([]types.Volume, 0, total)
	for i := 0; i < total; i++ {
		lo := i * effective
		hi := min(lo+effective, len(runes))
		payload := string(runes[lo:hi])

		out = append(out, types.Volume{
			Media:    media,
			Total:    total,
			Index:    i,
			Checksum: checksum.Sum(payload),
			Payload:  payload,
		})
	}
	return out, nil
}

// layout computes the volume count and per-volume payload capacity for
// n symbols under a maxChars budget. Fixed-point iteration: the header
// reserves digits(total) characters for both the total and index
// fields (index <= total-1 never needs more), and total itself depends
// on the reserve.
func layout(n, maxChars int) (total, effective int, err error) {
	d := 1
	for range maxOverheadIterations {
		overhead := len(types.WirePrefix) + 1 + 1 + d + 1 + d + 1 + types.ChecksumLen + 1
		effective = maxChars - overhead
		if effective <= 0 {
			return 0, 0, fmt.Errorf("%w: max_chars %d, header needs %d", ErrCharBudget, maxChars, overhead+1)
		}

		total = (n + effective - 1) / effective
		if total == 0 {
			total = 1
		}

		// d only ever grows: shrinking it again could oscillate on
		// boundaries where a smaller reserve pushes total back up a
		// digit. A one-digit-generous reserve still fits maxChars.
		nd := digits(total)
		if nd <= d {
			return total, effective, nil
		}
		d = nd
	}
	// Unreachable: digits(total) is monotonic in the loop.
	return 0, 0, fmt.Errorf("%w: overhead computation did not converge", ErrCharBudget)
}

func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

