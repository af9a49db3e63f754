// Package alphabet builds the fixed transport alphabet: a bijective
// table of exactly 32768 Unicode symbols, each standing for 15 bits of
// payload.
//
// The table is assembled from contiguous code-point ranges chosen to
// survive chat clients and clipboards intact: printable ASCII (minus
// the field delimiter), Cyrillic, CJK Unified Ideographs, Hangul
// Syllables, and a truncated slice of CJK Extension A as filler. No
// combining marks, no control characters, no whitespace.
//
// Compatibility contract: a sender and receiver must be built from
// bit-identical tables. There is no version negotiation on the wire,
// so a changed table corrupts data silently rather than failing loudly.
// Do not reorder or edit the ranges below.
package alphabet

// Size is the number of symbols in the alphabet, 2^15.
const Size = 32768

// ranges are the contiguous code-point blocks concatenated (in order)
// until Size symbols are collected. The last block is truncated.
// The field delimiter ':' (U+003A) sits in the gap between the first
// two ASCII blocks and is never a member.
var ranges = []struct{ lo, hi rune }{
	{0x0021, 0x0039}, // '!'..'9'
	{0x003B, 0x007E}, // ';'..'~'
	{0x0400, 0x04FF}, // Cyrillic
	{0x4E00, 0x9FFF}, // CJK Unified Ideographs
	{0xAC00, 0xD7A3}, // Hangul Syllables
	{0x3400, 0x4DBF}, // CJK Extension A (filler, truncated)
}

// Alphabet is the immutable index <-> symbol mapping. Construct once
// with New and share freely; all methods are safe for concurrent use.
type Alphabet struct {
	symbols []rune
	index   map[rune]uint16
}

// New builds the alphabet. Deterministic and pure: every call returns
// an identical table.
func New() *Alphabet {
	a := &Alphabet{
		symbols: make([]rune, 0, Size),
		index:   make(map[rune]uint16, Size),
	}
	for _, r := range ranges {
		for c := r.lo; c <= r.hi && len(a.symbols) < Size; c++ {
			a.index[c] = uint16(len(a.symbols))
			a.symbols = append(a.symbols, c)
		}
	}
	return a
}

// Symbol returns the symbol for a 15-bit index. Total over the index
// space: values are masked to 15 bits.
func (a *Alphabet) Symbol(i uint16) rune {
	return a.symbols[i&(Size-1)]
}

// Index returns the 15-bit index of r, or false if r is not an
// alphabet symbol. Callers use the false case to skip transport noise.
func (a *Alphabet) Index(r rune) (uint16, bool) {
	i, ok := a.index[r]
	return i, ok
}

// Contains reports whether r is an alphabet symbol.
func (a *Alphabet) Contains(r rune) bool {
	_, ok := a.index[r]
	return ok
}

// Len returns the symbol count. Always Size; exists so callers can
// assert the table filled completely in integration checks.
func (a *Alphabet) Len() int {
	return len(a.symbols)
}
