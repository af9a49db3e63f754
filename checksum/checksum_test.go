package checksum

import (
	"strings"
	"testing"
)

func TestSum_Deterministic(t *testing.T) {
	inputs := []string{"", "a", "hello", strings.Repeat("語", 5000)}
	for _, in := range inputs {
		first := Sum(in)
		for i := 0; i < 3; i++ {
			if got := Sum(in); got != first {
				t.Errorf("Sum(%.10q) unstable: %q then %q", in, first, got)
			}
		}
	}
}

func TestSum_Format(t *testing.T) {
	inputs := []string{"", "x", "abcdef", strings.Repeat("파", 999)}
	for _, in := range inputs {
		got := Sum(in)
		if len(got) == 0 || len(got) > Length {
			t.Errorf("Sum(%.10q) = %q, want 1..%d chars", in, got, Length)
		}
		for _, c := range got {
			if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z') {
				t.Errorf("Sum(%.10q) = %q contains non-base36-uppercase %q", in, got, c)
			}
		}
	}
}

func TestSum_KnownValues(t *testing.T) {
	// h("") = 0, h("a") = 97 = 2*36+25 -> "2P".
	tests := []struct{ in, want string }{
		{"", "0"},
		{"a", "2P"},
	}
	for _, tt := range tests {
		if got := Sum(tt.in); got != tt.want {
			t.Errorf("Sum(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSum_SensitiveToSingleCharChange(t *testing.T) {
	base := strings.Repeat("глиф", 64)
	ref := Sum(base)

	runes := []rune(base)
	changed := 0
	for i := 0; i < len(runes); i += 7 {
		mutated := make([]rune, len(runes))
		copy(mutated, runes)
		mutated[i] = mutated[i] + 1
		if Sum(string(mutated)) != ref {
			changed++
		}
	}
	// Overwhelming probability, not certainty: allow at most one
	// accidental collision across the sampled positions.
	total := (len(runes) + 6) / 7
	if changed < total-1 {
		t.Errorf("only %d/%d single-char mutations changed the sum", changed, total)
	}
}

func TestSum_WraparoundDoesNotPanic(t *testing.T) {
	// Long high-code-point input forces many signed overflows.
	in := strings.Repeat(string(rune(0xD7A3)), 100000)
	if got := Sum(in); got == "" {
		t.Error("Sum returned empty fingerprint")
	}
}
