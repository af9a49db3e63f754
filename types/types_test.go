package types

import "testing"

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in    string
		want  MediaType
		valid bool
	}{
		{"I", MediaImage, true},
		{"A", MediaAudio, true},
		{"V", MediaVideo, true},
		{"X", "", false},
		{"", "", false},
		{"II", "", false},
		{"i", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMediaType(tt.in)
		if ok != tt.valid {
			t.Errorf("ParseMediaType(%q) ok = %v, want %v", tt.in, ok, tt.valid)
		}
		if got != tt.want {
			t.Errorf("ParseMediaType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVolumeWire(t *testing.T) {
	v := Volume{
		Media:    MediaImage,
		Total:    3,
		Index:    1,
		Checksum: "AB12",
		Payload:  "xyz",
	}

	got := v.Wire()
	want := "GC:I:3:1:AB12:xyz"
	if got != want {
		t.Errorf("Wire() = %q, want %q", got, want)
	}
}
