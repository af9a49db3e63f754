package session

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/codec"
	"github.com/justapithecus/glyphcast/metrics"
	"github.com/justapithecus/glyphcast/types"
	"github.com/justapithecus/glyphcast/volume"
)

// transmission encodes data and returns its extracted volumes plus the
// original bytes.
func transmission(t *testing.T, a *alphabet.Alphabet, media types.MediaType, size, maxChars int) ([]types.Volume, []byte) {
	t.Helper()

	data := make([]byte, size)
	rand.New(rand.NewSource(int64(size))).Read(data)

	symbols := codec.New(a).Encode(data)
	bodies, err := volume.Chunk(media, symbols, maxChars)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	ex := volume.NewExtractor(a, nil)
	var vols []types.Volume
	for _, body := range bodies {
		vols = append(vols, ex.Extract(body)...)
	}
	if len(vols) != len(bodies) {
		t.Fatalf("extracted %d of %d volumes", len(vols), len(bodies))
	}
	return vols, data
}

func newSession(t *testing.T, a *alphabet.Alphabet) *Session {
	t.Helper()
	s, err := New(Config{Alphabet: a})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew_RequiresAlphabet(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSession_ForwardOrder(t *testing.T) {
	a := alphabet.New()
	vols, want := transmission(t, a, types.MediaImage, 300, 120)
	s := newSession(t, a)

	out := s.InsertAll(vols)
	if out.Accepted != len(vols) || out.Rejected != 0 {
		t.Fatalf("outcome = %+v", out)
	}
	if s.State() != StateAccumulating {
		t.Fatalf("state = %s", s.State())
	}

	got, err := s.TryReassemble()
	if err != nil {
		t.Fatalf("TryReassemble failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("reassembled bytes differ from original")
	}
	if s.State() != StateComplete {
		t.Fatalf("state = %s, want complete", s.State())
	}
}

func TestSession_ReverseAndDuplicateOrderInvariance(t *testing.T) {
	a := alphabet.New()
	vols, want := transmission(t, a, types.MediaVideo, 300, 120)

	reversed := make([]types.Volume, len(vols))
	for i, v := range vols {
		reversed[len(vols)-1-i] = v
	}
	withDup := append(append([]types.Volume{}, vols...), vols[0])

	for name, input := range map[string][]types.Volume{
		"reversed":  reversed,
		"duplicate": withDup,
	} {
		s := newSession(t, a)
		out := s.InsertAll(input)
		if out.Rejected != 0 {
			t.Fatalf("%s: rejected %d", name, out.Rejected)
		}
		got, err := s.TryReassemble()
		if err != nil {
			t.Fatalf("%s: TryReassemble failed: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s: reassembled bytes differ", name)
		}
	}
}

func TestSession_IncompleteReporting(t *testing.T) {
	a := alphabet.New()
	vols, _ := transmission(t, a, types.MediaImage, 300, 40)
	s := newSession(t, a)

	s.InsertAll(vols[:len(vols)-2])

	_, err := s.TryReassemble()
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want *IncompleteError", err)
	}
	if incomplete.Have != len(vols)-2 || incomplete.Total != len(vols) {
		t.Fatalf("incomplete = %+v", incomplete)
	}

	missing := s.Missing()
	if len(missing) != 2 {
		t.Fatalf("Missing() = %v", missing)
	}
	if missing[0] != len(vols)-2 || missing[1] != len(vols)-1 {
		t.Fatalf("Missing() = %v", missing)
	}

	have, total := s.Progress()
	if have != len(vols)-2 || total != len(vols) {
		t.Fatalf("Progress() = %d/%d", have, total)
	}
}

func TestSession_RejectsInconsistentTransmission(t *testing.T) {
	a := alphabet.New()
	m := metrics.NewCollector("t")
	s, err := New(Config{Alphabet: a, Metrics: m})
	if err != nil {
		t.Fatal(err)
	}

	imgVols, _ := transmission(t, a, types.MediaImage, 300, 120)
	s.InsertAll(imgVols[:1])

	// Same index space, different total: must not merge.
	conflicting := types.Volume{Media: types.MediaImage, Total: imgVols[0].Total + 1, Index: 0, Payload: "x"}
	out := s.InsertAll([]types.Volume{conflicting})
	if out.Rejected != 1 || !out.Inconsistent {
		t.Fatalf("outcome = %+v, want inconsistent rejection", out)
	}

	// Different media, same total: also inconsistent.
	wrongMedia := imgVols[1]
	wrongMedia.Media = types.MediaAudio
	out = s.InsertAll([]types.Volume{wrongMedia})
	if out.Rejected != 1 || !out.Inconsistent {
		t.Fatalf("outcome = %+v, want inconsistent rejection", out)
	}

	if got := m.Snapshot().InconsistentRejected; got != 2 {
		t.Errorf("InconsistentRejected = %d, want 2", got)
	}
}

func TestSession_RejectsOutOfRangeIndexAndTotal(t *testing.T) {
	a := alphabet.New()
	s := newSession(t, a)

	out := s.InsertAll([]types.Volume{
		{Media: types.MediaImage, Total: 0, Index: 0},
		{Media: types.MediaImage, Total: -1, Index: 0},
		{Media: types.MediaImage, Total: DefaultMaxTotal + 1, Index: 0},
	})
	if out.Accepted != 0 || out.Rejected != 3 {
		t.Fatalf("outcome = %+v", out)
	}
	if s.State() != StateIdle {
		t.Fatalf("rejections must not pin the session, state = %s", s.State())
	}

	out = s.InsertAll([]types.Volume{
		{Media: types.MediaImage, Total: 3, Index: 0, Payload: "a", Checksum: "x"},
		{Media: types.MediaImage, Total: 3, Index: 3, Payload: "b", Checksum: "x"},
		{Media: types.MediaImage, Total: 3, Index: -1, Payload: "c", Checksum: "x"},
	})
	if out.Accepted != 1 || out.Rejected != 2 {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestSession_Reset(t *testing.T) {
	a := alphabet.New()
	vols, _ := transmission(t, a, types.MediaAudio, 100, 120)
	s := newSession(t, a)

	s.InsertAll(vols)
	if _, err := s.TryReassemble(); err != nil {
		t.Fatalf("TryReassemble failed: %v", err)
	}

	s.Reset()
	if s.State() != StateIdle {
		t.Fatalf("state after reset = %s", s.State())
	}
	if have, total := s.Progress(); have != 0 || total != 0 {
		t.Fatalf("progress after reset = %d/%d", have, total)
	}
	if s.Media() != "" {
		t.Fatalf("media after reset = %q", s.Media())
	}

	// The session is reusable for a fresh transmission.
	vols2, want2 := transmission(t, a, types.MediaImage, 80, 120)
	s.InsertAll(vols2)
	got, err := s.TryReassemble()
	if err != nil {
		t.Fatalf("TryReassemble after reset failed: %v", err)
	}
	if !bytes.Equal(got, want2) {
		t.Fatal("second transmission mismatch")
	}
}

func TestSession_TerminalDecodeFailure(t *testing.T) {
	a := alphabet.New()
	m := metrics.NewCollector("t")
	s, err := New(Config{Alphabet: a, Metrics: m})
	if err != nil {
		t.Fatal(err)
	}

	// A single "complete" transmission whose payload is only a partial
	// encoded stream: structurally whole, semantically truncated.
	full := codec.New(a).Encode(make([]byte, 64))
	runes := []rune(full)
	partial := string(runes[:len(runes)/2])

	s.InsertAll([]types.Volume{{
		Media: types.MediaImage, Total: 1, Index: 0, Payload: partial,
	}})

	_, err = s.TryReassemble()
	if !errors.Is(err, codec.ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
	if s.State() != StateFailed {
		t.Fatalf("state = %s, want failed", s.State())
	}
	if m.Snapshot().DecodeFailures != 1 {
		t.Errorf("DecodeFailures = %d, want 1", m.Snapshot().DecodeFailures)
	}

	// Failed is terminal until Reset.
	out := s.InsertAll([]types.Volume{{Media: types.MediaImage, Total: 1, Index: 0, Payload: partial}})
	if out.Accepted != 0 {
		t.Errorf("failed session accepted a volume")
	}
	s.Reset()
	if s.State() != StateIdle {
		t.Errorf("state after reset = %s", s.State())
	}
}

func TestSession_ScenarioSmallBudgetEndToEnd(t *testing.T) {
	// chunk with maxChars 40 over a payload long enough for several
	// volumes, then reassemble through extract+insert.
	a := alphabet.New()
	vols, want := transmission(t, a, types.MediaImage, 120, 40)
	if len(vols) < 2 {
		t.Fatalf("expected a multi-volume transmission, got %d", len(vols))
	}

	s := newSession(t, a)
	s.InsertAll(vols)
	got, err := s.TryReassemble()
	if err != nil {
		t.Fatalf("TryReassemble failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("reassembled bytes differ")
	}
}
