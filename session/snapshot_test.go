package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/justapithecus/glyphcast/alphabet"
	"github.com/justapithecus/glyphcast/types"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	a := alphabet.New()
	vols, want := transmission(t, a, types.MediaImage, 300, 40)

	s := newSession(t, a)
	s.InsertAll(vols[:len(vols)-1])

	data, err := s.Snapshot().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	snap, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}
	if snap.State != StateAccumulating || snap.Total != len(vols) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.FormatVersion != types.Version {
		t.Errorf("FormatVersion = %q", snap.FormatVersion)
	}

	restored := newSession(t, a)
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.ID() != s.ID() {
		t.Errorf("restored ID = %q, want %q", restored.ID(), s.ID())
	}

	// Finish the transmission on the restored session.
	restored.InsertAll(vols[len(vols)-1:])
	got, err := restored.TryReassemble()
	if err != nil {
		t.Fatalf("TryReassemble failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("reassembled bytes differ after snapshot round trip")
	}
}

func TestSnapshot_FileRoundTrip(t *testing.T) {
	a := alphabet.New()
	vols, _ := transmission(t, a, types.MediaAudio, 100, 40)

	s := newSession(t, a)
	s.InsertAll(vols[:1])

	path := filepath.Join(t.TempDir(), "session.bin")
	if err := s.Snapshot().SaveFile(path); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	snap, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if snap.SessionID != s.ID() {
		t.Errorf("SessionID = %q, want %q", snap.SessionID, s.ID())
	}
	if len(snap.Volumes) != 1 {
		t.Errorf("Volumes = %d, want 1", len(snap.Volumes))
	}
}

func TestLoadFile_MissingIsDetectable(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.bin"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist in chain", err)
	}
}

func TestRestore_RejectsOversizedTotal(t *testing.T) {
	a := alphabet.New()
	s := newSession(t, a)

	err := s.Restore(&Snapshot{Total: DefaultMaxTotal + 1, State: StateAccumulating})
	if err == nil {
		t.Fatal("expected error for oversized snapshot total")
	}
}

func TestRestore_RejectsOutOfRangeVolumeIndex(t *testing.T) {
	a := alphabet.New()
	s := newSession(t, a)

	err := s.Restore(&Snapshot{
		Total: 2,
		State: StateAccumulating,
		Volumes: map[int]types.Volume{
			5: {Media: types.MediaImage, Total: 2, Index: 5},
		},
	})
	if err == nil {
		t.Fatal("expected error for out-of-range snapshot index")
	}
}
