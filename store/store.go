// Package store persists reassembled payloads. The codec hands a store
// one opaque byte buffer per completed transmission; what produced the
// bytes (image, audio, video) is routing metadata only.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrInvalidName rejects payload names that could escape the
// destination prefix.
var ErrInvalidName = errors.New("invalid payload name")

// Store writes one completed payload under a name.
// Implementations must respect context cancellation.
type Store interface {
	// Put persists data under name. The name must not contain path
	// separators or parent references.
	Put(ctx context.Context, name string, data []byte) error
}

// ValidateName rejects names with path separators or "..".
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	return nil
}

// StubStore records Put calls for testing.
type StubStore struct {
	mu   sync.Mutex
	Puts []StubRecord
}

// StubRecord is one recorded write.
type StubRecord struct {
	Name string
	Data []byte
}

// NewStubStore creates a new stub store.
func NewStubStore() *StubStore {
	return &StubStore{}
}

// Put implements Store by recording the call.
func (s *StubStore) Put(_ context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Puts = append(s.Puts, StubRecord{Name: name, Data: data})
	return nil
}

// Verify StubStore implements Store.
var _ Store = (*StubStore)(nil)
