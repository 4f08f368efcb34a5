// Package suppress tracks recipients already contacted during a campaign
// run so the same address or phone number is never messaged twice, even
// when the uploaded contact file contains duplicates.
package suppress

import (
	"context"
	"sync"
)

// Store records contacted recipients per campaign run.
type Store interface {
	// MarkSent records a recipient for a run and reports whether it was
	// seen for the first time. A false return means the recipient was
	// already contacted during this run.
	MarkSent(ctx context.Context, runID, recipient string) (bool, error)

	// Health reports whether the backing store is reachable.
	Health(ctx context.Context) error

	// Close releases any backing resources.
	Close() error
}

// memoryStore keeps suppression state in-process. Used when no Redis is
// configured and in tests.
type memoryStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMemoryStore creates an in-process suppression store.
func NewMemoryStore() Store {
	return &memoryStore{seen: make(map[string]struct{})}
}

func (s *memoryStore) MarkSent(ctx context.Context, runID, recipient string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := runID + ":" + recipient
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}

func (s *memoryStore) Health(ctx context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
