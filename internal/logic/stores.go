package logic

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryAppliedStore is an in-memory implementation of AppliedStore.
// The oldest entries are evicted once capacity is reached.
type MemoryAppliedStore struct {
	applied *lru.Cache[int64, time.Time]
}

// NewMemoryAppliedStore creates a store holding at most capacity entries
func NewMemoryAppliedStore(capacity int) *MemoryAppliedStore {
	if capacity <= 0 {
		capacity = DefaultAppliedCapacity
	}
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[int64, time.Time](capacity)
	return &MemoryAppliedStore{applied: cache}
}

func (s *MemoryAppliedStore) MarkApplied(openingID int64, at time.Time) {
	s.applied.Add(openingID, at)
}

func (s *MemoryAppliedStore) AppliedAt(openingID int64) (time.Time, bool) {
	return s.applied.Get(openingID)
}

func (s *MemoryAppliedStore) Count() int {
	return s.applied.Len()
}
