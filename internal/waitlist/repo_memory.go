package waitlist

import (
	"context"
	"sync"
)

// MemoryRepo keeps subscribers in process memory. Signups are lost on restart.
type MemoryRepo struct {
	mu   sync.Mutex
	subs map[string]Subscriber
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{subs: make(map[string]Subscriber)} }

func (r *MemoryRepo) Add(ctx context.Context, s Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s.Email]; ok {
		return false, nil
	}
	r.subs[s.Email] = s
	return true, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.subs)), nil
}
