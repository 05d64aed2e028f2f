package cache

import (
	"slices"
	"sync"
)

// Unbounded keeps records in insertion order and never evicts. Lookups are
// linear scans.
type Unbounded[R Record] struct {
	mu    sync.RWMutex
	items []R
}

func NewUnbounded[R Record]() *Unbounded[R] {
	return &Unbounded[R]{}
}

func (u *Unbounded[R]) Find(id string) (R, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, r := range u.items {
		if r.Key() == id {
			return r, true
		}
	}
	var zero R
	return zero, false
}

func (u *Unbounded[R]) Select(match func(R) bool) []R {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]R, 0)
	for _, r := range u.items {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (u *Unbounded[R]) All() []R {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append(make([]R, 0, len(u.items)), u.items...)
}

func (u *Unbounded[R]) Append(r R) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.items = append(u.items, r)
}

func (u *Unbounded[R]) Store(r R) (R, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, held := range u.items {
		if held.Key() == r.Key() {
			return held, false
		}
	}
	u.items = append(u.items, r)
	return r, true
}

func (u *Unbounded[R]) Remove(id string) []R {
	u.mu.Lock()
	defer u.mu.Unlock()
	i := slices.IndexFunc(u.items, func(r R) bool { return r.Key() == id })
	if i >= 0 {
		u.items = slices.Delete(u.items, i, i+1)
	}
	return append(make([]R, 0, len(u.items)), u.items...)
}

func (u *Unbounded[R]) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.items)
}
