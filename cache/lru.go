package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU caps a collection at a fixed size and evicts the least recently used
// record. It is keyed by id, so appending an id twice keeps one record.
// Iteration runs oldest to newest.
type LRU[R Record] struct {
	cache *lru.Cache[string, R]
}

func NewLRU[R Record](maxEntries int) (*LRU[R], error) {
	c, err := lru.New[string, R](maxEntries)
	if err != nil {
		return nil, err
	}
	return &LRU[R]{cache: c}, nil
}

// Find marks a hit as recently used.
func (l *LRU[R]) Find(id string) (R, bool) {
	return l.cache.Get(id)
}

func (l *LRU[R]) Select(match func(R) bool) []R {
	out := make([]R, 0)
	for _, r := range l.cache.Values() {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (l *LRU[R]) All() []R {
	return append(make([]R, 0, l.cache.Len()), l.cache.Values()...)
}

func (l *LRU[R]) Append(r R) {
	l.cache.Add(r.Key(), r)
}

func (l *LRU[R]) Store(r R) (R, bool) {
	if held, ok, _ := l.cache.PeekOrAdd(r.Key(), r); ok {
		return held, false
	}
	return r, true
}

func (l *LRU[R]) Remove(id string) []R {
	l.cache.Remove(id)
	return l.All()
}

func (l *LRU[R]) Len() int {
	return l.cache.Len()
}
