package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/multiverse/cache"
)

// FetchFunc reads one record from upstream.
type FetchFunc[R cache.Record] func(ctx context.Context, id string) (R, error)

// ListFunc reads the names on one upstream listing page.
type ListFunc func(ctx context.Context, page int) ([]string, error)

// Service is the read-through cache for one resource kind.
type Service[R cache.Record] struct {
	kind  string
	store cache.Collection[R]
	fetch FetchFunc[R]
	list  ListFunc
}

func NewService[R cache.Record](kind string, store cache.Collection[R], fetch FetchFunc[R], list ListFunc) *Service[R] {
	return &Service[R]{kind: kind, store: store, fetch: fetch, list: list}
}

// Get returns the cached record for id, fetching and storing it on a miss.
// Upstream errors are returned as-is and nothing is stored.
//
// The record is stored under the id upstream reports, so an alias such as
// "01" misses every time but never adds a second copy. Concurrent misses for
// the same id are not deduplicated: each one fetches, one record is kept.
func (s *Service[R]) Get(ctx context.Context, id string) (R, error) {
	if r, ok := s.store.Find(id); ok {
		zerolog.Ctx(ctx).Debug().Str("kind", s.kind).Str("id", id).Msg("cache hit")
		return r, nil
	}

	r, err := s.fetch(ctx, id)
	if err != nil {
		var zero R
		return zero, err
	}
	stored, added := s.store.Store(r)
	zerolog.Ctx(ctx).Debug().
		Str("kind", s.kind).
		Str("id", id).
		Str("key", stored.Key()).
		Bool("added", added).
		Int("cached", s.store.Len()).
		Msg("cache miss")
	return stored, nil
}

// Page always asks upstream; listings are never cached.
func (s *Service[R]) Page(ctx context.Context, page int) ([]string, error) {
	return s.list(ctx, page)
}

// Filter scans cached records only. Records never fetched through Get are
// invisible here.
func (s *Service[R]) Filter(match func(R) bool) []R {
	return s.store.Select(match)
}

// Delete drops id from the cache, never from upstream, and returns the
// remaining records. An unknown id is a no-op.
func (s *Service[R]) Delete(id string) []R {
	return s.store.Remove(id)
}

// Cached returns a snapshot of every cached record.
func (s *Service[R]) Cached() []R {
	return s.store.All()
}
