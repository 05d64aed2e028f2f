// Package cache holds the in-memory record collections behind the catalog,
// one collection per resource kind.
package cache

import "fmt"

// Record is anything stored in a collection; Key is its upstream id.
type Record interface {
	Key() string
}

// Reader defines the lookups a collection supports
type Reader[R Record] interface {
	// Find returns the first record whose key equals id
	Find(id string) (R, bool)

	// Select returns every record match accepts, never nil
	Select(match func(R) bool) []R

	// All returns a snapshot of the collection, never nil
	All() []R
}

// Writer defines the mutations a collection supports
type Writer[R Record] interface {
	// Append stores r; it does not check for an existing key
	Append(r R)

	// Store appends r unless a record with the same key is already held, in
	// which case that record is returned instead. Check and append are atomic.
	Store(r R) (R, bool)

	// Remove drops the first record whose key equals id and returns what is left
	Remove(id string) []R
}

// Collection is the main interface that combines all collection operations
type Collection[R Record] interface {
	Reader[R]
	Writer[R]
	Len() int
}

// New picks the policy for maxEntries: 0 keeps every record for the life of
// the process, a positive value caps the collection with LRU eviction.
func New[R Record](maxEntries int) (Collection[R], error) {
	switch {
	case maxEntries == 0:
		return NewUnbounded[R](), nil
	case maxEntries > 0:
		l, err := NewLRU[R](maxEntries)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("max entries must be >= 0, got %d", maxEntries)
	}
}
