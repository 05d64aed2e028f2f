// Package catalog serves characters and locations from an in-process cache in
// front of the upstream API.
package catalog

import (
	"context"

	"github.com/briangreenhill/multiverse/cache"
	"github.com/briangreenhill/multiverse/pkg/rickmorty"
)

// Upstream is the subset of the API client the catalog needs.
type Upstream interface {
	Character(ctx context.Context, id string) (*rickmorty.Character, error)
	Location(ctx context.Context, id string) (*rickmorty.Location, error)
	Names(ctx context.Context, res rickmorty.Resource, page int) ([]string, error)
}

type Catalog struct {
	Characters *Service[*rickmorty.Character]
	Locations  *Service[*rickmorty.Location]
}

func New(up Upstream, characters cache.Collection[*rickmorty.Character], locations cache.Collection[*rickmorty.Location]) *Catalog {
	return &Catalog{
		Characters: NewService(string(rickmorty.Characters), characters, up.Character,
			func(ctx context.Context, page int) ([]string, error) {
				return up.Names(ctx, rickmorty.Characters, page)
			}),
		Locations: NewService(string(rickmorty.Locations), locations, up.Location,
			func(ctx context.Context, page int) ([]string, error) {
				return up.Names(ctx, rickmorty.Locations, page)
			}),
	}
}

// NewWithPolicy builds both collections with the same cache policy.
func NewWithPolicy(up Upstream, maxEntries int) (*Catalog, error) {
	chars, err := cache.New[*rickmorty.Character](maxEntries)
	if err != nil {
		return nil, err
	}
	locs, err := cache.New[*rickmorty.Location](maxEntries)
	if err != nil {
		return nil, err
	}
	return New(up, chars, locs), nil
}

func (c *Catalog) CharactersByStatus(status string) []*rickmorty.Character {
	return c.Characters.Filter(func(ch *rickmorty.Character) bool { return equal(ch.Status, status) })
}

func (c *Catalog) CharactersByGender(gender string) []*rickmorty.Character {
	return c.Characters.Filter(func(ch *rickmorty.Character) bool { return equal(ch.Gender, gender) })
}

func (c *Catalog) LocationsByType(typ string) []*rickmorty.Location {
	return c.Locations.Filter(func(l *rickmorty.Location) bool { return equal(l.Type, typ) })
}

func (c *Catalog) LocationsByDimension(dimension string) []*rickmorty.Location {
	return c.Locations.Filter(func(l *rickmorty.Location) bool { return equal(l.Dimension, dimension) })
}

// equal is exact and case-sensitive; a null field matches nothing.
func equal(field *string, want string) bool {
	return field != nil && *field == want
}
