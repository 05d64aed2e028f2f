package rickmorty

import (
	"encoding/json"
	"fmt"
)

// ID is an upstream identifier. The API sends numbers, request paths carry
// strings; both decode to the same decimal string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}

// Ref is a named link to another resource (origin, last known location).
type Ref struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Matches the upstream JSON; every field is nullable so partial bodies decode.
type Character struct {
	ID       *ID     `json:"id"`
	Name     *string `json:"name"`
	Status   *string `json:"status"` // "Alive", "Dead", "unknown"
	Species  *string `json:"species"`
	Gender   *string `json:"gender"`
	Origin   *Ref    `json:"origin"`
	Location *Ref    `json:"location"`
	Created  *string `json:"created"`

	raw json.RawMessage
}

type Location struct {
	ID        *ID     `json:"id"`
	Name      *string `json:"name"`
	Type      *string `json:"type"`
	Dimension *string `json:"dimension"`
	Created   *string `json:"created"`

	raw json.RawMessage
}

// Key returns the record id, or "" when upstream sent none.
func (c *Character) Key() string { return idString(c.ID) }

func (l *Location) Key() string { return idString(l.ID) }

func (c *Character) UnmarshalJSON(b []byte) error {
	type plain Character
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Character(p)
	c.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON re-emits the upstream body untouched when there is one, so
// fields this struct does not name (episode, image, url) survive the cache.
func (c *Character) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type plain Character
	return json.Marshal((*plain)(c))
}

func (l *Location) UnmarshalJSON(b []byte) error {
	type plain Location
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Location(p)
	l.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (l *Location) MarshalJSON() ([]byte, error) {
	if len(l.raw) > 0 {
		return l.raw, nil
	}
	type plain Location
	return json.Marshal((*plain)(l))
}

// named is the only part of a page element the lister reads.
type named struct {
	Name *string `json:"name"`
}

// page is one upstream listing. Results is a pointer so a missing field can
// be told apart from an empty page.
type page struct {
	Info struct {
		Count int     `json:"count"`
		Pages int     `json:"pages"`
		Next  *string `json:"next"`
		Prev  *string `json:"prev"`
	} `json:"info"`
	Results *[]named `json:"results"`
}

func idString(id *ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

// Ptr returns a pointer to v; handy for building records in code.
func Ptr[T any](v T) *T { return &v }
