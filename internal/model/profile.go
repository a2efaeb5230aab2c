package model

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that remembers whether its key was present.
//
//	absent      -> Present == false
//	null        -> Present == true, Value == nil
//	value       -> Present == true, Value != nil
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Clear returns a present Optional holding null.
func Clear[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON is only invoked for keys that appear in the document,
// including explicit nulls.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes null for absent and cleared values. Combine with
// omitzero on the owning field to drop absent keys entirely.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero reports absence, which lets encoding/json omitzero skip the key.
func (o Optional[T]) IsZero() bool {
	return !o.Present
}

// ProfileUpdate is a normalized partial update. Cleared fields have a nil Value.
type ProfileUpdate struct {
	Name            Optional[string]
	Bio             Optional[string]
	Skills          Optional[[]string]
	ProfileImageURL Optional[string]
}

// Empty reports whether no field was supplied.
func (u ProfileUpdate) Empty() bool {
	return !u.Name.Present && !u.Bio.Present && !u.Skills.Present && !u.ProfileImageURL.Present
}

// SearchFilter names the column a search matches against.
type SearchFilter string

const (
	SearchByName   SearchFilter = "name"
	SearchByEmail  SearchFilter = "email"
	SearchByID     SearchFilter = "id"
	SearchBySkills SearchFilter = "skills"
)

// SearchFilters lists every accepted filter.
var SearchFilters = []SearchFilter{SearchByName, SearchByEmail, SearchByID, SearchBySkills}

// SearchLimit caps the rows returned by a search.
const SearchLimit = 50
