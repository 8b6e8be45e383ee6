package material

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Slot is an optional material field. The zero Slot is empty.
type Slot[T comparable] struct {
	Value T
	Valid bool
}

// Some returns a filled slot.
func Some[T comparable](v T) Slot[T] {
	return Slot[T]{Value: v, Valid: true}
}

// Get returns the value and whether the slot is filled.
func (s Slot[T]) Get() (T, bool) {
	return s.Value, s.Valid
}

// Or returns the value, or def when the slot is empty.
func (s Slot[T]) Or(def T) T {
	if !s.Valid {
		return def
	}
	return s.Value
}

func (s Slot[T]) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Slot[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Slot[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Some(v)
	return nil
}

func (s Slot[T]) MarshalYAML() (any, error) {
	if !s.Valid {
		return nil, nil
	}
	return s.Value, nil
}

func (s *Slot[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*s = Slot[T]{}
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*s = Some(v)
	return nil
}

// AnyValid reports whether at least one slot is filled.
func AnyValid[T comparable](slots []Slot[T]) bool {
	for _, s := range slots {
		if s.Valid {
			return true
		}
	}
	return false
}

// CountValid returns the number of filled slots.
func CountValid[T comparable](slots []Slot[T]) int {
	n := 0
	for _, s := range slots {
		if s.Valid {
			n++
		}
	}
	return n
}
