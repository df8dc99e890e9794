package domain

import "encoding/json"

// Opt is a value that may be absent. The zero Opt is absent.
type Opt[T any] struct {
	Value   T
	Present bool
}

func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Present: true} }

// Get returns the value and whether it was present.
func (o Opt[T]) Get() (T, bool) { return o.Value, o.Present }

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if o.Present {
		return o.Value
	}
	return def
}

// MarshalJSON encodes an absent value as null.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
