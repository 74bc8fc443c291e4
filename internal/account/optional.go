package account

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state JSON field. A zero Optional means the key was not
// supplied at all, which is distinct from an explicit null and from a value.
type Optional[T any] struct {
	set  bool
	null bool
	val  T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{set: true, val: v} }

// Null returns an Optional that was supplied as an explicit null.
func Null[T any]() Optional[T] { return Optional[T]{set: true, null: true} }

// Present reports whether the field appeared in the payload at all.
func (o Optional[T]) Present() bool { return o.set }

// IsNull reports whether the field was supplied as an explicit null.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Value returns the supplied value. The second result is false when the
// field was absent or null.
func (o Optional[T]) Value() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.val, true
}

var jsonNull = []byte("null")

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, jsonNull) {
		o.null = true
		var zero T
		o.val = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.val)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return jsonNull, nil
	}
	return json.Marshal(o.val)
}
