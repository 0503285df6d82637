package model

import (
	"bytes"
	"encoding/json"
)

type optState uint8

const (
	optUnset optState = iota
	optNone
	optSome
)

// Opt is a slot value with three states: unset (never answered), none
// (explicitly nothing, e.g. "no deadline") and a value.
//
// JSON: unset is omitted with the omitzero tag, none is null.
type Opt[T any] struct {
	state optState
	val   T
}

// Some returns a value-holding Opt.
func Some[T any](v T) Opt[T] {
	return Opt[T]{state: optSome, val: v}
}

// None returns an explicitly empty Opt.
func None[T any]() Opt[T] {
	return Opt[T]{state: optNone}
}

// Get returns the value and whether one is held.
func (o Opt[T]) Get() (T, bool) {
	return o.val, o.state == optSome
}

// OrZero returns the value or T's zero value.
func (o Opt[T]) OrZero() T {
	return o.val
}

// HasValue reports whether o holds a value.
func (o Opt[T]) HasValue() bool { return o.state == optSome }

// IsNone reports whether o was explicitly set to nothing.
func (o Opt[T]) IsNone() bool { return o.state == optNone }

// IsSettled reports whether o is either none or a value.
func (o Opt[T]) IsSettled() bool { return o.state != optUnset }

// IsZero reports whether o is unset.
func (o Opt[T]) IsZero() bool { return o.state == optUnset }

// Ptr returns a pointer to the value, nil unless o holds one.
func (o Opt[T]) Ptr() *T {
	if o.state != optSome {
		return nil
	}
	v := o.val
	return &v
}

// MarshalJSON encodes none and unset as null.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if o.state != optSome {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}

// UnmarshalJSON decodes null as none. Absent keys never reach here and stay unset.
func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
