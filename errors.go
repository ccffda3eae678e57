package keyvalues

import (
	"reflect"

	"github.com/KimNorgaard/go-keyvalues/internal/marshaler"
)

// A MarshalerError represents an error from calling a MarshalKeyValues
// or MarshalText method.
type MarshalerError = marshaler.MarshalerError

// An UnsupportedTypeError is returned by Marshal when attempting to
// encode an unsupported value type.
type UnsupportedTypeError = marshaler.UnsupportedTypeError

// An UnsupportedValueError is returned by Marshal when a value refers back
// to itself through pointers, maps or slices.
type UnsupportedValueError = marshaler.UnsupportedValueError

// An UnmarshalerError represents an error from calling an
// UnmarshalKeyValues or UnmarshalText method.
type UnmarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *UnmarshalerError) Error() string {
	return "keyvalues: error calling unmarshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *UnmarshalerError) Unwrap() error { return e.Err }

// An UnmarshalTypeError describes a node that cannot be stored in a Go
// value of a specific type: a block into a scalar, or a leaf into a
// struct, map or slice.
type UnmarshalTypeError struct {
	Node string // "block" or "leaf"
	Key  string
	Type reflect.Type
}

func (e *UnmarshalTypeError) Error() string {
	return "keyvalues: cannot unmarshal " + e.Node + " " + e.Key + " into Go value of type " + e.Type.String()
}
