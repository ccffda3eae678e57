// Package marshaler converts Go values into KeyValues nodes.
package marshaler

import (
	"cmp"
	"encoding"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"unsafe"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
	"github.com/KimNorgaard/go-keyvalues/internal/mapper"
)

// Marshaler has the method set of keyvalues.Marshaler.
type Marshaler interface {
	MarshalKeyValues() (*ast.Node, error)
}

// A MarshalerError represents an error from calling a MarshalKeyValues
// or MarshalText method.
type MarshalerError struct {
	Type reflect.Type
	Err  error
}

func (e *MarshalerError) Error() string {
	return "keyvalues: error calling marshaler for type " + e.Type.String() + ": " + e.Err.Error()
}

func (e *MarshalerError) Unwrap() error { return e.Err }

// An UnsupportedTypeError is returned when attempting to encode an
// unsupported value type.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "keyvalues: unsupported type: " + e.Type.String()
}

// An UnsupportedValueError is returned when attempting to encode a value
// that refers back to itself.
type UnsupportedValueError struct {
	Value reflect.Value
	Str   string
}

func (e *UnsupportedValueError) Error() string {
	return "keyvalues: unsupported value: " + e.Str
}

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Document converts v into a keyless root node whose children are the
// fields of a struct or the entries of a map with string keys. A nil
// pointer or interface gives an empty document.
func Document(v any) (*ast.Node, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return &ast.Node{}, nil
		}
		rv = rv.Elem()
	}
	m := &marshaler{ptrSeen: make(map[seenKey]struct{})}
	root := &ast.Node{}
	switch rv.Kind() {
	case reflect.Struct:
		if err := m.marshalStruct(root, rv); err != nil {
			return nil, err
		}
	case reflect.Map:
		if err := m.marshalMap(root, rv); err != nil {
			return nil, err
		}
	case reflect.Invalid:
	default:
		return nil, fmt.Errorf("keyvalues: cannot marshal %s as a document, need a struct or a map", rv.Type())
	}
	return root, nil
}

// seenKey identifies a pointer, map or slice being encoded. The length
// tells apart slices that share their first element.
type seenKey struct {
	ptr unsafe.Pointer
	typ reflect.Type
	len int
}

type marshaler struct {
	ptrSeen map[seenKey]struct{}
}

// visit marks the pointer, map or slice rv as being encoded. It fails if
// rv is already on the path from the document root, and otherwise
// returns a func that unmarks it.
func (m *marshaler) visit(rv reflect.Value) (func(), error) {
	k := seenKey{ptr: rv.UnsafePointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if _, ok := m.ptrSeen[k]; ok {
		return nil, &UnsupportedValueError{Value: rv, Str: fmt.Sprintf("encountered a cycle via %s", rv.Type())}
	}
	m.ptrSeen[k] = struct{}{}
	return func() { delete(m.ptrSeen, k) }, nil
}

// marshalInto appends the node or nodes for rv, stored under key, to parent.
func (m *marshaler) marshalInto(parent *ast.Node, key string, rv reflect.Value, omitEmpty bool) error { //nolint:gocyclo
	if omitEmpty && isEmptyValue(rv) {
		return nil
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}

	if rv.Type().Implements(marshalerType) {
		return m.marshalCustom(parent, key, rv, rv.Interface().(Marshaler))
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(marshalerType) {
		return m.marshalCustom(parent, key, rv, rv.Addr().Interface().(Marshaler))
	}
	if rv.Type().Implements(textMarshalerType) {
		return m.marshalText(parent, key, rv, rv.Interface().(encoding.TextMarshaler))
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(textMarshalerType) {
		return m.marshalText(parent, key, rv, rv.Addr().Interface().(encoding.TextMarshaler))
	}

	switch rv.Kind() {
	case reflect.Pointer:
		leave, err := m.visit(rv)
		if err != nil {
			return err
		}
		defer leave()
		return m.marshalInto(parent, key, rv.Elem(), false)
	case reflect.Interface:
		return m.marshalInto(parent, key, rv.Elem(), false)
	case reflect.Struct:
		block := ast.NewBlock(lexer.Escape(key))
		if err := m.marshalStruct(block, rv); err != nil {
			return err
		}
		parent.Append(block)
	case reflect.Map:
		if !rv.IsNil() {
			leave, err := m.visit(rv)
			if err != nil {
				return err
			}
			defer leave()
		}
		block := ast.NewBlock(lexer.Escape(key))
		if err := m.marshalMap(block, rv); err != nil {
			return err
		}
		parent.Append(block)
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			parent.Append(leaf(key, string(bytesOf(rv))))
			return nil
		}
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			leave, err := m.visit(rv)
			if err != nil {
				return err
			}
			defer leave()
		}
		// Each element repeats the key.
		for i := range rv.Len() {
			if err := m.marshalInto(parent, key, rv.Index(i), false); err != nil {
				return err
			}
		}
	case reflect.String:
		parent.Append(leaf(key, rv.String()))
	case reflect.Bool:
		v := "0"
		if rv.Bool() {
			v = "1"
		}
		parent.Append(leaf(key, v))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parent.Append(leaf(key, strconv.FormatInt(rv.Int(), 10)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		parent.Append(leaf(key, strconv.FormatUint(rv.Uint(), 10)))
	case reflect.Float32, reflect.Float64:
		parent.Append(leaf(key, strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())))
	default:
		return &UnsupportedTypeError{Type: rv.Type()}
	}
	return nil
}

func (m *marshaler) marshalStruct(block *ast.Node, rv reflect.Value) error {
	for _, f := range mapper.CachedFields(rv.Type()) {
		if err := m.marshalInto(block, f.Name, rv.FieldByIndex(f.Index), f.OmitEmpty); err != nil {
			return err
		}
	}
	if block.Children == nil {
		block.Children = []*ast.Node{}
	}
	return nil
}

func (m *marshaler) marshalMap(block *ast.Node, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return &UnsupportedTypeError{Type: rv.Type()}
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})
	for _, k := range keys {
		if err := m.marshalInto(block, k.String(), rv.MapIndex(k), false); err != nil {
			return err
		}
	}
	if block.Children == nil {
		block.Children = []*ast.Node{}
	}
	return nil
}

func (m *marshaler) marshalCustom(parent *ast.Node, key string, rv reflect.Value, cm Marshaler) error {
	n, err := cm.MarshalKeyValues()
	if err != nil {
		return &MarshalerError{Type: rv.Type(), Err: err}
	}
	if n == nil {
		return nil
	}
	n.Key = []byte(lexer.Escape(key))
	parent.Append(n)
	return nil
}

func (m *marshaler) marshalText(parent *ast.Node, key string, rv reflect.Value, tm encoding.TextMarshaler) error {
	text, err := tm.MarshalText()
	if err != nil {
		return &MarshalerError{Type: rv.Type(), Err: err}
	}
	parent.Append(leaf(key, string(text)))
	return nil
}

func leaf(key, value string) *ast.Node {
	return ast.NewLeaf(lexer.Escape(key), lexer.Escape(value))
}

func bytesOf(rv reflect.Value) []byte {
	if rv.Kind() == reflect.Slice {
		return rv.Bytes()
	}
	b := make([]byte, rv.Len())
	reflect.Copy(reflect.ValueOf(b), rv)
	return b
}

// isEmptyValue reports whether the value v is empty.
// It is equivalent to the `encoding/json` definition of empty:
// false, 0, a nil pointer, a nil interface value, and any empty array,
// slice, map, or string.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
