package keyvalues

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
	"github.com/KimNorgaard/go-keyvalues/internal/mapper"
)

// Unmarshaler is the interface implemented by types that can decode
// themselves from a node. The node is only valid during the call.
type Unmarshaler interface {
	UnmarshalKeyValues(n *ast.Node) error
}

// Unmarshal parses the KeyValues-encoded data and stores the result in the
// value pointed to by v. data itself is not modified.
//
// The top-level entries are decoded as the children of one block:
//   - a block fills a struct (children matched to fields by "kv" tag or
//     field name, exactly first and then case-insensitively; unknown keys
//     are ignored), a map with string keys, or a slice or array with one
//     element per child in order;
//   - a leaf fills a string, bool, integer, float, []byte or an
//     encoding.TextUnmarshaler;
//   - into an empty interface, a block becomes map[string]any and a leaf a
//     string.
//
// When keys repeat, the first one wins, except for slice fields of a
// struct, which collect every child with their key. `\"` and `\\` in leaf
// values are unescaped.
func Unmarshal(data []byte, v any, opts ...Option) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	t := New()
	defer t.Release()
	if err := t.ParseOwned(buf, nil, opts...); err != nil {
		return err
	}
	return decodeTree(t, v, opts)
}

// Decoder reads and decodes KeyValues documents from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure the decoding process,
// such as setting a maximum decoding depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the whole input and stores the decoded document in the
// value pointed to by v. See Unmarshal for the conversion rules.
func (d *Decoder) Decode(v any) error {
	if d.r == nil {
		return fmt.Errorf("keyvalues: Decode(nil reader)")
	}
	t, err := Load(d.r, d.opts...)
	if err != nil {
		return err
	}
	defer t.Release()
	return decodeTree(t, v, d.opts)
}

func decodeTree(t *Tree, v any, opts []Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("keyvalues: Unmarshal(non-pointer %T or nil)", v)
	}
	root := t.Root
	if root.Children == nil {
		root.Children = []*ast.Node{}
	}
	ds := &decodeState{maxDepth: o.maxDepth}
	return ds.decode(root, rv.Elem())
}

// decodeState counts open blocks. The keyless root counts as one, so n
// blocks nested below it fit a MaxDepth of n, as in the parser.
type decodeState struct {
	depth    int
	maxDepth int
}

// enter records one more open block.
func (ds *decodeState) enter() error {
	ds.depth++
	if ds.depth > ds.maxDepth+1 {
		return fmt.Errorf("keyvalues: reached max recursion depth")
	}
	return nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func (ds *decodeState) decode(n *ast.Node, rv reflect.Value) error {
	if n.IsBlock() {
		defer func() { ds.depth-- }()
		if err := ds.enter(); err != nil {
			return err
		}
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	handled, err := ds.tryCustomUnmarshal(n, rv)
	if handled || err != nil {
		return err
	}

	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		v, err := ds.toAny(n)
		if err != nil || v == nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if !rv.CanSet() {
		return fmt.Errorf("keyvalues: cannot set value of type %s", rv.Type())
	}

	if n.IsBlock() {
		return ds.decodeBlock(n, rv)
	}
	if !n.HasValue() {
		return nil
	}
	return ds.decodeLeaf(n, rv)
}

// tryCustomUnmarshal uses an Unmarshaler, or for leaves an
// encoding.TextUnmarshaler, when rv's address implements one. It reports
// whether it did.
func (ds *decodeState) tryCustomUnmarshal(n *ast.Node, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		if err := u.UnmarshalKeyValues(n); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if !n.IsLeaf() || !pv.Type().Implements(textUnmarshalerType) {
		return false, nil
	}
	u := pv.Interface().(encoding.TextUnmarshaler)
	if err := u.UnmarshalText([]byte(lexer.Unescape(n.Value))); err != nil {
		return true, &UnmarshalerError{Type: pv.Type(), Err: err}
	}
	return true, nil
}

func (ds *decodeState) decodeBlock(n *ast.Node, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		return ds.decodeStruct(n, rv)
	case reflect.Map:
		return ds.decodeMap(n, rv)
	case reflect.Slice:
		rv.Set(reflect.MakeSlice(rv.Type(), 0, len(n.Children)))
		for _, c := range n.Children {
			if err := ds.appendElem(c, rv); err != nil {
				return err
			}
		}
		return nil
	case reflect.Array:
		rv.SetZero()
		for i, c := range n.Children {
			if i >= rv.Len() {
				break
			}
			if err := ds.decode(c, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return &UnmarshalTypeError{Node: "block", Key: strconv.Quote(n.KeyString()), Type: rv.Type()}
	}
}

func (ds *decodeState) decodeStruct(n *ast.Node, rv reflect.Value) error {
	fields := mapper.CachedFields(rv.Type())
	seen := make(map[string]bool)
	for _, c := range n.Children {
		if c.Key == nil || (!c.IsBlock() && !c.HasValue()) {
			continue
		}
		f, ok := mapper.Lookup(fields, lexer.Unescape(c.Key))
		if !ok {
			continue
		}
		fv := rv.FieldByIndex(f.Index)

		if collectsRepeats(fv.Type()) && !scalarList(fv.Type(), c) {
			if !seen[f.Name] {
				fv.Set(reflect.MakeSlice(fv.Type(), 0, 1))
				seen[f.Name] = true
			}
			if err := ds.appendElem(c, fv); err != nil {
				return err
			}
			continue
		}

		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		if err := ds.decode(c, fv); err != nil {
			return err
		}
	}
	return nil
}

// collectsRepeats reports whether a struct field of type t gathers every
// child with its key, rather than decoding only the first.
func collectsRepeats(t reflect.Type) bool {
	if t.Kind() != reflect.Slice || t.Elem().Kind() == reflect.Uint8 {
		return false
	}
	return !reflect.PointerTo(t).Implements(reflect.TypeFor[Unmarshaler]())
}

// scalarList reports whether c is a block of leaves destined for a slice
// of scalars, such as "tags" { "0" "a" "1" "b" } into []string. Such a
// block is decoded as the whole list.
func scalarList(t reflect.Type, c *ast.Node) bool {
	if !c.IsBlock() {
		return false
	}
	elem := t.Elem()
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return false
	}
	return !reflect.PointerTo(elem).Implements(reflect.TypeFor[Unmarshaler]())
}

func (ds *decodeState) appendElem(c *ast.Node, slice reflect.Value) error {
	if c.Key == nil || (!c.IsBlock() && !c.HasValue()) {
		return nil
	}
	elem := reflect.New(slice.Type().Elem()).Elem()
	if err := ds.decode(c, elem); err != nil {
		return err
	}
	slice.Set(reflect.Append(slice, elem))
	return nil
}

func (ds *decodeState) decodeMap(n *ast.Node, rv reflect.Value) error {
	mt := rv.Type()
	if mt.Key().Kind() != reflect.String {
		return fmt.Errorf("keyvalues: cannot unmarshal into map with %s keys", mt.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mt))
	}
	seen := make(map[string]bool)
	for _, c := range n.Children {
		if c.Key == nil || (!c.IsBlock() && !c.HasValue()) {
			continue
		}
		key := lexer.Unescape(c.Key)
		if seen[key] {
			continue
		}
		seen[key] = true
		elem := reflect.New(mt.Elem()).Elem()
		if err := ds.decode(c, elem); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(mt.Key()), elem)
	}
	return nil
}

func (ds *decodeState) decodeLeaf(n *ast.Node, rv reflect.Value) error {
	s := lexer.Unescape(n.Value)
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(s)
		return nil
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return ds.leafError(n, rv, err)
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, rv.Type().Bits())
		if err != nil {
			return ds.leafError(n, rv, err)
		}
		rv.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(strings.TrimSpace(s), 10, rv.Type().Bits())
		if err != nil {
			return ds.leafError(n, rv, err)
		}
		rv.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), rv.Type().Bits())
		if err != nil {
			return ds.leafError(n, rv, err)
		}
		rv.SetFloat(f)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			rv.SetBytes([]byte(s))
			return nil
		}
	}
	return &UnmarshalTypeError{Node: "leaf", Key: strconv.Quote(n.KeyString()), Type: rv.Type()}
}

func (ds *decodeState) leafError(n *ast.Node, rv reflect.Value, err error) error {
	return fmt.Errorf("keyvalues: cannot unmarshal %q (key %q) into %s: %w", n.Value, n.Key, rv.Type(), err)
}

// toAny converts n to map[string]any or string. It returns nil for a node
// with neither children nor value. The caller has already entered n.
func (ds *decodeState) toAny(n *ast.Node) (any, error) {
	if !n.IsBlock() {
		if !n.HasValue() {
			return nil, nil
		}
		return lexer.Unescape(n.Value), nil
	}
	m := make(map[string]any, len(n.Children))
	for _, c := range n.Children {
		if c.Key == nil {
			continue
		}
		key := lexer.Unescape(c.Key)
		if _, dup := m[key]; dup {
			continue
		}
		v, err := ds.childAny(c)
		if err != nil {
			return nil, err
		}
		if v != nil {
			m[key] = v
		}
	}
	return m, nil
}

func (ds *decodeState) childAny(c *ast.Node) (any, error) {
	if c.IsBlock() {
		defer func() { ds.depth-- }()
		if err := ds.enter(); err != nil {
			return nil, err
		}
	}
	return ds.toAny(c)
}
