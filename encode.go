package keyvalues

import (
	"bytes"
	"io"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/internal/marshaler"
)

// Marshaler is the interface implemented by types that can build their
// own node. The key of the returned node is replaced by the key the value
// is stored under.
type Marshaler interface {
	MarshalKeyValues() (*ast.Node, error)
}

// Marshal returns the KeyValues encoding of v.
//
// v may be a *Tree, an *ast.Node, or a struct or map whose fields become
// the top-level entries. Structs become blocks, with fields named by the
// "kv" struct tag (`kv:"name,omitempty"`, `kv:"-"` to skip) or by the field
// name; maps with string keys become blocks in key order; slices and
// arrays repeat their key once per element; strings, numbers and bools
// become leaves, bools as "1" and "0"; nil pointers and interfaces are
// left out. Quotes and backslashes in strings are escaped so that
// Unmarshal reads them back unchanged.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes KeyValues documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the KeyValues encoding of v to the stream.
// See Marshal for the conversion rules.
func (e *Encoder) Encode(v any) error {
	o, err := newOptions(e.opts)
	if err != nil {
		return err
	}
	root, err := toDocument(v)
	if err != nil {
		return err
	}
	return format(e.w, root, o)
}

func toDocument(v any) (*ast.Node, error) {
	switch x := v.(type) {
	case *Tree:
		if x == nil {
			return &ast.Node{}, nil
		}
		return x.Root, nil
	case *ast.Node:
		if x == nil {
			return &ast.Node{}, nil
		}
		if x.Key == nil {
			return x, nil
		}
		root := &ast.Node{}
		root.Append(x)
		return root, nil
	}
	return marshaler.Document(v)
}
