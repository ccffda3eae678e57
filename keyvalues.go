package keyvalues

import (
	"bufio"
	"io"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/errors"
	"github.com/KimNorgaard/go-keyvalues/internal/formatter"
	"github.com/KimNorgaard/go-keyvalues/internal/textenc"
)

// Parse parses buf in place and returns the resulting tree. The tree
// points into buf, which the caller must keep unchanged until it is done
// with the tree. See Tree.Parse.
func Parse(buf []byte, opts ...Option) (*Tree, error) {
	t := New()
	if err := t.Parse(buf, opts...); err != nil {
		_ = t.Release()
		return nil, err
	}
	return t, nil
}

// ParseString parses a copy of s. The returned tree owns the copy.
func ParseString(s string, opts ...Option) (*Tree, error) {
	t := New()
	if err := t.ParseOwned([]byte(s), nil, opts...); err != nil {
		_ = t.Release()
		return nil, err
	}
	return t, nil
}

// Load reads all of r and parses it. The returned tree owns the buffer.
// Input starting with a UTF-16 byte order mark, or read with the Encoding
// option, is converted to UTF-8 first.
func Load(r io.Reader, opts ...Option) (*Tree, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errors.IOError{Op: "read", Err: err}
	}
	data, _, err = textenc.Decode(data, o.encoding)
	if err != nil {
		return nil, err
	}
	t := New()
	if err := t.ParseOwned(data, nil, opts...); err != nil {
		_ = t.Release()
		return nil, err
	}
	return t, nil
}

// Save writes t to w, one tab of indentation per nesting level unless
// the Indent option says otherwise.
func Save(w io.Writer, t *Tree, opts ...Option) error {
	return NewEncoder(w, opts...).Encode(t)
}

func format(w io.Writer, root *ast.Node, o *options) error {
	bw := bufio.NewWriter(w)
	if err := formatter.New(bw, o.indent).Format(root); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return &errors.IOError{Op: "write", Err: err}
	}
	return nil
}
