package keyvalues

import (
	"fmt"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/internal/parser"
)

// Tree is a parsed KeyValues document.
//
// The keys and values of a tree returned by a parse are slices of the
// buffer it was parsed from. A tree may own that buffer, in which case
// Release frees it after the nodes; otherwise the caller must keep the
// buffer alive and unmodified until it has released the tree.
//
// A Tree is not safe for concurrent mutation. Once parsed, any number of
// goroutines may read it.
type Tree struct {
	// Root holds the top-level entries as its children. Its key and
	// value are never set.
	Root *ast.Node

	buf      []byte
	release  func() error
	parsed   bool
	released bool
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{Root: &ast.Node{}}
}

// Parse fills t from buf. buf is modified: the closing quote of every key
// and value is overwritten with a zero byte, and the nodes point into it.
// The caller keeps ownership of buf.
//
// A tree can be parsed once. On error t may hold a partial tree; release
// it and do not rely on its contents.
func (t *Tree) Parse(buf []byte, opts ...Option) error {
	return t.ParseOwned(buf, nil, opts...)
}

// ParseOwned is like Parse, but t takes ownership of buf. release, if
// not nil, is called by Release once the nodes are gone. Ownership is
// taken even when parsing fails.
func (t *Tree) ParseOwned(buf []byte, release func() error, opts ...Option) error {
	if t.parsed {
		return fmt.Errorf("keyvalues: tree already parsed")
	}
	if t.released {
		return fmt.Errorf("keyvalues: tree already released")
	}
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	t.parsed = true
	t.buf = buf
	t.release = release
	return parser.New(buf, o.parserConfig()).Parse(t.Root)
}

// Buffer returns the buffer the tree was parsed from.
func (t *Tree) Buffer() []byte { return t.buf }

// FindKey returns the first top-level entry named name.
func (t *Tree) FindKey(name string) *ast.Node { return t.Root.FindKey(name) }

// FindPath follows names from the top level down, one block at a time.
func (t *Tree) FindPath(names ...string) *ast.Node { return t.Root.FindPath(names...) }

// Detach copies every key and value out of the parse buffer and releases
// the buffer if the tree owns it. The tree stays usable.
func (t *Tree) Detach() error {
	t.Root.Detach()
	t.buf = nil
	return t.releaseBuffer()
}

// Release tears down every node and then, if the tree owns its buffer,
// releases the buffer. Calling Release more than once is harmless.
func (t *Tree) Release() error {
	if t.released {
		return nil
	}
	t.released = true
	t.Root.Release()
	t.buf = nil
	return t.releaseBuffer()
}

func (t *Tree) releaseBuffer() error {
	release := t.release
	t.release = nil
	if release == nil {
		return nil
	}
	return release()
}
