// Package ast defines the node tree of a KeyValues document.
//
// A Node is either a leaf, holding a Value, or a block, holding an ordered
// list of child nodes. Keys and values are byte slices; when a tree comes
// from the parser they alias the parsed buffer, which must therefore stay
// alive and unmodified for as long as the tree is in use (see Detach).
package ast

import (
	"errors"
)

// Node is one entry of a KeyValues document.
//
// A nil Key or Value means the field was never set. A nil Children slice
// marks a leaf; a non-nil one, even empty, marks a block. The parser never
// produces a node with both a value and children; if one is built by hand,
// the value is ignored when the node is written out.
type Node struct {
	Key      []byte
	Value    []byte
	Children []*Node
}

// NewLeaf returns a leaf node holding copies of key and value.
func NewLeaf(key, value string) *Node {
	return &Node{Key: bytesOf(key), Value: bytesOf(value)}
}

// NewBlock returns a block node with a copy of key and the given children.
func NewBlock(key string, children ...*Node) *Node {
	n := &Node{Key: bytesOf(key), Children: make([]*Node, 0, len(children))}
	n.Children = append(n.Children, children...)
	return n
}

func bytesOf(s string) []byte {
	b := make([]byte, len(s))
	copy(b, s)
	return b
}

// KeyString returns the key as a string.
func (n *Node) KeyString() string { return string(n.Key) }

// ValueString returns the value as a string.
func (n *Node) ValueString() string { return string(n.Value) }

// HasValue reports whether the value was set.
func (n *Node) HasValue() bool { return n.Value != nil }

// IsBlock reports whether n is a block.
func (n *Node) IsBlock() bool { return n.Children != nil }

// IsLeaf reports whether n carries a value and no children.
func (n *Node) IsLeaf() bool { return n.Children == nil && n.Value != nil }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.Children) }

// FindKey returns the first direct child whose key equals name, comparing
// bytes exactly. It returns nil when there is no such child.
func (n *Node) FindKey(name string) *Node {
	for _, c := range n.Children {
		if c.Key != nil && string(c.Key) == name {
			return c
		}
	}
	return nil
}

// FindPath follows names one level at a time from n using FindKey.
// An empty path returns n itself.
func (n *Node) FindPath(names ...string) *Node {
	cur := n
	for _, name := range names {
		if cur = cur.FindKey(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Get returns the value of the first direct child named name if that child
// is a leaf.
func (n *Node) Get(name string) (string, bool) {
	c := n.FindKey(name)
	if c == nil || !c.IsLeaf() {
		return "", false
	}
	return string(c.Value), true
}

// Append adds children at the end of n, turning n into a block if it
// was not one.
func (n *Node) Append(children ...*Node) {
	if n.Children == nil {
		n.Children = make([]*Node, 0, len(children))
	}
	n.Children = append(n.Children, children...)
}

// Remove detaches the first occurrence of child from n. It reports whether
// child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			copy(n.Children[i:], n.Children[i+1:])
			n.Children[len(n.Children)-1] = nil
			n.Children = n.Children[:len(n.Children)-1]
			return true
		}
	}
	return false
}

// SkipChildren is used as a return value from a WalkFunc to indicate that
// the children of the node passed to the call are to be skipped.
var SkipChildren = errors.New("skip children")

// WalkFunc is called by Walk for every node. depth is 0 for the node Walk
// was called on.
type WalkFunc func(n *Node, depth int) error

// Walk visits n and every descendant in document order. It uses an explicit
// stack, so the depth of the tree does not bound it. If fn returns
// SkipChildren the children of that node are not visited; any other
// non-nil error stops the walk and is returned.
func (n *Node) Walk(fn WalkFunc) error {
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(f.node, f.depth); err != nil {
			if err == SkipChildren {
				continue
			}
			return err
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
	return nil
}

// Release tears n down: every descendant is cleared before the node that
// holds it, and n last. The buffer the keys and values point into is not
// touched. Release works from a work list, so it is safe on trees of any
// depth or width.
func (n *Node) Release() {
	order := []*Node{n}
	for i := 0; i < len(order); i++ {
		order = append(order, order[i].Children...)
	}
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		clear(c.Children)
		c.Children = nil
		c.Key = nil
		c.Value = nil
	}
}

// Detach copies every key and value of n and its descendants into fresh
// memory, so the tree no longer depends on the buffer it was parsed from.
func (n *Node) Detach() {
	_ = n.Walk(func(c *Node, _ int) error {
		if c.Key != nil {
			c.Key = append(make([]byte, 0, len(c.Key)), c.Key...)
		}
		if c.Value != nil {
			c.Value = append(make([]byte, 0, len(c.Value)), c.Value...)
		}
		return nil
	})
}

// Equal reports whether a and b have the same keys, the same values on
// leaves and the same children in the same order. Values of block nodes
// are ignored.
func Equal(a, b *Node) bool {
	type pair struct{ a, b *Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.a == nil || p.b == nil {
			if p.a != p.b {
				return false
			}
			continue
		}
		if (p.a.Key == nil) != (p.b.Key == nil) || string(p.a.Key) != string(p.b.Key) {
			return false
		}
		if p.a.IsBlock() != p.b.IsBlock() {
			return false
		}
		if !p.a.IsBlock() {
			if (p.a.Value == nil) != (p.b.Value == nil) || string(p.a.Value) != string(p.b.Value) {
				return false
			}
			continue
		}
		if len(p.a.Children) != len(p.b.Children) {
			return false
		}
		for i := range p.a.Children {
			stack = append(stack, pair{p.a.Children[i], p.b.Children[i]})
		}
	}
	return true
}
