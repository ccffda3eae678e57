package keyvalues

import (
	"fmt"

	"golang.org/x/text/encoding"

	"github.com/KimNorgaard/go-keyvalues/internal/parser"
)

const defaultMaxDepth = 100000

// Option configures parsing, decoding and encoding.
type Option func(*options) error

type options struct {
	maxDepth int
	maxNodes int
	lenient  bool
	indent   *int
	encoding encoding.Encoding
}

func newOptions(opts []Option) (*options, error) {
	o := &options{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) parserConfig() parser.Config {
	return parser.Config{
		MaxDepth: o.maxDepth,
		MaxNodes: o.maxNodes,
		Lenient:  o.lenient,
	}
}

// MaxDepth returns an Option that sets the deepest block nesting accepted
// by the parser and followed by the decoder. This helps prevent runaway
// recursion on hostile input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("keyvalues: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// MaxNodes returns an Option that caps the number of nodes a parse may
// allocate. Reaching the cap fails the parse with an AllocationFailure.
func MaxNodes(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("keyvalues: max nodes must be a positive integer")
		}
		o.maxNodes = n
		return nil
	}
}

// Lenient returns an Option that accepts the input older writers produce:
// blocks left open at the end of input, a final comment with no newline,
// keys without a value, and a stray '}' at top level, which ends the
// document. Unterminated quotes are always an error.
func Lenient() Option {
	return func(o *options) error {
		o.lenient = true
		return nil
	}
}

// Indent returns an Option that indents each nesting level with n spaces
// instead of a tab. Indent(0) restores tabs.
func Indent(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("keyvalues: indent must be non-negative")
		}
		o.indent = &n
		return nil
	}
}

// Encoding returns an Option that decodes input from enc to UTF-8 before
// parsing, for files in a legacy code page. Without it, Load and LoadFile
// recognize UTF-8 and UTF-16 byte order marks and otherwise assume UTF-8.
func Encoding(enc encoding.Encoding) Option {
	return func(o *options) error {
		if enc == nil {
			return fmt.Errorf("keyvalues: nil encoding")
		}
		o.encoding = enc
		return nil
	}
}
