// Package parser builds a KeyValues node tree in place over a mutable buffer.
package parser

import (
	"fmt"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/errors"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
	"github.com/KimNorgaard/go-keyvalues/internal/token"
)

// Config controls how strictly the parser reads its input.
type Config struct {
	// MaxDepth is the deepest block nesting accepted. Zero means no limit.
	MaxDepth int
	// MaxNodes is the most nodes the parser may allocate. Zero means no limit.
	MaxNodes int
	// Lenient accepts input the strict grammar rejects: blocks still open
	// at the end of input, a comment that runs into the end of input, a key
	// with no value, and a stray '}' at top level, which ends the parse.
	Lenient bool
}

// Parser holds the state of the parser.
type Parser struct {
	l     *lexer.Lexer
	cfg   Config
	nodes int
}

// New creates a new parser over buf. The parser overwrites the closing quote
// of every key and value in buf with a zero byte, and the nodes it builds
// point into buf.
func New(buf []byte, cfg Config) *Parser {
	return &Parser{l: lexer.New(buf), cfg: cfg}
}

// Parse reads the whole buffer and appends the top-level entries to root.
// On error root may hold a partial tree.
func (p *Parser) Parse(root *ast.Node) error {
	return p.parseBlock(root, 0, p.l.Pos())
}

// parseBlock reads entries into parent until the '}' that closes it, or
// until the end of input at top level. open is the position of the '{'
// that opened parent.
func (p *Parser) parseBlock(parent *ast.Node, depth int, open token.Pos) error { //nolint:gocyclo
	// cur is the entry whose key has been read and which still waits for
	// its value or its block.
	var cur *ast.Node
	var curPos token.Pos

	for {
		c := p.l.Peek()
		switch {
		case c == token.EOF:
			if cur != nil && !p.cfg.Lenient {
				return p.errorf(errors.MalformedInput, curPos, "key %q has no value", cur.Key)
			}
			if depth > 0 && !p.cfg.Lenient {
				return p.errorf(errors.UnmatchedBrace, open, "block opened here is never closed")
			}
			return nil

		case c == token.COMMENT:
			start := p.l.Pos()
			if !p.l.SkipComment() && !p.cfg.Lenient {
				return p.errorf(errors.UnterminatedComment, start, "comment is not terminated by a newline")
			}

		case token.IsSpace(c):
			p.l.Advance()

		case c == token.QUOTE:
			start := p.l.Pos()
			text, ok := p.l.ReadQuoted()
			if !ok {
				return p.errorf(errors.UnterminatedQuote, start, "quoted text is never closed")
			}
			if cur != nil {
				cur.Value = text
				cur = nil
				continue
			}
			n, err := p.newNode(start)
			if err != nil {
				return err
			}
			n.Key = text
			parent.Append(n)
			cur, curPos = n, start

		case c == token.LBRACE:
			start := p.l.Pos()
			if cur == nil {
				return p.errorf(errors.MalformedInput, start, "block has no key")
			}
			if p.cfg.MaxDepth > 0 && depth >= p.cfg.MaxDepth {
				return p.errorf(errors.DepthExceeded, start, "nesting deeper than %d", p.cfg.MaxDepth)
			}
			p.l.Advance()
			cur.Children = []*ast.Node{}
			block := cur
			cur = nil
			if err := p.parseBlock(block, depth+1, start); err != nil {
				return err
			}

		case c == token.RBRACE:
			if depth == 0 {
				if p.cfg.Lenient {
					return nil
				}
				return p.errorf(errors.UnexpectedBrace, p.l.Pos(), "'}' without a matching '{'")
			}
			if cur != nil && !p.cfg.Lenient {
				return p.errorf(errors.MalformedInput, curPos, "key %q has no value", cur.Key)
			}
			p.l.Advance()
			return nil

		default:
			return p.errorf(errors.MalformedInput, p.l.Pos(), "unexpected character %q", c)
		}
	}
}

func (p *Parser) newNode(at token.Pos) (*ast.Node, error) {
	if p.cfg.MaxNodes > 0 && p.nodes >= p.cfg.MaxNodes {
		return nil, p.errorf(errors.AllocationFailure, at, "node limit of %d reached", p.cfg.MaxNodes)
	}
	p.nodes++
	return &ast.Node{}, nil
}

func (p *Parser) errorf(kind errors.Kind, at token.Pos, format string, args ...any) *errors.ParseError {
	return &errors.ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  at.Offset,
		Line:    at.Line,
		Column:  at.Column,
	}
}
