package formatter

import (
	"io"
	"strings"

	"github.com/KimNorgaard/go-keyvalues/ast"
	"github.com/KimNorgaard/go-keyvalues/errors"
	"github.com/KimNorgaard/go-keyvalues/internal/lexer"
)

// Formatter writes a KeyValues node tree to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
}

// New returns a new formatter that writes to w. Each nesting level is
// indented with one tab, or with indentSpaces spaces when that is positive.
func New(w io.Writer, indentSpaces *int) *Formatter {
	indentStr := "\t"
	if indentSpaces != nil && *indentSpaces > 0 {
		indentStr = strings.Repeat(" ", *indentSpaces)
	}
	return &Formatter{w: w, indent: indentStr}
}

// Format writes the children of root at the outermost level. root itself,
// usually the keyless document root, is not written.
func (f *Formatter) Format(root *ast.Node) error {
	for _, n := range root.Children {
		if err := f.writeNode(n); err != nil {
			return err
		}
	}
	return nil
}

// FormatNode writes n itself, as a block or as a leaf line.
func (f *Formatter) FormatNode(n *ast.Node) error {
	return f.writeNode(n)
}

func (f *Formatter) writeNode(n *ast.Node) error {
	if n.IsBlock() {
		return f.writeBlock(n)
	}
	if n.Key == nil || n.Value == nil {
		return nil
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	if err := f.writeQuoted(n.Key); err != nil {
		return err
	}
	if err := f.write("\t\t"); err != nil {
		return err
	}
	if err := f.writeQuoted(n.Value); err != nil {
		return err
	}
	return f.write("\n")
}

func (f *Formatter) writeBlock(n *ast.Node) error {
	if n.Key == nil {
		return &errors.EncodeError{Reason: "block has no key"}
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	if err := f.writeQuoted(n.Key); err != nil {
		return err
	}
	if err := f.write("\n"); err != nil {
		return err
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	if err := f.write("{\n"); err != nil {
		return err
	}

	f.depth++
	for _, c := range n.Children {
		if err := f.writeNode(c); err != nil {
			return err
		}
	}
	f.depth--

	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write("}\n")
}

func (f *Formatter) writeIndent() error {
	if f.depth == 0 {
		return nil
	}
	return f.write(strings.Repeat(f.indent, f.depth))
}

func (f *Formatter) writeQuoted(text []byte) error {
	if !lexer.Quotable(text) {
		return &errors.EncodeError{Text: string(text), Reason: "unescaped quote, zero byte or trailing backslash"}
	}
	if err := f.write(`"`); err != nil {
		return err
	}
	if _, err := f.w.Write(text); err != nil {
		return &errors.IOError{Op: "write", Err: err}
	}
	return f.write(`"`)
}

func (f *Formatter) write(s string) error {
	if _, err := io.WriteString(f.w, s); err != nil {
		return &errors.IOError{Op: "write", Err: err}
	}
	return nil
}
