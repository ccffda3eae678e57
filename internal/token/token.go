package token

import "fmt"

// Pos is a location in the source buffer.
type Pos struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // byte column, starting at 1
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Bytes with structural meaning in a KeyValues document.
const (
	EOF     byte = 0    // end of input, also the planted terminator
	QUOTE   byte = '"'  // opens and closes a key or value
	ESCAPE  byte = '\\' // makes the following byte literal
	LBRACE  byte = '{'  // opens a block
	RBRACE  byte = '}'  // closes a block
	COMMENT byte = '#'  // line comment
	NEWLINE byte = '\n'
)

// IsSpace reports whether c is insignificant whitespace between tokens.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
