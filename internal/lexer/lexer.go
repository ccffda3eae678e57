// Package lexer implements the byte cursor the parser advances through a
// KeyValues buffer. It scans in place: quoted tokens come back as slices of
// the buffer, never as copies.
package lexer

import (
	"github.com/KimNorgaard/go-keyvalues/internal/token"
)

// Lexer holds the scanning state for one buffer.
type Lexer struct {
	buf    []byte
	pos    int
	line   int
	column int
}

// New creates and returns a new Lexer positioned at the start of buf.
func New(buf []byte) *Lexer {
	return &Lexer{
		buf:    buf,
		line:   1,
		column: 1,
	}
}

// Peek returns the byte under the cursor, or token.EOF at the end of the
// buffer. A zero byte inside the buffer also ends the input.
func (l *Lexer) Peek() byte {
	if l.pos >= len(l.buf) {
		return token.EOF
	}
	return l.buf[l.pos]
}

// AtEOF reports whether the cursor has reached the end of input.
func (l *Lexer) AtEOF() bool {
	return l.Peek() == token.EOF
}

// Pos returns the position of the cursor.
func (l *Lexer) Pos() token.Pos {
	return token.Pos{Offset: l.pos, Line: l.line, Column: l.column}
}

// Advance moves the cursor one byte forward. It is a no-op at end of input.
func (l *Lexer) Advance() {
	if l.AtEOF() {
		return
	}
	if l.buf[l.pos] == token.NEWLINE {
		l.line++
		l.column = 0
	}
	l.pos++
	l.column++
}

// SkipComment consumes a comment starting at the cursor up to and including
// the next newline. It returns false if the input ended first; the cursor is
// then left at the end of input.
func (l *Lexer) SkipComment() bool {
	l.Advance() // consume '#'
	for {
		switch l.Peek() {
		case token.EOF:
			return false
		case token.NEWLINE:
			l.Advance()
			return true
		}
		l.Advance()
	}
}

// ReadQuoted consumes a quoted token starting at the opening quote under the
// cursor and returns its content as a slice of the buffer. The closing quote
// is overwritten with a zero byte. A backslash makes the byte after it
// literal, so `\"` does not close the token; no other interpretation of
// escapes takes place.
//
// ok is false when the input ends before a closing quote.
func (l *Lexer) ReadQuoted() (text []byte, ok bool) {
	l.Advance() // consume opening quote
	start := l.pos
	for {
		switch l.Peek() {
		case token.EOF:
			return nil, false
		case token.ESCAPE:
			l.Advance()
			if l.AtEOF() {
				return nil, false
			}
		case token.QUOTE:
			end := l.pos
			l.buf[end] = token.EOF
			l.pos++
			l.column++
			return l.buf[start:end:end], true
		}
		l.Advance()
	}
}
