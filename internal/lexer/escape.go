package lexer

import (
	"strings"

	"github.com/KimNorgaard/go-keyvalues/internal/token"
)

// Quotable reports whether text can be written between quotes and read
// back unchanged: it must not contain a quote that is not escaped or a
// zero byte, and must not end in an escape that would swallow the closing
// quote.
func Quotable(text []byte) bool {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case token.ESCAPE:
			i++
			if i == len(text) || text[i] == token.EOF {
				return false
			}
		case token.QUOTE, token.EOF:
			return false
		}
	}
	return true
}

// Escape returns s with quotes escaped, and with backslashes escaped where
// they would otherwise pair with the next byte or the closing quote, so
// that Unescape(Escape(s)) == s. Backslashes in front of any other byte
// are kept as they are.
func Escape(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case token.QUOTE:
			b.WriteString(`\"`)
		case token.ESCAPE:
			if i+1 == len(s) || s[i+1] == token.QUOTE || s[i+1] == token.ESCAPE {
				b.WriteString(`\\`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape resolves `\"` and `\\`. Any other backslash is literal.
func Unescape(text []byte) string {
	if !strings.Contains(string(text), `\`) {
		return string(text)
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == token.ESCAPE && i+1 < len(text) {
			if next := text[i+1]; next == token.QUOTE || next == token.ESCAPE {
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
