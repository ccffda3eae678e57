// Package errors defines the error values reported while reading and
// writing KeyValues documents.
package errors

import "fmt"

// Kind classifies a failure. A Kind is itself an error so that callers can
// test for a class of failure with errors.Is.
type Kind int

const (
	// MalformedInput is input that does not follow the grammar. The more
	// specific syntax kinds below all match it with errors.Is.
	MalformedInput Kind = iota + 1
	// UnterminatedQuote is a quoted token with no closing quote before the
	// end of input.
	UnterminatedQuote
	// UnterminatedComment is a comment that runs into the end of input
	// without a newline.
	UnterminatedComment
	// UnmatchedBrace is a block still open at the end of input.
	UnmatchedBrace
	// UnexpectedBrace is a '}' with no open block.
	UnexpectedBrace
	// DepthExceeded is nesting beyond the configured maximum depth.
	DepthExceeded
	// AllocationFailure is a node allocation refused by the node limit.
	AllocationFailure
	// IOFailure is a read, write, open or close failure.
	IOFailure
)

var kindNames = map[Kind]string{
	MalformedInput:      "malformed input",
	UnterminatedQuote:   "unterminated quote",
	UnterminatedComment: "unterminated comment",
	UnmatchedBrace:      "unmatched brace",
	UnexpectedBrace:     "unexpected brace",
	DepthExceeded:       "depth exceeded",
	AllocationFailure:   "allocation failure",
	IOFailure:           "i/o failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string { return "keyvalues: " + k.String() }

// Is makes every syntax error kind match MalformedInput as well as itself.
func (k Kind) Is(target error) bool {
	t, ok := target.(Kind)
	if !ok {
		return false
	}
	if t == MalformedInput {
		switch k {
		case UnterminatedQuote, UnterminatedComment, UnmatchedBrace, UnexpectedBrace:
			return true
		}
	}
	return t == k
}

// ParseError represents the error that stopped a parse.
// It includes the position of the error.
type ParseError struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("keyvalues: parsing error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// EncodeError is returned when a key or value cannot be written between
// quotes without changing its meaning on the next parse.
type EncodeError struct {
	Text   string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("keyvalues: cannot encode %q: %s", e.Text, e.Reason)
}

// IOError wraps a failure of the underlying reader, writer or file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return "keyvalues: " + e.Op + ": " + e.Err.Error()
	}
	return "keyvalues: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() []error { return []error{e.Err, IOFailure} }
