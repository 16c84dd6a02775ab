package parser

import "fmt"

// SyntaxError describes a failure to parse a formula, with the byte
// offset of the offending construct in the original text.
type SyntaxError struct {
	Position int
	Message  string
}

func newSyntaxError(pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
}
