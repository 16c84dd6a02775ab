package parser

import (
	"unicode/utf8"
)

const eof = -1

// Lexer converts a formula string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go"
// technique: a cursor over the input with accept/backup helpers.
type Lexer struct {
	input   string // input string being scanned
	length  int    // length of input string
	start   int    // start position of current token
	current int    // current position in input
	width   int    // width of last rune read
	err     error  // first error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Two-character comparison operators, and the ones sharing a first
	// character with them.
	switch ch {
	case '=':
		if l.acceptRune('=') {
			return l.newToken(TokenEqual)
		}
		return l.errorf("unexpected character '=' (did you mean '=='?)")
	case '!':
		if l.acceptRune('=') {
			return l.newToken(TokenNotEqual)
		}
		return l.errorf("unexpected character '!'")
	case '<':
		if l.acceptRune('=') {
			return l.newToken(TokenLessEqual)
		}
		return l.newToken(TokenLess)
	case '>':
		if l.acceptRune('=') {
			return l.newToken(TokenGreaterEqual)
		}
		return l.newToken(TokenGreater)
	}

	// Single-character symbols
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (single or double quoted)
	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	// Number literals
	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}

	// Identifiers and keywords
	if isIdentStart(ch) {
		l.backup()
		return l.scanIdent()
	}

	return l.errorf("unexpected character %q", string(ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed. A backslash escapes the
// matching quote character only.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume the escaped character
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.errorf("unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	t.Value = unescape(t.Value, quote)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// unescape resolves backslash escapes of the quote character. Any other
// backslash sequence is kept verbatim.
func unescape(s string, quote rune) string {
	q := string(quote)
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && string(s[i+1]) == q {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// scanNumber reads a number literal from the current position.
// Format: digits with at most one decimal point.
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)
	if l.acceptRune('.') {
		dot := l.current - 1 // '.' is a single byte
		if !l.acceptAll(isDigit) {
			// No digits after the decimal point; the dot is not part
			// of the number. Rewind to the dot explicitly: backup() can
			// only un-read the last rune, which here is whatever follows
			// the dot, not the dot itself.
			l.current = dot
		}
	}
	return l.newToken(TokenNumber)
}

// scanIdent reads an identifier or keyword from the current position.
// Identifiers are letters, digits and underscores, starting with a letter
// or underscore. Keyword matching requires the full identifier to equal
// the keyword, so identifier prefixes like "andy" never match "and".
func (l *Lexer) scanIdent() Token {
	l.accept(isIdentStart)
	l.acceptAll(isIdentChar)

	t := l.newToken(TokenIdent)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) errorf(format string, args ...interface{}) Token {
	t := l.newToken(TokenError)
	l.err = newSyntaxError(t.Position, format, args...)
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
