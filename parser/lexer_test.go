package parser

import "testing"

func TestLexerTokens(t *testing.T) {
	cases := []struct {
		input string
		want  []TokenType
	}{
		{"1 + 2", []TokenType{TokenNumber, TokenPlus, TokenNumber}},
		{"3.75", []TokenType{TokenNumber}},
		{"a.b.c", []TokenType{TokenIdent, TokenDot, TokenIdent, TokenDot, TokenIdent}},
		{"x >= 10", []TokenType{TokenIdent, TokenGreaterEqual, TokenNumber}},
		{"x == y != z", []TokenType{TokenIdent, TokenEqual, TokenIdent, TokenNotEqual, TokenIdent}},
		{"a and b or not c", []TokenType{TokenIdent, TokenAnd, TokenIdent, TokenOr, TokenNot, TokenIdent}},
		{"true false", []TokenType{TokenTrue, TokenFalse}},
		{"min(1, 2)", []TokenType{TokenIdent, TokenParenOpen, TokenNumber, TokenComma, TokenNumber, TokenParenClose}},
		{"items[0]", []TokenType{TokenIdent, TokenBracketOpen, TokenNumber, TokenBracketClose}},
		{"2 ^ 3 % 4", []TokenType{TokenNumber, TokenPower, TokenNumber, TokenMod, TokenNumber}},
		{`"hi"`, []TokenType{TokenString}},
		{"'hi'", []TokenType{TokenString}},
		// Keyword matching requires the full identifier: "andy" is a name.
		{"andy orb nott trueish", []TokenType{TokenIdent, TokenIdent, TokenIdent, TokenIdent}},
	}

	for _, c := range cases {
		l := NewLexer(c.input)
		var got []TokenType
		for {
			tok := l.Next()
			if tok.Type == TokenEOF || tok.Type == TokenError {
				break
			}
			got = append(got, tok.Type)
		}
		if l.Error() != nil {
			t.Fatalf("input %q: unexpected error: %v", c.input, l.Error())
		}
		if len(got) != len(c.want) {
			t.Fatalf("input %q: got %d tokens, want %d", c.input, len(got), len(c.want))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("input %q: token %d is %s, want %s", c.input, i, got[i], c.want[i])
			}
		}
	}
}

func TestLexerStringValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{`"escaped \" quote"`, `escaped " quote`},
		{`'escaped \' quote'`, "escaped ' quote"},
	}

	for _, c := range cases {
		l := NewLexer(c.input)
		tok := l.Next()
		if tok.Type != TokenString {
			t.Fatalf("input %q: got token type %s, want string", c.input, tok.Type)
		}
		if tok.Value != c.want {
			t.Errorf("input %q: got value %q, want %q", c.input, tok.Value, c.want)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	cases := []string{
		`"unterminated`,
		`'unterminated`,
		"a # b",
		"a = b",
		"a ! b",
	}

	for _, input := range cases {
		l := NewLexer(input)
		for {
			tok := l.Next()
			if tok.Type == TokenEOF || tok.Type == TokenError {
				break
			}
		}
		if l.Error() == nil {
			t.Errorf("input %q: expected a lex error, got none", input)
		}
	}
}

func TestLexerNumberThenDot(t *testing.T) {
	// A trailing dot is not part of the number literal.
	l := NewLexer("1.")
	tok := l.Next()
	if tok.Type != TokenNumber || tok.Value != "1" {
		t.Fatalf("got %s %q, want number \"1\"", tok.Type, tok.Value)
	}
	tok = l.Next()
	if tok.Type != TokenDot {
		t.Fatalf("got %s, want '.'", tok.Type)
	}
}

func TestLexerNumberThenDotMultibyte(t *testing.T) {
	// The rune after a bare dot is un-read by position, not by rune
	// width: a multi-byte rune there used to rewind the cursor past the
	// token start and panic when slicing the token value.
	cases := []string{"3.€", "3.😀", "level + 3.€"}

	for _, input := range cases {
		l := NewLexer(input)
		var tokens []Token
		for {
			tok := l.Next()
			tokens = append(tokens, tok)
			if tok.Type == TokenEOF || tok.Type == TokenError {
				break
			}
		}
		if l.Error() == nil {
			t.Errorf("input %q: expected a lex error on the stray rune, got none", input)
			continue
		}
		last := tokens[len(tokens)-2] // token before the error
		if last.Type != TokenDot {
			t.Errorf("input %q: token before the error is %s, want '.'", input, last.Type)
		}
		if len(tokens) < 3 {
			t.Fatalf("input %q: got only %d tokens", input, len(tokens))
		}
		num := tokens[len(tokens)-3]
		if num.Type != TokenNumber || num.Value != "3" {
			t.Errorf("input %q: got %s %q before the dot, want number \"3\"", input, num.Type, num.Value)
		}
	}
}
