package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals and names
	TokenNumber // 123, 3.14
	TokenString // "hello" or 'hello'
	TokenIdent  // strength, inventory

	// Grouping
	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]

	// Separators
	TokenDot   // .
	TokenComma // ,

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /
	TokenMod   // %
	TokenPower // ^

	// Comparison operators
	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Keywords
	TokenAnd   // and
	TokenOr    // or
	TokenNot   // not
	TokenTrue  // true
	TokenFalse // false
)

// Token is a single lexical token with its position in the input.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// String returns a human-readable representation of the token type,
// used in syntax error messages.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "end of formula"
	case TokenError:
		return "(error)"
	case TokenNumber:
		return "(number)"
	case TokenString:
		return "(string)"
	case TokenIdent:
		return "(identifier)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenMod:
		return "%"
	case TokenPower:
		return "^"
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenNot:
		return "not"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	default:
		return "(unknown)"
	}
}

// lookupKeyword maps a scanned identifier to its keyword token type if it
// is one. The lexer only calls this with a complete identifier, so a
// keyword followed by an identifier character (e.g. "andy") never matches.
func lookupKeyword(word string) TokenType {
	switch word {
	case "and":
		return TokenAnd
	case "or":
		return TokenOr
	case "not":
		return TokenNot
	case "true":
		return TokenTrue
	case "false":
		return TokenFalse
	default:
		return 0
	}
}

// lookupSymbol1 maps a single-character symbol to its token type.
// Returns 0 if the character does not start a symbol on its own.
func lookupSymbol1(ch rune) TokenType {
	switch ch {
	case '(':
		return TokenParenOpen
	case ')':
		return TokenParenClose
	case '[':
		return TokenBracketOpen
	case ']':
		return TokenBracketClose
	case '.':
		return TokenDot
	case ',':
		return TokenComma
	case '+':
		return TokenPlus
	case '-':
		return TokenMinus
	case '*':
		return TokenMult
	case '/':
		return TokenDiv
	case '%':
		return TokenMod
	case '^':
		return TokenPower
	default:
		return 0
	}
}
