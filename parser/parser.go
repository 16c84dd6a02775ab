// Package parser implements the formula language used by computed form
// fields: a small expression grammar with arithmetic, comparison and
// boolean operators, dotted property paths, array subscripts and a fixed
// set of builtin functions.
//
// The parser is a hand-written recursive descent parser over a token
// stream produced by the Lexer. Operator precedence, lowest to highest:
//
//	or
//	and
//	== != < > <= >=
//	+ -
//	* / %
//	^            (left-associative)
//	- not        (unary)
//	expr[index]  (postfix subscript)
//	primary      (parens, literals, identifiers, function calls, paths)
//
// A parsed tree is immutable and may be evaluated any number of times.
package parser

import (
	"strconv"

	"github.com/NecroVR/VTT-sub010/ast"
)

// Parse parses a formula and returns its AST, or a *SyntaxError.
func Parse(formula string) (*ast.Node, error) {
	p := &parser{lex: NewLexer(formula)}
	p.next()

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != TokenEOF {
		if err := p.lex.Error(); err != nil {
			return nil, err
		}
		return nil, newSyntaxError(p.tok.Position, "unexpected %s after expression", p.describe(p.tok))
	}
	return node, nil
}

// Valid reports whether the formula parses, without building a reusable
// result. It exists for syntax checking in editors and CI.
func Valid(formula string) error {
	_, err := Parse(formula)
	return err
}

type parser struct {
	lex *Lexer
	tok Token // one-token lookahead
}

func (p *parser) next() {
	p.tok = p.lex.Next()
}

func (p *parser) describe(t Token) string {
	if t.Type == TokenEOF || t.Value == "" {
		return t.Type.String()
	}
	return "'" + t.Value + "'"
}

// expect consumes the current token if it has the given type, or fails.
func (p *parser) expect(tt TokenType, context string) (Token, error) {
	if p.tok.Type != tt {
		if err := p.lex.Error(); err != nil {
			return Token{}, err
		}
		return Token{}, newSyntaxError(p.tok.Position, "expected %s %s, found %s", tt, context, p.describe(p.tok))
	}
	t := p.tok
	p.next()
	return t, nil
}

func (p *parser) parseExpression() (*ast.Node, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (*ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenOr {
		pos := p.tok.Position
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: "or", LHS: left, RHS: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseAnd() (*ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenAnd {
		pos := p.tok.Position
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: "and", LHS: left, RHS: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseComparison() (*ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.tok.Type {
		case TokenEqual:
			op = "=="
		case TokenNotEqual:
			op = "!="
		case TokenLess:
			op = "<"
		case TokenLessEqual:
			op = "<="
		case TokenGreater:
			op = ">"
		case TokenGreaterEqual:
			op = ">="
		default:
			return left, nil
		}
		pos := p.tok.Position
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: op, LHS: left, RHS: right, Pos: pos}
	}
}

func (p *parser) parseAdditive() (*ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenPlus || p.tok.Type == TokenMinus {
		op := p.tok.Type.String()
		pos := p.tok.Position
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: op, LHS: left, RHS: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (*ast.Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenMult || p.tok.Type == TokenDiv || p.tok.Type == TokenMod {
		op := p.tok.Type.String()
		pos := p.tok.Position
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: op, LHS: left, RHS: right, Pos: pos}
	}
	return left, nil
}

// parsePower builds "^" chains left-associatively: 2^3^2 is (2^3)^2.
// This differs from the mathematical convention but matches the behavior
// computed fields have always had, so existing form definitions keep
// producing the same values.
func (p *parser) parsePower() (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenPower {
		pos := p.tok.Position
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Node{Kind: ast.Binary, Name: "^", LHS: left, RHS: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (*ast.Node, error) {
	switch p.tok.Type {
	case TokenMinus, TokenNot:
		op := p.tok.Type.String()
		pos := p.tok.Position
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.Unary, Name: op, RHS: operand, Pos: pos}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *parser) parsePostfix() (*ast.Node, error) {
	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == TokenBracketOpen {
		pos := p.tok.Position
		p.next()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenBracketClose, "to close array subscript"); err != nil {
			return nil, err
		}
		target = &ast.Node{Kind: ast.Index, LHS: target, RHS: index, Pos: pos}
	}
	return target, nil
}

func (p *parser) parsePrimary() (*ast.Node, error) {
	tok := p.tok

	switch tok.Type {
	case TokenNumber:
		p.next()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, newSyntaxError(tok.Position, "invalid number literal '%s'", tok.Value)
		}
		return &ast.Node{Kind: ast.Literal, Value: f, Pos: tok.Position}, nil

	case TokenString:
		p.next()
		return &ast.Node{Kind: ast.Literal, Value: tok.Value, Pos: tok.Position}, nil

	case TokenTrue:
		p.next()
		return &ast.Node{Kind: ast.Literal, Value: true, Pos: tok.Position}, nil

	case TokenFalse:
		p.next()
		return &ast.Node{Kind: ast.Literal, Value: false, Pos: tok.Position}, nil

	case TokenParenOpen:
		p.next()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenParenClose, "to close parenthesized expression"); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenIdent:
		p.next()
		if p.tok.Type == TokenParenOpen {
			return p.parseCall(tok)
		}
		return p.parsePath(tok)

	case TokenError:
		return nil, p.lex.Error()

	default:
		return nil, newSyntaxError(tok.Position, "unexpected %s", p.describe(tok))
	}
}

// parseCall parses the argument list of a function call. The function
// name token has been consumed and the current token is "(".
func (p *parser) parseCall(name Token) (*ast.Node, error) {
	p.next() // consume "("

	var args []*ast.Node
	if p.tok.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.tok.Type != TokenComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(TokenParenClose, "to close argument list of '"+name.Value+"'"); err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.Function, Name: name.Value, Args: args, Pos: name.Position}, nil
}

// parsePath parses a dotted property path. The first segment token has
// been consumed.
func (p *parser) parsePath(first Token) (*ast.Node, error) {
	path := []string{first.Value}
	for p.tok.Type == TokenDot {
		p.next()
		seg, err := p.expect(TokenIdent, "after '.'")
		if err != nil {
			return nil, err
		}
		path = append(path, seg.Value)
	}
	return &ast.Node{Kind: ast.Property, Path: path, Pos: first.Position}, nil
}
