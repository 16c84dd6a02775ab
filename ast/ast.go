// Package ast defines the abstract syntax tree produced by the formula
// parser and consumed by the evaluator and the dependency tracker.
//
// A formula is parsed into a tree of Node values. Nodes are immutable once
// constructed: the parser is the only writer, and a parsed tree is reused
// for every subsequent evaluation of the same formula text.
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the type of an AST node.
type Kind string

const (
	// Literal is a number, string or boolean constant.
	// The constant is stored in Node.Value.
	Literal Kind = "literal"

	// Property is a dotted property path (e.g. "attributes.strength").
	// The path segments are stored in Node.Path.
	Property Kind = "property"

	// Binary is a binary operator. The operator symbol is stored in
	// Node.Name, the operands in Node.LHS and Node.RHS.
	Binary Kind = "binary"

	// Unary is a unary operator ("-" or "not"). The operator is stored
	// in Node.Name, the operand in Node.RHS.
	Unary Kind = "unary"

	// Function is a builtin function call. The function name is stored
	// in Node.Name, the argument expressions in Node.Args.
	Function Kind = "function"

	// Index is a postfix array subscript (expr[index]). The array
	// expression is Node.LHS, the index expression Node.RHS.
	Index Kind = "index"

	// Conditional is a value-level ternary. The grammar does not
	// currently produce it, but the evaluator supports it: Node.Args
	// holds condition, then-branch and else-branch in order.
	Conditional Kind = "conditional"
)

// Node is a single node in a parsed formula.
//
// Node is a tagged union: Kind determines which of the remaining fields
// are meaningful. See the Kind constants for the field mapping.
type Node struct {
	Kind Kind

	// Byte offset of the node in the original formula text.
	Pos int

	// Literal value (float64, string or bool).
	Value interface{}

	// Operator symbol or function name.
	Name string

	// Property path segments.
	Path []string

	// Operands for Binary and Index; RHS alone for Unary.
	LHS *Node
	RHS *Node

	// Function arguments, or condition/then/else for Conditional.
	Args []*Node
}

// String reconstructs a source-like representation of the node. It is
// used in error messages and diagnostics output; it is not guaranteed to
// round-trip through the parser (parentheses are inserted liberally).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case Literal:
		switch v := n.Value.(type) {
		case string:
			return strconv.Quote(v)
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return fmt.Sprintf("%v", v)
		}
	case Property:
		return strings.Join(n.Path, ".")
	case Binary:
		return fmt.Sprintf("(%s %s %s)", n.LHS, n.Name, n.RHS)
	case Unary:
		if n.Name == "not" {
			return fmt.Sprintf("(not %s)", n.RHS)
		}
		return fmt.Sprintf("(%s%s)", n.Name, n.RHS)
	case Function:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
	case Index:
		return fmt.Sprintf("%s[%s]", n.LHS, n.RHS)
	case Conditional:
		if len(n.Args) == 3 {
			return fmt.Sprintf("(%s ? %s : %s)", n.Args[0], n.Args[1], n.Args[2])
		}
		return "(conditional)"
	default:
		return fmt.Sprintf("<%s>", n.Kind)
	}
}
