// Package eval implements the tree-walking evaluator for parsed formulas.
//
// An Evaluator is created per evaluation call: its wall-clock deadline is
// measured from construction, and every node visit checks it. The check
// is cooperative; it bounds recursive tree-walking, it does not preempt a
// single long native operation.
//
// Runtime values are the plain Go representations of the formula type
// system: float64, string, bool, []interface{}, map[string]interface{}
// and nil for undefined. The evaluation context is a read-only nested
// mapping from names to such values.
package eval

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/NecroVR/VTT-sub010/ast"
)

// Errors returned during evaluation. Callers test with errors.Is; the
// returned error usually wraps one of these with the offending construct.
var (
	ErrTimeout        = errors.New("formula evaluation timed out")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotAnArray     = errors.New("value is not an array")
	ErrUnknownFunc    = errors.New("unknown function")
)

// DefaultTimeout bounds a single evaluation unless overridden with
// WithTimeout.
const DefaultTimeout = 1000 * time.Millisecond

// Diagnostic records one node visit when diagnostics collection is on.
type Diagnostic struct {
	Pos   int
	Kind  ast.Kind
	Expr  string
	Value interface{}
}

// Evaluator walks a parsed formula against an evaluation context.
//
// An Evaluator is intended for a single Evaluate call; the deadline runs
// from construction. It is not safe for concurrent use.
type Evaluator struct {
	deadline    time.Time
	collectDiag bool
	diag        []Diagnostic
}

// Option configures an Evaluator.
type Option func(e *Evaluator)

// WithTimeout sets the wall-clock budget for the evaluation, replacing
// DefaultTimeout. A zero or negative budget makes every evaluation fail
// with ErrTimeout on its first node visit.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		e.deadline = time.Now().Add(d)
	}
}

// CollectDiagnostics records every node visit and its produced value,
// retrievable with Diagnostics after the evaluation.
func CollectDiagnostics(b bool) Option {
	return func(e *Evaluator) {
		e.collectDiag = b
	}
}

// New creates an Evaluator. The evaluation deadline starts now.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		deadline: time.Now().Add(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate walks the tree and produces the formula's value: a float64,
// string, bool, []interface{} or nil (undefined).
func (e *Evaluator) Evaluate(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	return e.evalNode(node, data)
}

// Diagnostics returns the node visits recorded during the last Evaluate
// call, in visit order. Empty unless CollectDiagnostics was set.
func (e *Evaluator) Diagnostics() []Diagnostic {
	return e.diag
}

func (e *Evaluator) evalNode(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	if !time.Now().Before(e.deadline) {
		return nil, ErrTimeout
	}
	if node == nil {
		return nil, nil
	}

	v, err := e.dispatch(node, data)
	if err != nil {
		return nil, err
	}
	if e.collectDiag {
		e.diag = append(e.diag, Diagnostic{
			Pos:   node.Pos,
			Kind:  node.Kind,
			Expr:  node.String(),
			Value: v,
		})
	}
	return v, nil
}

func (e *Evaluator) dispatch(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	switch node.Kind {
	case ast.Literal:
		return node.Value, nil
	case ast.Property:
		return walkPath(data, node.Path), nil
	case ast.Binary:
		return e.evalBinary(node, data)
	case ast.Unary:
		return e.evalUnary(node, data)
	case ast.Function:
		return e.evalFunction(node, data)
	case ast.Index:
		return e.evalIndex(node, data)
	case ast.Conditional:
		return e.evalConditional(node, data)
	default:
		return nil, fmt.Errorf("unknown AST node kind %q", node.Kind)
	}
}

// walkPath resolves a dotted property path through nested mappings.
// It returns nil (undefined) the moment any intermediate value is missing
// or is not a mapping; property access never fails.
func walkPath(data map[string]interface{}, path []string) interface{} {
	var current interface{} = data
	for _, seg := range path {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[seg]
		if !ok || current == nil {
			return nil
		}
	}
	return current
}

func (e *Evaluator) evalBinary(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	left, err := e.evalNode(node.LHS, data)
	if err != nil {
		return nil, err
	}
	right, err := e.evalNode(node.RHS, data)
	if err != nil {
		return nil, err
	}

	switch node.Name {
	case "+":
		return toNumber(left) + toNumber(right), nil
	case "-":
		return toNumber(left) - toNumber(right), nil
	case "*":
		return toNumber(left) * toNumber(right), nil
	case "/":
		divisor := toNumber(right)
		if divisor == 0 {
			return nil, fmt.Errorf("%w in %s", ErrDivisionByZero, node)
		}
		return toNumber(left) / divisor, nil
	case "%":
		// Unlike /, a zero divisor is not an error here: x % 0 is NaN,
		// which math.Mod already produces.
		return math.Mod(toNumber(left), toNumber(right)), nil
	case "^":
		return math.Pow(toNumber(left), toNumber(right)), nil
	case "==":
		return strictEqual(left, right), nil
	case "!=":
		return !strictEqual(left, right), nil
	case "<":
		return toNumber(left) < toNumber(right), nil
	case "<=":
		return toNumber(left) <= toNumber(right), nil
	case ">":
		return toNumber(left) > toNumber(right), nil
	case ">=":
		return toNumber(left) >= toNumber(right), nil
	case "and":
		// Both operands are evaluated before combining; the formula
		// language has no short-circuit boolean operators.
		return truthy(left) && truthy(right), nil
	case "or":
		return truthy(left) || truthy(right), nil
	default:
		return nil, fmt.Errorf("unknown binary operator %q", node.Name)
	}
}

func (e *Evaluator) evalUnary(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	operand, err := e.evalNode(node.RHS, data)
	if err != nil {
		return nil, err
	}
	switch node.Name {
	case "-":
		return -toNumber(operand), nil
	case "not":
		return !truthy(operand), nil
	default:
		return nil, fmt.Errorf("unknown unary operator %q", node.Name)
	}
}

func (e *Evaluator) evalFunction(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	fn, ok := builtins[node.Name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFunc, node.Name)
	}

	args := make([]interface{}, len(node.Args))
	for i, a := range node.Args {
		v, err := e.evalNode(a, data)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(node.Name, args)
}

func (e *Evaluator) evalIndex(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	target, err := e.evalNode(node.LHS, data)
	if err != nil {
		return nil, err
	}
	index, err := e.evalNode(node.RHS, data)
	if err != nil {
		return nil, err
	}

	arr, ok := asArray(target)
	if !ok {
		return nil, fmt.Errorf("%w: cannot index %s", ErrNotAnArray, node.LHS)
	}
	i := int(toNumber(index))
	if i < 0 || i >= len(arr) {
		return nil, nil
	}
	return arr[i], nil
}

// evalConditional is the one short-circuiting point in evaluation:
// exactly one branch is walked.
func (e *Evaluator) evalConditional(node *ast.Node, data map[string]interface{}) (interface{}, error) {
	if len(node.Args) != 3 {
		return nil, fmt.Errorf("conditional node requires 3 operands, has %d", len(node.Args))
	}
	cond, err := e.evalNode(node.Args[0], data)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return e.evalNode(node.Args[1], data)
	}
	return e.evalNode(node.Args[2], data)
}
