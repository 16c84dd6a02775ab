package ast

import (
	"sort"
	"strconv"
	"strings"
)

// Dependencies walks the tree and returns the distinct dotted property
// paths the expression reads. The result is sorted; callers treat it as a
// set and must not rely on order. Duplicate references collapse to one
// entry.
//
// A subscript over a property path contributes a path with the index as an
// extra segment when the index is a numeric literal ("inventory.0"), and a
// "*" wildcard segment when the index is computed at evaluation time
// ("inventory.*"). The index expression itself is also walked, since it
// may read further properties.
func Dependencies(n *Node) []string {
	seen := map[string]bool{}
	collect(n, seen)

	deps := make([]string, 0, len(seen))
	for d := range seen {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}

func collect(n *Node, seen map[string]bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Literal:
		// no dependencies
	case Property:
		seen[strings.Join(n.Path, ".")] = true
	case Binary:
		collect(n.LHS, seen)
		collect(n.RHS, seen)
	case Unary:
		collect(n.RHS, seen)
	case Function, Conditional:
		for _, a := range n.Args {
			collect(a, seen)
		}
	case Index:
		if p := indexedPath(n); p != "" {
			seen[p] = true
		} else {
			collect(n.LHS, seen)
		}
		collect(n.RHS, seen)
	}
}

// indexedPath returns the dependency path for a subscript whose target is
// a plain property path, or "" when the target is itself an expression.
func indexedPath(n *Node) string {
	if n.LHS == nil || n.LHS.Kind != Property {
		return ""
	}
	base := strings.Join(n.LHS.Path, ".")
	if n.RHS != nil && n.RHS.Kind == Literal {
		if f, ok := n.RHS.Value.(float64); ok {
			return base + "." + strconv.Itoa(int(f))
		}
	}
	return base + ".*"
}
