// Package formula provides the evaluation engine for computed form
// fields in the virtual tabletop client: a parser for the formula
// language, a tree-walking evaluator, a dependency tracker, and a
// per-field result cache with path-based invalidation.
//
// Typical use is as follows:
//
//  1. Create an engine
//  2. Define computed fields (id, label, formula text, output type)
//  3. Evaluate fields against an entity's flattened property state
//  4. When the entity changes, invalidate by field ID or by changed
//     property path, and re-evaluate
//
// # Formulas
//
// A formula is a single expression over the evaluation context:
//
//	floor(attributes.strength / 2) + level
//	if(level >= 5, proficiency * 2, proficiency)
//	sum(inventory_weights) <= carry_capacity
//
// Supported operators, lowest to highest precedence: or, and, the
// comparisons == != < > <= >=, + -, * / %, ^ (left-associative), unary
// - and not, and postfix array subscripts. The builtin functions are
// floor, ceil, round, abs, sqrt, min, max, sum, count and if. There are
// no user-defined functions, loops or assignments.
//
// # Caching and invalidation
//
// The engine memoizes one result per field ID. A cached value is served
// unconditionally until the caller invalidates it: the engine tracks
// which property paths a formula reads, but it never compares old and
// new data content. When a property changes, call InvalidateDependents
// with the changed path; every field whose dependency set matches it
// (exactly, by path prefix, or through "*" wildcard segments) loses its
// cache entry and is re-evaluated on next access.
//
// # Concurrency
//
// A single Engine may be shared: its maps are mutex-guarded. Each
// evaluation is synchronous and runs to completion on the caller's
// goroutine, bounded by a cooperative wall-clock deadline (1s unless
// changed with WithTimeout). For hot-reloadable field definitions,
// FieldVault swaps immutable snapshots atomically so readers are never
// blocked by the Form Designer editing a form.
package formula
