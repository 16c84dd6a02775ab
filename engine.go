package formula

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	pkgerrors "github.com/pkg/errors"

	"github.com/NecroVR/VTT-sub010/ast"
	"github.com/NecroVR/VTT-sub010/eval"
	"github.com/NecroVR/VTT-sub010/parser"
)

// Engine ties parsing, evaluation and dependency tracking together with
// per-field memoization.
//
// The engine owns two maps: parsed formulas keyed by field ID, and
// cached evaluation results keyed by field ID. Both are guarded by a
// mutex so one engine instance can be shared by concurrent evaluation
// requests.
type Engine struct {

	// Parsed formulas, keyed by field ID. A formula is parsed at most
	// once and reused until the caller re-parses it; the engine never
	// compares formula text.
	programs map[string]*ast.Node

	// Memoized evaluation results, keyed by field ID.
	cache map[string]*cachedResult

	// Mutex for both maps.
	mu sync.RWMutex

	// Options used by the engine during evaluation.
	opts EngineOptions
}

var ErrFieldNotFound = errors.New("computed field not found")

// cachedResult is one memoized evaluation. It is created on first
// evaluation of a field and replaced wholesale on re-evaluation; it is
// removed only by the explicit invalidation calls.
type cachedResult struct {
	value        interface{}
	dependencies []string
	timestamp    time.Time
}

// NewEngine initializes a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	engine := Engine{
		programs: make(map[string]*ast.Node),
		cache:    make(map[string]*cachedResult),
		opts: EngineOptions{
			Timeout: eval.DefaultTimeout,
		},
	}
	applyEngineOptions(&engine.opts, opts...)
	return &engine
}

// See the functional definitions below for the meaning.
type EngineOptions struct {
	Timeout            time.Duration
	CollectDiagnostics bool
}

type EngineOption func(o *EngineOptions)

// Given an array of EngineOption functions, apply their effect
// on the EngineOptions struct.
func applyEngineOptions(o *EngineOptions, opts ...EngineOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithTimeout sets the wall-clock budget for a single evaluation.
// Default: 1s.
func WithTimeout(d time.Duration) EngineOption {
	return func(o *EngineOptions) {
		o.Timeout = d
	}
}

// CollectDiagnostics makes every evaluation record a node-by-node trace,
// returned on the Result. Evaluation is slower with this option on.
// Default: off.
func CollectDiagnostics(b bool) EngineOption {
	return func(o *EngineOptions) {
		o.CollectDiagnostics = b
	}
}

// ParseFormula parses the formula text and stores the resulting AST
// under the field ID, replacing any previously stored AST. A syntax
// error is returned wrapped with the field ID.
func (e *Engine) ParseFormula(fieldID string, formulaText string) error {
	node, err := parser.Parse(formulaText)
	if err != nil {
		return pkgerrors.Wrapf(err, "parsing formula for field %s", fieldID)
	}

	e.mu.Lock()
	e.programs[fieldID] = node
	e.mu.Unlock()
	return nil
}

// Evaluate produces the field's value against the data.
//
// If a cached result exists for the field and skipCache is false, the
// cached value is returned unconditionally; cached results are only
// removed by Invalidate, InvalidateDependents or ClearCache, never by
// comparing data content. Otherwise the formula is parsed if needed,
// evaluated, and the result stored together with its dependency set.
func (e *Engine) Evaluate(f *ComputedField, data map[string]interface{}, skipCache bool) (interface{}, error) {
	res, err := e.evaluate(f, data, skipCache, false)
	if err != nil {
		return nil, err
	}
	return res.Value.Val, nil
}

// EvaluateField is Evaluate with the full result: the typed value, the
// dependency set, whether the value came from the cache, and the
// diagnostics trace when the engine collects diagnostics.
func (e *Engine) EvaluateField(f *ComputedField, data map[string]interface{}, skipCache bool) (*Result, error) {
	return e.evaluate(f, data, skipCache, e.opts.CollectDiagnostics)
}

func (e *Engine) evaluate(f *ComputedField, data map[string]interface{}, skipCache bool, diag bool) (*Result, error) {
	if err := validateField(f); err != nil {
		return nil, err
	}

	e.mu.RLock()
	cached, hasCached := e.cache[f.ID]
	prog := e.programs[f.ID]
	e.mu.RUnlock()

	if hasCached && !skipCache && e.isCacheValid(cached) {
		return &Result{
			Field:        f,
			Value:        NewValue(cached.value),
			Dependencies: append([]string(nil), cached.dependencies...),
			Cached:       true,
		}, nil
	}

	if prog == nil {
		if err := e.ParseFormula(f.ID, f.Formula); err != nil {
			return nil, err
		}
		e.mu.RLock()
		prog = e.programs[f.ID]
		e.mu.RUnlock()
	}

	ev := eval.New(
		eval.WithTimeout(e.opts.Timeout),
		eval.CollectDiagnostics(diag),
	)
	value, err := ev.Evaluate(prog, data)
	if err != nil {
		return nil, err
	}

	deps := ast.Dependencies(prog)

	e.mu.Lock()
	e.cache[f.ID] = &cachedResult{
		value:        value,
		dependencies: deps,
		timestamp:    time.Now(),
	}
	e.mu.Unlock()

	res := &Result{
		Field:        f,
		Value:        NewValue(value),
		Dependencies: deps,
	}
	if diag {
		res.Diagnostics = newDiagnostics(f, ev.Diagnostics())
	}
	return res, nil
}

// isCacheValid reports whether a cached result may still be served.
// It always reports valid: invalidation is caller-driven only, the
// engine never compares old and new data content.
func (e *Engine) isCacheValid(c *cachedResult) bool {
	return true
}

// Invalidate deletes the cached result for one field. The parsed
// formula is kept.
func (e *Engine) Invalidate(fieldID string) {
	e.mu.Lock()
	delete(e.cache, fieldID)
	e.mu.Unlock()
}

// InvalidateDependents deletes every cached result whose dependency set
// matches the changed path, by exact match, ancestor/descendant prefix
// match, or wildcard match ("*" dependency segments match any single
// path segment).
func (e *Engine) InvalidateDependents(changedPath string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, entry := range e.cache {
		for _, dep := range entry.dependencies {
			if dependencyMatches(dep, changedPath) {
				delete(e.cache, id)
				break
			}
		}
	}
}

// ClearCache drops all cached results. Parsed formulas are kept.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	e.cache = make(map[string]*cachedResult)
	e.mu.Unlock()
}

// Remove drops the parsed formula and any cached result for the field.
func (e *Engine) Remove(fieldID string) {
	e.mu.Lock()
	delete(e.programs, fieldID)
	delete(e.cache, fieldID)
	e.mu.Unlock()
}

// Dependencies returns the property paths the field's formula reads:
// the cached set if present, otherwise freshly computed from the parsed
// formula. A field that has never been parsed has no dependencies.
func (e *Engine) Dependencies(fieldID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if entry, ok := e.cache[fieldID]; ok {
		return append([]string(nil), entry.dependencies...)
	}
	if prog, ok := e.programs[fieldID]; ok {
		return ast.Dependencies(prog)
	}
	return []string{}
}

// ValidationResult is the outcome of a syntax-only check.
type ValidationResult struct {
	Valid bool
	Error string
}

// ValidateFormula parses the formula without evaluating or storing it.
// The parse error, if any, is converted to a result rather than
// returned.
func (e *Engine) ValidateFormula(formulaText string) ValidationResult {
	if err := parser.Valid(formulaText); err != nil {
		return ValidationResult{Valid: false, Error: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// FieldCount is the number of fields with a parsed formula.
func (e *Engine) FieldCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.programs)
}

// CacheReport renders the current cache contents as a table: one row per
// cached field with its value, dependency count and entry age. Intended
// for the Form Designer's debug panel.
func (e *Engine) CacheReport() string {
	e.mu.RLock()
	ids := make([]string, 0, len(e.cache))
	for id := range e.cache {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := table.NewWriter()
	tw.SetTitle("\nFORMULA CACHE\n")
	tw.AppendHeader(table.Row{"Field", "Value", "Type", "Deps", "Age"})
	for _, id := range ids {
		entry := e.cache[id]
		tw.AppendRow(table.Row{
			id,
			fmt.Sprintf("%v", entry.value),
			TypeOf(entry.value).String(),
			fmt.Sprintf("%d", len(entry.dependencies)),
			humanize.Time(entry.timestamp),
		})
	}
	e.mu.RUnlock()

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
