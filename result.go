package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result of evaluating a computed field.
type Result struct {
	// The field that was evaluated.
	Field *ComputedField

	// The typed value the formula produced.
	Value Value

	// The property paths the formula reads.
	Dependencies []string

	// Whether the value was served from the cache.
	Cached bool

	// Evaluation failure, set by EvaluateAll; the single-field entry
	// points return the error instead.
	Err error

	// Diagnostic trace; only available if the engine was created with
	// the CollectDiagnostics option. A cache hit carries no trace: the
	// formula was not re-walked, so Diagnostics is nil even with the
	// option on.
	Diagnostics *Diagnostics
}

// EvaluateAll evaluates every field against the data and returns the
// results keyed by field ID. A field that fails to parse or evaluate
// gets a Result with Err set; the other fields are still evaluated, so
// a form can render fallback indicators per field instead of failing
// wholesale.
func (e *Engine) EvaluateAll(fields []*ComputedField, data map[string]interface{}) map[string]*Result {
	results := make(map[string]*Result, len(fields))
	for _, f := range fields {
		res, err := e.EvaluateField(f, data, false)
		if err != nil {
			res = &Result{Field: f, Value: NewValue(nil), Err: err}
		}
		results[f.ID] = res
	}
	return results
}

// FieldReport produces a table of evaluation results, one row per field,
// sorted by field ID.
func FieldReport(results map[string]*Result) string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := table.NewWriter()
	tw.SetTitle("\nCOMPUTED FIELD RESULTS\n")
	tw.AppendHeader(table.Row{"Field", "Value", "Type", "Cached", "Deps", "Error"})

	for _, id := range ids {
		r := results[id]
		errMsg := ""
		if r.Err != nil {
			errMsg = r.Err.Error()
		}
		tw.AppendRow(table.Row{
			id,
			fmt.Sprintf("%v", r.Value.Val),
			r.Value.Typ.String(),
			yesNo(r.Cached),
			strings.Join(r.Dependencies, ", "),
			errMsg,
		})
	}

	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
