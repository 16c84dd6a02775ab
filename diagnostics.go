package formula

import (
	"fmt"
	"sort"
	"strings"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"

	"github.com/NecroVR/VTT-sub010/eval"
)

// Diagnostics is the node-by-node trace of one formula evaluation,
// available when the engine is created with the CollectDiagnostics
// option.
type Diagnostics struct {
	FieldID string
	Formula string
	Steps   []eval.Diagnostic
}

func newDiagnostics(f *ComputedField, steps []eval.Diagnostic) *Diagnostics {
	return &Diagnostics{
		FieldID: f.ID,
		Formula: f.Formula,
		Steps:   steps,
	}
}

// AsString renders a boxed diagnostic report for the evaluation,
// including the input data if provided.
func (d *Diagnostics) AsString(data map[string]interface{}) string {
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})

	s := strings.Builder{}
	s.WriteString("Field:\n")
	s.WriteString("------\n")
	s.WriteString(d.FieldID)
	s.WriteString("\n\n")
	s.WriteString("Formula:\n")
	s.WriteString("--------\n")
	s.WriteString(wordWrap(d.Formula, 100))
	s.WriteString("\n\n")

	s.WriteString("Evaluation Steps:\n")
	s.WriteString("-----------------\n")
	s.WriteString(d.stepTable().String())

	if data != nil {
		s.WriteString("\n\n")
		s.WriteString("Input Data:\n")
		s.WriteString("-----------\n")
		s.WriteString(dataTable(data).String())
	}
	return Box.String("FORMULA EVALUATION DIAGNOSTIC REPORT", s.String())
}

func (d *Diagnostics) stepTable() *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Pos"},
			{Align: simpletable.AlignCenter, Text: "Expression"},
			{Align: simpletable.AlignCenter, Text: "Kind"},
			{Align: simpletable.AlignCenter, Text: "Type"},
			{Align: simpletable.AlignCenter, Text: "Value"},
		},
	}

	steps := append([]eval.Diagnostic(nil), d.Steps...)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Pos < steps[j].Pos
	})

	for _, st := range steps {
		r := []*simpletable.Cell{
			{Align: simpletable.AlignRight, Text: fmt.Sprintf("%d", st.Pos)},
			{Text: st.Expr},
			{Text: string(st.Kind)},
			{Text: TypeOf(st.Value).String()},
			{Text: fmt.Sprintf("%v", st.Value)},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func dataTable(data map[string]interface{}) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Name"},
			{Align: simpletable.AlignCenter, Text: "Value"},
		},
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		r := []*simpletable.Cell{
			{Text: k},
			{Text: fmt.Sprintf("%v", data[k])},
		}
		table.Body.Cells = append(table.Body.Cells, r)
	}

	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func wordWrap(text string, lineWidth int) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return text
	}
	wrapped := words[0]
	spaceLeft := lineWidth - len(wrapped)
	for _, word := range words[1:] {
		if len(word)+1 > spaceLeft {
			wrapped += "\n" + word
			spaceLeft = lineWidth - len(word)
		} else {
			wrapped += " " + word
			spaceLeft -= 1 + len(word)
		}
	}

	return wrapped
}
