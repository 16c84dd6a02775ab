package formula_test

import (
	"fmt"
	"testing"

	formula "github.com/NecroVR/VTT-sub010"
	"github.com/NecroVR/VTT-sub010/parser"
)

func benchData() map[string]interface{} {
	return map[string]interface{}{
		"strength":  14.0,
		"dexterity": 12.0,
		"level":     5.0,
		"inventory": []interface{}{
			map[string]interface{}{"weight": 3.5},
			map[string]interface{}{"weight": 1.0},
			map[string]interface{}{"weight": 12.0},
		},
	}
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := parser.Parse("floor((strength - 10) / 2) + inventory[0].weight * level")
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluateCached(b *testing.B) {
	e := formula.NewEngine()
	f := formula.NewComputedField("carry", "strength * 15 + floor(level / 2)")
	data := benchData()
	if _, err := e.Evaluate(f, data, false); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Evaluate(f, data, false); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEvaluateUncached(b *testing.B) {
	e := formula.NewEngine()
	f := formula.NewComputedField("carry", "strength * 15 + floor(level / 2)")
	data := benchData()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Evaluate(f, data, true); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInvalidateDependents(b *testing.B) {
	e := formula.NewEngine()
	data := benchData()
	fields := make([]*formula.ComputedField, 0, 100)
	for i := 0; i < 100; i++ {
		f := formula.NewComputedField(
			fmt.Sprintf("field_%d", i),
			"strength + dexterity * level",
		)
		fields = append(fields, f)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		for _, f := range fields {
			if _, err := e.Evaluate(f, data, true); err != nil {
				b.Fatal(err)
			}
		}
		b.StartTimer()
		e.InvalidateDependents("dexterity")
	}
}
