package formula_test

import (
	"fmt"

	formula "github.com/NecroVR/VTT-sub010"
)

// Example showing basic use of the formula engine for a computed
// character-sheet field.
func Example() {

	// Step 1: Create an engine
	engine := formula.NewEngine()

	// Step 2: Define a computed field
	field := formula.ComputedField{
		ID:         "strength_modifier",
		Label:      "Strength Modifier",
		Formula:    "floor((attributes.strength - 10) / 2)",
		OutputType: formula.Number{},
	}

	// The entity state we evaluate against
	data := map[string]interface{}{
		"attributes": map[string]interface{}{
			"strength": 15.0,
		},
	}

	// Step 3: Evaluate and check the result
	value, err := engine.Evaluate(&field, data, false)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(value)
	// Output: 2
}

// Example showing caller-driven cache invalidation: the cached value is
// served until a changed property path invalidates it.
func Example_invalidation() {
	engine := formula.NewEngine()
	field := formula.NewComputedField("total_weight", "sum(inventory_weights)")

	data := map[string]interface{}{
		"inventory_weights": []interface{}{3.0, 6.0},
	}

	v, _ := engine.Evaluate(field, data, false)
	fmt.Println(v)

	// The entity changed; the engine still serves the memoized value.
	data["inventory_weights"] = []interface{}{3.0, 6.0, 1.5}
	v, _ = engine.Evaluate(field, data, false)
	fmt.Println(v)

	// Telling the engine which path changed drops the stale entry.
	engine.InvalidateDependents("inventory_weights")
	v, _ = engine.Evaluate(field, data, false)
	fmt.Println(v)

	// Output:
	// 9
	// 9
	// 10.5
}

// Example showing formula validation for a form editor: syntax problems
// are reported as a result, not an error.
func Example_validation() {
	engine := formula.NewEngine()

	fmt.Println(engine.ValidateFormula("strength + dexterity").Valid)
	fmt.Println(engine.ValidateFormula("strength +").Valid)
	// Output:
	// true
	// false
}
