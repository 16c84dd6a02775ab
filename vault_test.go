package formula_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	formula "github.com/NecroVR/VTT-sub010"
)

func testFields() []*formula.ComputedField {
	return []*formula.ComputedField{
		formula.NewComputedField("modifier", "floor((strength - 10) / 2)"),
		formula.NewComputedField("carry", "strength * 15"),
	}
}

func TestVaultInitialSet(t *testing.T) {
	is := is.New(t)

	v, err := formula.NewFieldVault(formula.NewEngine(), testFields())
	is.NoErr(err)
	is.Equal(v.FieldCount(), 2)

	f, ok := v.Field("carry")
	is.True(ok)
	is.Equal(f.Formula, "strength * 15")

	_, ok = v.Field("nope")
	is.True(!ok)
}

func TestVaultRejectsBadInitialFormula(t *testing.T) {
	is := is.New(t)

	_, err := formula.NewFieldVault(formula.NewEngine(), []*formula.ComputedField{
		formula.NewComputedField("broken", "strength +"),
	})
	is.True(err != nil)
}

func TestVaultApplyMutations(t *testing.T) {
	is := is.New(t)

	engine := formula.NewEngine()
	v, err := formula.NewFieldVault(engine, testFields())
	is.NoErr(err)

	err = v.ApplyMutations([]formula.FieldMutation{
		{ID: "initiative", Field: formula.NewComputedField("initiative", "floor((dexterity - 10) / 2)")},
		{ID: "carry", Field: formula.NewComputedField("carry", "strength * 10")},
		{ID: "modifier"}, // delete
	})
	is.NoErr(err)

	is.Equal(v.FieldCount(), 2)
	_, ok := v.Field("modifier")
	is.True(!ok)
	f, ok := v.Field("carry")
	is.True(ok)
	is.Equal(f.Formula, "strength * 10")
}

func TestVaultBatchAbortsOnBadFormula(t *testing.T) {
	is := is.New(t)

	v, err := formula.NewFieldVault(formula.NewEngine(), testFields())
	is.NoErr(err)

	err = v.ApplyMutations([]formula.FieldMutation{
		{ID: "ok_field", Field: formula.NewComputedField("ok_field", "1 + 1")},
		{ID: "bad_field", Field: formula.NewComputedField("bad_field", "1 +")},
	})
	is.True(err != nil)

	// Nothing from the batch was applied.
	is.Equal(v.FieldCount(), 2)
	_, ok := v.Field("ok_field")
	is.True(!ok)
}

func TestVaultDeleteMissingField(t *testing.T) {
	is := is.New(t)

	v, err := formula.NewFieldVault(formula.NewEngine(), testFields())
	is.NoErr(err)

	err = v.ApplyMutations([]formula.FieldMutation{{ID: "ghost"}})
	is.True(errors.Is(err, formula.ErrFieldNotFound))
}

func TestVaultUpdateDropsStaleCache(t *testing.T) {
	is := is.New(t)

	engine := formula.NewEngine()
	v, err := formula.NewFieldVault(engine, testFields())
	is.NoErr(err)

	data := map[string]interface{}{"strength": 14.0, "dexterity": 12.0}
	results := v.EvaluateAll(data)
	is.Equal(results["carry"].Value.Val, 210.0)

	err = v.ApplyMutations([]formula.FieldMutation{
		{ID: "carry", Field: formula.NewComputedField("carry", "strength * 10")},
	})
	is.NoErr(err)

	results = v.EvaluateAll(data)
	is.Equal(results["carry"].Value.Val, 140.0)
}

func TestVaultSnapshotSorted(t *testing.T) {
	is := is.New(t)

	v, err := formula.NewFieldVault(formula.NewEngine(), testFields())
	is.NoErr(err)

	snap := v.Snapshot()
	is.Equal(len(snap), 2)
	is.Equal(snap[0].ID, "carry")
	is.Equal(snap[1].ID, "modifier")
}
