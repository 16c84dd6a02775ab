package formula_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	formula "github.com/NecroVR/VTT-sub010"
)

// Form definitions live in the game database; this shows loading the
// computed-field rows for a form and standing up a vault from them.
func TestLoadFieldsFromDatabase(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		create table computed_field (
			form_id text not null,
			id      text not null,
			label   text not null,
			formula text not null
		);
		insert into computed_field values
			('character_sheet', 'strength_modifier', 'STR Mod', 'floor((attributes.strength - 10) / 2)'),
			('character_sheet', 'carry_capacity',    'Carry',   'attributes.strength * 15'),
			('character_sheet', 'encumbered',        'Enc.',    'sum(inventory_weights) > carry_capacity');
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields, err := loadFields(db, "character_sheet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(fields))
	}

	engine := formula.NewEngine()
	vault, err := formula.NewFieldVault(engine, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := map[string]interface{}{
		"attributes":        map[string]interface{}{"strength": 14.0},
		"inventory_weights": []interface{}{30.0, 45.0},
		"carry_capacity":    210.0,
	}
	results := vault.EvaluateAll(data)

	if v := results["strength_modifier"].Value.Val; v != 2.0 {
		t.Fatalf("strength_modifier = %v, want 2", v)
	}
	if v := results["carry_capacity"].Value.Val; v != 210.0 {
		t.Fatalf("carry_capacity = %v, want 210", v)
	}
	if v := results["encumbered"].Value.Val; v != false {
		t.Fatalf("encumbered = %v, want false", v)
	}
}

func loadFields(db *sql.DB, formID string) ([]*formula.ComputedField, error) {
	rows, err := db.Query(
		"select id, label, formula from computed_field where form_id = ? order by id",
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []*formula.ComputedField
	for rows.Next() {
		f := formula.ComputedField{}
		if err := rows.Scan(&f.ID, &f.Label, &f.Formula); err != nil {
			return nil, err
		}
		fields = append(fields, &f)
	}
	return fields, rows.Err()
}
