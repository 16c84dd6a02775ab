package formula

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/NecroVR/VTT-sub010/parser"
)

// FieldVault provides lock-free, hot-reloadable management of a form's
// computed-field definitions. The Form Designer swaps in edited or
// reloaded definitions without blocking in-flight evaluations: readers
// always see a complete, immutable snapshot.
type FieldVault struct {
	current atomic.Pointer[fieldSet]
	engine  *Engine
}

// fieldSet is an immutable snapshot of the field definitions. A new set
// is built for every applied mutation batch.
type fieldSet struct {
	fields map[string]*ComputedField
}

// FieldMutation defines a single change to the field set.
type FieldMutation struct {
	// Required; unique ID of the field being changed or added.
	ID string

	// Field is the new definition that will replace an existing field
	// or be added. If Field is nil, the field with ID is deleted.
	Field *ComputedField
}

// NewFieldVault creates a vault with an optional initial set of field
// definitions. Every initial formula is parsed up front; a syntax error
// fails construction.
func NewFieldVault(engine *Engine, initial []*ComputedField) (*FieldVault, error) {
	v := &FieldVault{engine: engine}

	set := &fieldSet{fields: make(map[string]*ComputedField, len(initial))}
	for _, f := range initial {
		if err := validateField(f); err != nil {
			return nil, err
		}
		if err := engine.ParseFormula(f.ID, f.Formula); err != nil {
			return nil, err
		}
		set.fields[f.ID] = f
	}
	v.current.Store(set)
	return v, nil
}

// ApplyMutations makes the changes to the stored field set as one batch.
// All added or updated formulas are syntax-checked before anything is
// applied; a failing formula aborts the whole batch and leaves the
// current set untouched. On success the new set is swapped in atomically
// and stale cache entries for the touched fields are dropped.
func (v *FieldVault) ApplyMutations(mutations []FieldMutation) error {
	old := v.current.Load()

	// Validate the whole batch first.
	for _, m := range mutations {
		if m.ID == "" {
			return fmt.Errorf("mutation missing field ID")
		}
		switch m.Field {
		case nil:
			if _, ok := old.fields[m.ID]; !ok {
				return fmt.Errorf("deleting field %s: %w", m.ID, ErrFieldNotFound)
			}
		default:
			if err := validateField(m.Field); err != nil {
				return fmt.Errorf("mutating field %s: %w", m.ID, err)
			}
			if err := parser.Valid(m.Field.Formula); err != nil {
				return fmt.Errorf("mutating field %s: %w", m.ID, err)
			}
		}
	}

	next := &fieldSet{fields: make(map[string]*ComputedField, len(old.fields))}
	for id, f := range old.fields {
		next.fields[id] = f
	}

	for _, m := range mutations {
		switch m.Field {
		case nil:
			delete(next.fields, m.ID)
			v.engine.Remove(m.ID)
		default:
			next.fields[m.ID] = m.Field
			// Cannot fail: the formula was validated above.
			if err := v.engine.ParseFormula(m.ID, m.Field.Formula); err != nil {
				return fmt.Errorf("parsing field %s: %w", m.ID, err)
			}
			v.engine.Invalidate(m.ID)
		}
	}

	v.current.Store(next)
	return nil
}

// Field returns the current definition of one field.
func (v *FieldVault) Field(id string) (*ComputedField, bool) {
	f, ok := v.current.Load().fields[id]
	return f, ok
}

// Snapshot returns the current field definitions, sorted by ID. The
// slice is owned by the caller; the field structs are shared and must
// not be modified.
func (v *FieldVault) Snapshot() []*ComputedField {
	set := v.current.Load()
	fields := make([]*ComputedField, 0, len(set.fields))
	for _, f := range set.fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].ID < fields[j].ID
	})
	return fields
}

// FieldCount is the number of fields in the current set.
func (v *FieldVault) FieldCount() int {
	return len(v.current.Load().fields)
}

// EvaluateAll evaluates the current field set against the data.
func (v *FieldVault) EvaluateAll(data map[string]interface{}) map[string]*Result {
	return v.engine.EvaluateAll(v.Snapshot(), data)
}
