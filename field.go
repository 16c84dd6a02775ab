package formula

import (
	"fmt"
	"strings"
)

// bannedIDCharacters may not appear in a computed field ID. The
// characters collide with the dependency-path syntax used for cache
// invalidation.
const bannedIDCharacters = ".*"

// A ComputedField is a form field whose displayed value is derived from
// other fields via a formula rather than direct user input. The field
// definition is supplied by the form-definition layer; the engine never
// mutates it.
type ComputedField struct {
	// Globally unique identifier within a form definition. (required)
	ID string `json:"id"`

	// User-facing label, not used by the engine.
	Label string `json:"label,omitempty"`

	// The formula to evaluate.
	Formula string `json:"formula"`

	// The type the formula is expected to produce. Informational: the
	// engine reports the actual type on the Result, it does not reject
	// mismatches.
	OutputType Type `json:"-"`
}

// NewComputedField initializes a field with the ID and formula.
func NewComputedField(id string, formulaText string) *ComputedField {
	return &ComputedField{
		ID:      id,
		Formula: formulaText,
	}
}

// validateField checks the structural requirements on a field
// definition.
func validateField(f *ComputedField) error {
	if f == nil {
		return fmt.Errorf("nil computed field")
	}
	if len(strings.TrimSpace(f.ID)) == 0 {
		return fmt.Errorf("required field ID for field with formula %q", f.Formula)
	}
	if strings.ContainsAny(f.ID, bannedIDCharacters) {
		return fmt.Errorf("field ID is invalid (%s), cannot contain any of %q", f.ID, bannedIDCharacters)
	}
	return nil
}
