package formula

import "testing"

func TestDependencyMatches(t *testing.T) {
	cases := []struct {
		dep     string
		changed string
		want    bool
	}{
		// Exact
		{"inventory.0.weight", "inventory.0.weight", true},
		{"strength", "strength", true},
		{"strength", "dexterity", false},

		// Prefix, both directions, segment-aware
		{"inventory.0.weight", "inventory", true},
		{"inventory.0.weight", "inventory.0", true},
		{"inventory", "inventory.0.weight", true},
		{"inventory.0.weight", "unrelated", false},
		{"inventory.0.weight", "inventory_weights", false},
		{"inv", "inventory", false},

		// Wildcard segments match exactly one path segment
		{"inventory.*.weight", "inventory.3.weight", true},
		{"inventory.*.weight", "inventory.3.value", false},
		{"inventory.*.weight", "inventory.3.weight.unit", true},
		{"inventory.*.weight", "inventory.3", false},
		{"inventory.*", "inventory.3", true},
		{"inventory.*", "other.3", false},

		// A change above the wildcard affects the reader
		{"inventory.*.weight", "inventory", true},
		{"a.b.*.c", "a.b", true},
		{"a.b.*.c", "a.x", false},
	}

	for _, c := range cases {
		if got := dependencyMatches(c.dep, c.changed); got != c.want {
			t.Errorf("dependencyMatches(%q, %q) = %v, want %v", c.dep, c.changed, got, c.want)
		}
	}
}
