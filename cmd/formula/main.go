// Command formula is a developer tool for working with computed-field
// formulas outside the client: syntax-check the formulas in a form
// definition file, evaluate a single formula against a data file, or
// print the property paths a formula reads.
//
// Usage:
//
//	formula validate form.yaml [form2.yaml ...]
//	formula eval 'floor(strength / 2) + level' --data character.yaml
//	formula deps 'sum(inventory_weights) <= capacity'
//
// validate exits non-zero when any formula fails to parse, for use in
// content pipelines.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	formula "github.com/NecroVR/VTT-sub010"
	"github.com/NecroVR/VTT-sub010/ast"
	"github.com/NecroVR/VTT-sub010/parser"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formula",
		Short:         "Work with computed-field formulas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(validateCmd(), evalCmd(), depsCmd())
	return root
}

// fieldDef mirrors the computed-field entries of a form definition file.
type fieldDef struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Formula string `yaml:"formula"`
}

type formDef struct {
	Fields []fieldDef `yaml:"fields"`
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <form.yaml> [form.yaml ...]",
		Short: "Syntax-check every formula in the given form definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := formula.NewEngine()
			failures := 0
			for _, path := range args {
				form, err := loadForm(path)
				if err != nil {
					return err
				}
				for _, f := range form.Fields {
					res := engine.ValidateFormula(f.Formula)
					if res.Valid {
						fmt.Printf("ok    %s: %s\n", path, f.ID)
						continue
					}
					failures++
					fmt.Printf("FAIL  %s: %s: %s\n", path, f.ID, res.Error)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d invalid formula(s)", failures)
			}
			return nil
		},
	}
}

func evalCmd() *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a formula against a YAML data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]interface{}{}
			if dataPath != "" {
				b, err := os.ReadFile(dataPath)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(b, &data); err != nil {
					return fmt.Errorf("reading data file %s: %w", dataPath, err)
				}
			}

			engine := formula.NewEngine()
			f := formula.NewComputedField("cli", args[0])
			value, err := engine.Evaluate(f, normalize(data), true)
			if err != nil {
				return err
			}
			fmt.Printf("%v\n", value)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "YAML file with the evaluation context")
	return cmd
}

func depsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps <formula>",
		Short: "Print the property paths a formula reads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			for _, d := range ast.Dependencies(node) {
				fmt.Println(d)
			}
			return nil
		},
	}
}

func loadForm(path string) (*formDef, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var form formDef
	if err := yaml.Unmarshal(b, &form); err != nil {
		return nil, fmt.Errorf("reading form definition %s: %w", path, err)
	}
	return &form, nil
}

// normalize converts the YAML-decoded context to the evaluator's value
// representation: all numbers become float64 and nested maps become
// map[string]interface{}.
func normalize(v map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(v))
	for k, val := range v {
		out[k] = normalizeValue(val)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case map[string]interface{}:
		return normalize(x)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[fmt.Sprintf("%v", k)] = normalizeValue(val)
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
