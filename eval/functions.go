package eval

import (
	"fmt"
	"math"
)

// builtinFunc implements one builtin. Arguments arrive fully evaluated;
// the formula language has eager argument evaluation, so even if() sees
// both branches computed.
type builtinFunc func(name string, args []interface{}) (interface{}, error)

// builtins is the fixed function set available in formulas. There are no
// user-defined functions.
var builtins = map[string]builtinFunc{
	"floor": numeric1(math.Floor),
	"ceil":  numeric1(math.Ceil),
	"abs":   numeric1(math.Abs),
	"sqrt":  numeric1(math.Sqrt),
	"round": numeric1(func(x float64) float64 {
		// Half-up rounding toward positive infinity, not Go's
		// half-away-from-zero: round(-3.5) is -3.
		return math.Floor(x + 0.5)
	}),
	"min":   spread(math.Min),
	"max":   spread(math.Max),
	"sum":   sumFunc,
	"count": countFunc,
	"if":    ifFunc,
}

// numeric1 adapts a one-argument math function.
func numeric1(f func(float64) float64) builtinFunc {
	return func(name string, args []interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s() requires exactly 1 argument, got %d", name, len(args))
		}
		return f(toNumber(args[0])), nil
	}
}

// spread adapts a two-argument reducer (min/max) over one or more
// arguments.
func spread(f func(float64, float64) float64) builtinFunc {
	return func(name string, args []interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s() requires at least 1 argument", name)
		}
		acc := toNumber(args[0])
		for _, a := range args[1:] {
			acc = f(acc, toNumber(a))
		}
		return acc, nil
	}
}

func sumFunc(name string, args []interface{}) (interface{}, error) {
	arr, err := arrayArg(name, args)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, v := range arr {
		total += toNumber(v)
	}
	return total, nil
}

func countFunc(name string, args []interface{}) (interface{}, error) {
	arr, err := arrayArg(name, args)
	if err != nil {
		return nil, err
	}
	return float64(len(arr)), nil
}

func arrayArg(name string, args []interface{}) ([]interface{}, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s() requires exactly 1 argument, got %d", name, len(args))
	}
	arr, ok := asArray(args[0])
	if !ok {
		return nil, fmt.Errorf("%s() requires an array argument, got %T", name, args[0])
	}
	return arr, nil
}

func ifFunc(name string, args []interface{}) (interface{}, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%s() requires exactly 3 arguments, got %d", name, len(args))
	}
	if truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}
