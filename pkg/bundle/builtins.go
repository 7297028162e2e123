package bundle

import (
	"fmt"
	"strconv"
)

// Function is a callable available to patterns. Positional and named arguments are
// already resolved. A returned error is reported and the call falls back to its name.
type Function func(positional []Value, named map[string]Value) (Value, error)

// builtinNumber implements NUMBER(value, minimumFractionDigits: 2, type: "ordinal").
func builtinNumber(positional []Value, named map[string]Value) (Value, error) {
	if len(positional) == 0 {
		return nil, &TypeError{Msg: "NUMBER: missing argument"}
	}
	var num NumberValue
	switch v := positional[0].(type) {
	case NoneValue:
		return NoneValue{Fallback: "NUMBER(" + v.Fallback + ")"}, nil
	case NumberValue:
		num = v
	case StringValue:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, &TypeError{Msg: fmt.Sprintf("NUMBER: invalid argument %q", string(v))}
		}
		num = Number(f)
	default:
		return nil, &TypeError{Msg: fmt.Sprintf("NUMBER: invalid argument type %T", v)}
	}

	for name, value := range named {
		switch name {
		case "minimumFractionDigits":
			n, err := intOption(name, value)
			if err != nil {
				return nil, err
			}
			num.Options.MinimumFractionDigits = n
		case "maximumFractionDigits":
			n, err := intOption(name, value)
			if err != nil {
				return nil, err
			}
			num.Options.MaximumFractionDigits = n
			num.Options.RoundToInteger = n == 0
		case "useGrouping":
			s, ok := value.(StringValue)
			if !ok {
				return nil, &TypeError{Msg: "NUMBER: useGrouping must be a string"}
			}
			num.Options.NoGrouping = s == "false"
		case "type":
			s, ok := value.(StringValue)
			if !ok {
				return nil, &TypeError{Msg: "NUMBER: type must be a string"}
			}
			num.Options.Ordinal = s == "ordinal"
		}
	}
	return num, nil
}

func intOption(name string, value Value) (int, error) {
	n, ok := value.(NumberValue)
	if !ok || n.Value < 0 || n.Value != float64(int(n.Value)) {
		return 0, &TypeError{Msg: fmt.Sprintf("NUMBER: %s must be a non-negative integer", name)}
	}
	return int(n.Value), nil
}
