package resolve

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/zackangelo/phoebus/value"
)

// ArgError describes why a typed argument lookup failed, surfaced by TryArg when Arg would
// otherwise have to swallow the reason into a bare false.
type ArgError struct {
	Name   string
	Reason string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Name, e.Reason)
}

// Arg attempts to convert the named argument of fc to T, returning ok=false on absence or type
// mismatch. It is the infallible counterpart to TryArg for callers that treat "not present, or
// wrong shape" as equivalent to absent.
func Arg[T any](fc *FieldContext, name string) (T, bool) {
	v, err := TryArg[T](fc, name)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// TryArg attempts to convert the named argument of fc to T, returning a detailed ArgError when the
// argument is missing or cannot be converted.
func TryArg[T any](fc *FieldContext, name string) (T, error) {
	var zero T

	raw, ok := fc.RawArg(name)
	if !ok {
		return zero, &ArgError{Name: name, Reason: "not provided"}
	}

	converted, err := convert[T](raw)
	if err != nil {
		return zero, &ArgError{Name: name, Reason: err.Error()}
	}
	return converted, nil
}

// convert maps a value.Value onto a requested Go type T. Scalars convert directly; anything else
// (structs, maps, slices of non-scalar element types) goes through the same JSON encoding the
// executor itself uses, so the set of supported target shapes always matches what the wire format
// can express.
func convert[T any](v value.Value) (T, error) {
	var zero T

	switch target := any(zero).(type) {
	case string:
		if v.Kind() != value.KindString && v.Kind() != value.KindEnum {
			return zero, fmt.Errorf("expected string, got %v", v.Kind())
		}
		s := v.String()
		if v.Kind() == value.KindEnum {
			s = v.EnumValue().String()
		}
		return any(s).(T), nil

	case bool:
		if v.Kind() != value.KindBoolean {
			return zero, fmt.Errorf("expected boolean, got %v", v.Kind())
		}
		return any(v.Boolean()).(T), nil

	case int:
		n, err := numberOf(v)
		if err != nil {
			return zero, err
		}
		if n.IsFloat() {
			return zero, fmt.Errorf("expected integer, got float %v", n)
		}
		return any(int(n.Int64())).(T), nil

	case int32:
		n, err := numberOf(v)
		if err != nil {
			return zero, err
		}
		if n.IsFloat() {
			return zero, fmt.Errorf("expected integer, got float %v", n)
		}
		return any(int32(n.Int64())).(T), nil

	case int64:
		n, err := numberOf(v)
		if err != nil {
			return zero, err
		}
		if n.IsFloat() {
			return zero, fmt.Errorf("expected integer, got float %v", n)
		}
		return any(n.Int64()).(T), nil

	case float64:
		n, err := numberOf(v)
		if err != nil {
			return zero, err
		}
		return any(n.Float64()).(T), nil

	default:
		_ = target
		return convertComplex[T](v)
	}
}

func numberOf(v value.Value) (value.Number, error) {
	if v.Kind() != value.KindNumber {
		return value.Number{}, fmt.Errorf("expected number, got %v", v.Kind())
	}
	return v.Number(), nil
}

// convertComplex handles struct/slice/map target types by round-tripping through the same JSON
// encoding used for the wire format: encode the value.Value, then decode into T. This keeps one
// conversion rule for both the wire response and in-process argument reads instead of maintaining
// a parallel reflection-based mapper.
func convertComplex[T any](v value.Value) (T, error) {
	var zero T

	data, err := v.MarshalJSON()
	if err != nil {
		return zero, err
	}

	var out T
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &out); err != nil {
		return zero, err
	}
	return out, nil
}
