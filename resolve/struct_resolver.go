package resolve

import (
	"context"
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"

	"github.com/zackangelo/phoebus/value"
)

// StructResolver adapts a plain Go struct, struct pointer, or map[string]interface{} to
// ObjectResolver by reflection, matching each field name against the struct's exported fields in
// UpperCamelCase (via strcase, so a GraphQL field "dogBreed" matches a Go field "DogBreed"). It
// exists for quick prototyping and tests; production resolvers typically implement ObjectResolver
// directly for full control over nested descent and error reporting.
type StructResolver struct {
	Source interface{}
}

var _ ObjectResolver = StructResolver{}

// NewStructResolver wraps source for reflective field resolution.
func NewStructResolver(source interface{}) StructResolver {
	return StructResolver{Source: source}
}

// ResolveField implements ObjectResolver.
func (r StructResolver) ResolveField(ctx context.Context, fc *FieldContext) (Resolved, error) {
	v := reflect.ValueOf(r.Source)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return Null, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return r.resolveFromStruct(v, fc.Name())
	case reflect.Map:
		return r.resolveFromMap(v, fc.Name())
	default:
		return Null, fmt.Errorf("default resolver cannot resolve field %q from %T", fc.Name(), r.Source)
	}
}

func (r StructResolver) resolveFromStruct(v reflect.Value, fieldName string) (Resolved, error) {
	goName := strcase.ToCamel(fieldName)
	fv := v.FieldByName(goName)
	if !fv.IsValid() {
		return Null, fmt.Errorf("no struct field %q (from GraphQL field %q)", goName, fieldName)
	}
	return toResolved(fv.Interface())
}

func (r StructResolver) resolveFromMap(v reflect.Value, fieldName string) (Resolved, error) {
	mv := v.MapIndex(reflect.ValueOf(fieldName))
	if !mv.IsValid() {
		return Null, nil
	}
	return toResolved(mv.Interface())
}

// toResolved converts an arbitrary Go value surfaced by reflection into a Resolved: scalars become
// terminal values, slices/arrays become Array, structs and maps become a nested StructResolver,
// and any other kind is reported as an error.
func toResolved(v interface{}) (Resolved, error) {
	if v == nil {
		return Null, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Null, nil
		}
		rv = rv.Elem()
		v = rv.Interface()
	}

	switch val := v.(type) {
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case value.Value:
		return ValueOf(val), nil
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]Resolved, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := toResolved(rv.Index(i).Interface())
			if err != nil {
				return Null, err
			}
			elems[i] = elem
		}
		return Array(elems), nil
	case reflect.Struct, reflect.Map:
		return Object(NewStructResolver(v)), nil
	default:
		return Null, fmt.Errorf("cannot convert value of kind %v to a Resolved", rv.Kind())
	}
}
