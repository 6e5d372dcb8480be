// Package resolve defines the boundary user code implements (ObjectResolver, L3 of the execution
// core) and the Resolved/FieldContext types that carry values and request state across that
// boundary.
package resolve

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/value"
)

// ObjectResolver is the capability user code implements to describe how to resolve fields of a
// single object value. A resolver returned from a field (via Object(R)) is owned exclusively by
// that field's subtree for the remainder of its resolution.
type ObjectResolver interface {
	// ResolveField produces the Resolved value for the named field of this object. fc.Name() is the
	// schema field name, not the response alias.
	ResolveField(ctx context.Context, fc *FieldContext) (Resolved, error)
}

// TypeNameResolver is an optional capability. An ObjectResolver backing a field whose static type
// is an interface or union MUST additionally implement TypeNameResolver so the executor can select
// the concrete object type to descend into at runtime.
type TypeNameResolver interface {
	// ResolveTypeName returns the name of the concrete object type satisfying the enclosing
	// abstract type, or ok=false if it cannot be determined.
	ResolveTypeName(ctx context.Context) (name string, ok bool)
}

// FuncResolver adapts a plain function to ObjectResolver, letting simple objects be written inline
// without a named type.
type FuncResolver func(ctx context.Context, fc *FieldContext) (Resolved, error)

// ResolveField implements ObjectResolver.
func (f FuncResolver) ResolveField(ctx context.Context, fc *FieldContext) (Resolved, error) {
	return f(ctx, fc)
}

// Kind discriminates the variant held by a Resolved.
type Kind int

const (
	// KindValue is a terminal, already-materialized value.Value.
	KindValue Kind = iota
	// KindObject requires further descent via an ObjectResolver.
	KindObject
	// KindArray recurses element-wise using the field's list element type.
	KindArray
)

// Resolved is the value produced by a single resolver call for one field: either a terminal
// value.Value, a handle to an ObjectResolver that must be recursed into, or an ordered sequence of
// further Resolved values to be completed against the field's list element type.
type Resolved struct {
	kind Kind
	val  value.Value
	obj  ObjectResolver
	arr  []Resolved
}

// Kind reports which variant r holds.
func (r Resolved) Kind() Kind {
	return r.kind
}

// Value returns the terminal value. Only meaningful when Kind() == KindValue.
func (r Resolved) Value() value.Value {
	return r.val
}

// Resolver returns the object resolver to recurse into. Only meaningful when Kind() == KindObject.
func (r Resolved) Resolver() ObjectResolver {
	return r.obj
}

// Elements returns the list of per-element Resolved values. Only meaningful when
// Kind() == KindArray.
func (r Resolved) Elements() []Resolved {
	return r.arr
}

// ValueOf wraps an already-built value.Value as a terminal Resolved.
func ValueOf(v value.Value) Resolved {
	return Resolved{kind: KindValue, val: v}
}

// Null is the terminal null Resolved.
var Null = ValueOf(value.Null)

// Object wraps r as a Resolved requiring descent into its subtree.
func Object(r ObjectResolver) Resolved {
	return Resolved{kind: KindObject, obj: r}
}

// Array wraps a slice of already-built Resolved elements.
func Array(elems []Resolved) Resolved {
	if elems == nil {
		elems = []Resolved{}
	}
	return Resolved{kind: KindArray, arr: elems}
}

// String wraps a Go string as a terminal Resolved.
func String(s string) Resolved {
	return ValueOf(value.NewString(s))
}

// StringOpt wraps an optional string: nil produces Null.
func StringOpt(s *string) Resolved {
	if s == nil {
		return Null
	}
	return String(*s)
}

// Bool wraps a Go bool as a terminal Resolved.
func Bool(b bool) Resolved {
	return ValueOf(value.NewBoolean(b))
}

// Int wraps a Go int64 as a terminal Resolved.
func Int(i int64) Resolved {
	return ValueOf(value.NewInt(i))
}

// Float wraps a Go float64 as a terminal Resolved.
func Float(f float64) Resolved {
	return ValueOf(value.NewFloat(f))
}

// EnumValue wraps an enum member name as a terminal Resolved.
func EnumValue(name string) Resolved {
	return ValueOf(value.NewEnum(value.NewName(name)))
}

// IntoResolved lets a collection of domain objects convert themselves for use with ArrayOf,
// mirroring the "conversions from Vec<R: Into<Resolved>>" constructor set called for by
// the resolver interface.
type IntoResolved interface {
	ToResolved() Resolved
}

// ArrayOf converts a slice of IntoResolved values into an Array Resolved, preserving order.
func ArrayOf[T IntoResolved](items []T) Resolved {
	elems := make([]Resolved, len(items))
	for i, item := range items {
		elems[i] = item.ToResolved()
	}
	return Array(elems)
}

// ObjectList wraps a slice of ObjectResolver as an Array of Object Resolved values, preserving
// order. Useful when the element type doesn't need its own IntoResolved adapter.
func ObjectList[R ObjectResolver](items []R) Resolved {
	elems := make([]Resolved, len(items))
	for i, item := range items {
		elems[i] = Object(item)
	}
	return Array(elems)
}

// FieldContext carries the field node(s) being resolved (needed for arguments and nested
// selections) plus the operation's variables map. It is read-only from the perspective of user
// code.
type FieldContext struct {
	// Fields holds every ast.Field node contributing to this response key (more than one when the
	// query repeats the same field under the same response key); the first entry is representative
	// for reading arguments.
	Fields []*ast.Field

	args      map[string]value.Value
	variables map[string]value.Value
}

// NewFieldContext builds a FieldContext for the given collected field occurrences and pre-evaluated
// argument values.
func NewFieldContext(fields []*ast.Field, args map[string]value.Value, variables map[string]value.Value) *FieldContext {
	return &FieldContext{Fields: fields, args: args, variables: variables}
}

// Name returns the schema field name (not the response alias).
func (fc *FieldContext) Name() string {
	return fc.Fields[0].Name
}

// Alias returns the response key: the field's alias if present, else its name.
func (fc *FieldContext) Alias() string {
	f := fc.Fields[0]
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// SelectionSets returns the sub-selection set of every contributing field occurrence, for use when
// recursing into a nested object; callers merge them via the field collector.
func (fc *FieldContext) SelectionSets() []ast.SelectionSet {
	sets := make([]ast.SelectionSet, len(fc.Fields))
	for i, f := range fc.Fields {
		sets[i] = f.SelectionSet
	}
	return sets
}

// Variables returns the operation's variable values, keyed by variable name (without the leading
// "$").
func (fc *FieldContext) Variables() map[string]value.Value {
	return fc.variables
}

// RawArg returns the evaluated argument value.Value for name, if present.
func (fc *FieldContext) RawArg(name string) (value.Value, bool) {
	v, ok := fc.args[name]
	return v, ok
}
