// Package introspect implements the built-in introspection overlay (L6 of the execution core):
// the __typename meta-field present on every composite type, and the __schema/__type entry points
// into the __Schema/__Type/__Field/__InputValue/__EnumValue/__Directive meta-types described by
// https://spec.graphql.org/June2018/#sec-Introspection.
//
// Each meta-type is a small ObjectResolver over the already-validated *ast.Schema gqlparser built
// for us, following the same "one resolver per introspection type" shape as the execution core's
// own __Schema/__Type object configuration, adapted to the ObjectResolver capability model instead
// of a type-bound field-resolver table.
package introspect

import (
	"context"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/schema"
)

// TypenameDecorator wraps an ObjectResolver so that a "__typename" selection against it resolves to
// runtimeTypeName without the wrapped resolver ever seeing the field. Every object-typed field
// result gets wrapped in one of these before its sub-selection is collected.
type TypenameDecorator struct {
	Inner           resolve.ObjectResolver
	RuntimeTypeName string
}

var _ resolve.ObjectResolver = TypenameDecorator{}

// ResolveField implements resolve.ObjectResolver.
func (d TypenameDecorator) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	if fc.Name() == schema.TypenameFieldName {
		return resolve.String(d.RuntimeTypeName), nil
	}
	return d.Inner.ResolveField(ctx, fc)
}

// ResolveTypeName delegates to Inner when it implements TypeNameResolver, so wrapping an abstract
// field's resolver in TypenameDecorator doesn't hide its polymorphic dispatch from the executor.
func (d TypenameDecorator) ResolveTypeName(ctx context.Context) (string, bool) {
	if tnr, ok := d.Inner.(resolve.TypeNameResolver); ok {
		return tnr.ResolveTypeName(ctx)
	}
	return "", false
}

// RootDecorator wraps the user's root resolver to additionally serve "__schema" and "__type", the
// two introspection entry points that exist only on the query root type.
type RootDecorator struct {
	Inner  resolve.ObjectResolver
	Schema *schema.Schema
}

var _ resolve.ObjectResolver = RootDecorator{}

// ResolveField implements resolve.ObjectResolver.
func (d RootDecorator) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case schema.SchemaFieldName:
		return resolve.Object(SchemaResolver{Schema: d.Schema}), nil

	case schema.TypeFieldName:
		name, _ := resolve.Arg[string](fc, "name")
		def, ok := d.Schema.FindType(name)
		if !ok {
			return resolve.Null, nil
		}
		return resolve.Object(TypeResolver{Schema: d.Schema, Def: def}), nil

	case schema.TypenameFieldName:
		return resolve.String(d.Schema.QueryTypeName()), nil
	}
	return d.Inner.ResolveField(ctx, fc)
}

// SchemaResolver backs the __Schema meta-type, rooted at __schema.
type SchemaResolver struct {
	Schema *schema.Schema
}

var _ resolve.ObjectResolver = SchemaResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r SchemaResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "types":
		raw := r.Schema.Raw()
		defs := make([]*ast.Definition, 0, len(raw.Types))
		for _, def := range raw.Types {
			if strings.HasPrefix(def.Name, "__") {
				continue
			}
			defs = append(defs, def)
		}
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

		elems := make([]resolve.Resolved, len(defs))
		for i, def := range defs {
			elems[i] = resolve.Object(TypeResolver{Schema: r.Schema, Def: def})
		}
		return resolve.Array(elems), nil

	case "queryType":
		def, _ := r.Schema.FindType(r.Schema.QueryTypeName())
		return resolve.Object(TypeResolver{Schema: r.Schema, Def: def}), nil

	case "mutationType":
		name := r.Schema.MutationTypeName()
		if name == "" {
			return resolve.Null, nil
		}
		def, _ := r.Schema.FindType(name)
		return resolve.Object(TypeResolver{Schema: r.Schema, Def: def}), nil

	case "subscriptionType":
		name := r.Schema.SubscriptionTypeName()
		if name == "" {
			return resolve.Null, nil
		}
		def, _ := r.Schema.FindType(name)
		return resolve.Object(TypeResolver{Schema: r.Schema, Def: def}), nil

	case "directives":
		raw := r.Schema.Raw()
		defs := make([]*ast.DirectiveDefinition, 0, len(raw.Directives))
		for _, def := range raw.Directives {
			defs = append(defs, def)
		}
		sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

		elems := make([]resolve.Resolved, len(defs))
		for i, def := range defs {
			elems[i] = resolve.Object(DirectiveResolver{Schema: r.Schema, Def: def})
		}
		return resolve.Array(elems), nil
	}
	return resolve.Null, nil
}

// typeKindName maps a gqlparser definition kind to a __TypeKind enum member.
func typeKindName(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Scalar:
		return "SCALAR"
	case ast.Object:
		return "OBJECT"
	case ast.Interface:
		return "INTERFACE"
	case ast.Union:
		return "UNION"
	case ast.Enum:
		return "ENUM"
	case ast.InputObject:
		return "INPUT_OBJECT"
	default:
		return "SCALAR"
	}
}

// TypeResolver backs the __Type meta-type for both named types (scalar/object/interface/union/
// enum/input-object) and the List/NonNull wrapper types that occur when describing a field's type.
type TypeResolver struct {
	Schema *schema.Schema

	// Def is set when Type is nil: TypeResolver describes a named type directly.
	Def *ast.Definition

	// Type is set when describing a (possibly wrapped) field/argument type, so List/NonNull can be
	// reported before unwrapping to Def.
	Type *ast.Type
}

var _ resolve.ObjectResolver = TypeResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r TypeResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	if r.Type != nil {
		return r.resolveWrapped(fc)
	}
	return r.resolveNamed(fc)
}

func (r TypeResolver) resolveWrapped(fc *resolve.FieldContext) (resolve.Resolved, error) {
	t := r.Type

	switch fc.Name() {
	case "kind":
		if t.NonNull {
			return resolve.EnumValue("NON_NULL"), nil
		}
		if t.NamedType == "" {
			return resolve.EnumValue("LIST"), nil
		}
		def, ok := r.Schema.FindType(t.NamedType)
		if !ok {
			return resolve.Null, nil
		}
		return resolve.EnumValue(typeKindName(def.Kind)), nil

	case "ofType":
		if t.NonNull {
			inner := *t
			inner.NonNull = false
			return resolve.Object(TypeResolver{Schema: r.Schema, Type: &inner}), nil
		}
		if t.NamedType == "" {
			return resolve.Object(TypeResolver{Schema: r.Schema, Type: t.Elem}), nil
		}
		return resolve.Null, nil

	case "name":
		if t.NonNull || t.NamedType == "" {
			return resolve.Null, nil
		}
		return resolve.String(t.NamedType), nil

	default:
		// NonNull and List wrappers report null/empty for every other __Type field.
		if t.NonNull || t.NamedType == "" {
			return namedTypeZeroValue(fc.Name()), nil
		}
		def, ok := r.Schema.FindType(t.NamedType)
		if !ok {
			return resolve.Null, nil
		}
		return (TypeResolver{Schema: r.Schema, Def: def}).resolveNamed(fc)
	}
}

func namedTypeZeroValue(fieldName string) resolve.Resolved {
	switch fieldName {
	case "fields", "interfaces", "possibleTypes", "enumValues", "inputFields":
		return resolve.Array(nil)
	default:
		return resolve.Null
	}
}

func (r TypeResolver) resolveNamed(fc *resolve.FieldContext) (resolve.Resolved, error) {
	def := r.Def

	switch fc.Name() {
	case "kind":
		return resolve.EnumValue(typeKindName(def.Kind)), nil

	case "name":
		return resolve.String(def.Name), nil

	case "description":
		return resolve.StringOpt(nonEmpty(def.Description)), nil

	case "specifiedByURL":
		if def.Kind != ast.Scalar {
			return resolve.Null, nil
		}
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				return resolve.String(arg.Value.Raw), nil
			}
		}
		return resolve.Null, nil

	case "fields":
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			return resolve.Array(nil), nil
		}
		includeDeprecated, _ := resolve.Arg[bool](fc, "includeDeprecated")
		elems := make([]resolve.Resolved, 0, len(def.Fields))
		for _, f := range def.Fields {
			if isBuiltinIntrospectionName(f.Name) {
				continue
			}
			if !includeDeprecated && deprecatedDirective(f.Directives) != nil {
				continue
			}
			elems = append(elems, resolve.Object(FieldResolver{Schema: r.Schema, Def: f}))
		}
		return resolve.Array(elems), nil

	case "interfaces":
		if def.Kind != ast.Object {
			return resolve.Null, nil
		}
		elems := make([]resolve.Resolved, 0, len(def.Interfaces))
		for _, name := range def.Interfaces {
			idef, ok := r.Schema.FindType(name)
			if !ok {
				continue
			}
			elems = append(elems, resolve.Object(TypeResolver{Schema: r.Schema, Def: idef}))
		}
		return resolve.Array(elems), nil

	case "possibleTypes":
		if def.Kind != ast.Interface && def.Kind != ast.Union {
			return resolve.Null, nil
		}
		possible := r.Schema.PossibleTypes(def.Name)
		elems := make([]resolve.Resolved, len(possible))
		for i, p := range possible {
			elems[i] = resolve.Object(TypeResolver{Schema: r.Schema, Def: p})
		}
		return resolve.Array(elems), nil

	case "enumValues":
		if def.Kind != ast.Enum {
			return resolve.Null, nil
		}
		includeDeprecated, _ := resolve.Arg[bool](fc, "includeDeprecated")
		elems := make([]resolve.Resolved, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			if !includeDeprecated && deprecatedDirective(v.Directives) != nil {
				continue
			}
			elems = append(elems, resolve.Object(EnumValueResolver{Def: v}))
		}
		return resolve.Array(elems), nil

	case "inputFields":
		if def.Kind != ast.InputObject {
			return resolve.Null, nil
		}
		elems := make([]resolve.Resolved, len(def.Fields))
		for i, f := range def.Fields {
			elems[i] = resolve.Object(InputValueResolver{
				Schema:       r.Schema,
				Name:         f.Name,
				Description:  f.Description,
				Type:         f.Type,
				DefaultValue: f.DefaultValue,
			})
		}
		return resolve.Array(elems), nil

	case "ofType":
		return resolve.Null, nil
	}
	return resolve.Null, nil
}

func isBuiltinIntrospectionName(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

func deprecatedDirective(directives ast.DirectiveList) *ast.Directive {
	return directives.ForName("deprecated")
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FieldResolver backs the __Field meta-type describing one field of an object or interface type.
type FieldResolver struct {
	Schema *schema.Schema
	Def    *ast.FieldDefinition
}

var _ resolve.ObjectResolver = FieldResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r FieldResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "name":
		return resolve.String(r.Def.Name), nil
	case "description":
		return resolve.StringOpt(nonEmpty(r.Def.Description)), nil
	case "args":
		elems := make([]resolve.Resolved, len(r.Def.Arguments))
		for i, a := range r.Def.Arguments {
			elems[i] = resolve.Object(InputValueResolver{
				Schema:       r.Schema,
				Name:         a.Name,
				Description:  a.Description,
				Type:         a.Type,
				DefaultValue: a.DefaultValue,
			})
		}
		return resolve.Array(elems), nil
	case "type":
		return TypeResolver{Schema: r.Schema, Type: r.Def.Type}.asResolved(), nil
	case "isDeprecated":
		return resolve.Bool(deprecatedDirective(r.Def.Directives) != nil), nil
	case "deprecationReason":
		d := deprecatedDirective(r.Def.Directives)
		if d == nil {
			return resolve.Null, nil
		}
		if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
			return resolve.String(arg.Value.Raw), nil
		}
		return resolve.Null, nil
	}
	return resolve.Null, nil
}

func (r TypeResolver) asResolved() resolve.Resolved {
	return resolve.Object(r)
}

// InputValueResolver backs the __InputValue meta-type, shared by field arguments, directive
// arguments, and input-object fields.
type InputValueResolver struct {
	Schema       *schema.Schema
	Name         string
	Description  string
	Type         *ast.Type
	DefaultValue *ast.Value
}

var _ resolve.ObjectResolver = InputValueResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r InputValueResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "name":
		return resolve.String(r.Name), nil
	case "description":
		return resolve.StringOpt(nonEmpty(r.Description)), nil
	case "type":
		return TypeResolver{Schema: r.Schema, Type: r.Type}.asResolved(), nil
	case "defaultValue":
		if r.DefaultValue == nil {
			return resolve.Null, nil
		}
		return resolve.String(r.DefaultValue.String()), nil
	}
	return resolve.Null, nil
}

// EnumValueResolver backs the __EnumValue meta-type describing one member of an enum type.
type EnumValueResolver struct {
	Def *ast.EnumValueDefinition
}

var _ resolve.ObjectResolver = EnumValueResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r EnumValueResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "name":
		return resolve.String(r.Def.Name), nil
	case "description":
		return resolve.StringOpt(nonEmpty(r.Def.Description)), nil
	case "isDeprecated":
		return resolve.Bool(deprecatedDirective(r.Def.Directives) != nil), nil
	case "deprecationReason":
		d := deprecatedDirective(r.Def.Directives)
		if d == nil {
			return resolve.Null, nil
		}
		if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
			return resolve.String(arg.Value.Raw), nil
		}
		return resolve.Null, nil
	}
	return resolve.Null, nil
}

// DirectiveResolver backs the __Directive meta-type describing one directive definition.
type DirectiveResolver struct {
	Schema *schema.Schema
	Def    *ast.DirectiveDefinition
}

var _ resolve.ObjectResolver = DirectiveResolver{}

// ResolveField implements resolve.ObjectResolver.
func (r DirectiveResolver) ResolveField(ctx context.Context, fc *resolve.FieldContext) (resolve.Resolved, error) {
	switch fc.Name() {
	case "name":
		return resolve.String(r.Def.Name), nil
	case "description":
		return resolve.StringOpt(nonEmpty(r.Def.Description)), nil
	case "locations":
		elems := make([]resolve.Resolved, len(r.Def.Locations))
		for i, loc := range r.Def.Locations {
			elems[i] = resolve.EnumValue(string(loc))
		}
		return resolve.Array(elems), nil
	case "args":
		elems := make([]resolve.Resolved, len(r.Def.Arguments))
		for i, a := range r.Def.Arguments {
			elems[i] = resolve.Object(InputValueResolver{
				Schema:       r.Schema,
				Name:         a.Name,
				Description:  a.Description,
				Type:         a.Type,
				DefaultValue: a.DefaultValue,
			})
		}
		return resolve.Array(elems), nil
	}
	return resolve.Null, nil
}
