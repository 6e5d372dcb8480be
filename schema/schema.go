// Package schema provides a read-only facade (ExecSchema, L2 of the execution core) over a
// validated GraphQL schema: type lookup, subtype tests for interfaces and unions, and
// field-definition lookup indexed by (parent type, field name), including the implicit
// introspection fields that the executor overlays on every user resolver.
//
// Schema parsing and SDL validation are delegated to github.com/vektah/gqlparser/v2, which plays
// the role of the external IR collaborator described by the execution core: this package never
// builds its own lexer, parser, or validation-rule set.
package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/zackangelo/phoebus/xerr"
)

// Implicit meta-field names injected by the executor without requiring schema authors to declare
// them, per https://spec.graphql.org/June2018/#sec-Schema-Introspection.
const (
	TypenameFieldName = "__typename"
	SchemaFieldName   = "__schema"
	TypeFieldName     = "__type"
)

// Schema is the immutable, precomputed view (ExecSchema) built once per loaded schema document and
// shared by reference across every request that runs against it.
type Schema struct {
	raw *ast.Schema
}

// Load parses and validates a GraphQL SDL document, returning the ExecSchema the executor drives
// requests against. name is used only to annotate diagnostics with a source name.
func Load(name, schemaText string) (*Schema, error) {
	raw, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: schemaText})
	if err != nil {
		return nil, toError(err)
	}
	return &Schema{raw: raw}, nil
}

// Raw exposes the underlying gqlparser schema for collaborators (e.g. the query loader) that need
// it verbatim.
func (s *Schema) Raw() *ast.Schema {
	return s.raw
}

// QueryTypeName returns the name of the query root type.
func (s *Schema) QueryTypeName() string {
	if s.raw.Query == nil {
		return ""
	}
	return s.raw.Query.Name
}

// MutationTypeName returns the name of the mutation root type, or "" if the schema has none.
func (s *Schema) MutationTypeName() string {
	if s.raw.Mutation == nil {
		return ""
	}
	return s.raw.Mutation.Name
}

// SubscriptionTypeName returns the name of the subscription root type, or "" if the schema has
// none. The execution core does not drive subscription operations (see Non-goals); the name is
// exposed only so introspection can report it.
func (s *Schema) SubscriptionTypeName() string {
	if s.raw.Subscription == nil {
		return ""
	}
	return s.raw.Subscription.Name
}

// FindType looks up a type definition (object, interface, union, enum, scalar, or input object) by
// name.
func (s *Schema) FindType(name string) (*ast.Definition, bool) {
	def, ok := s.raw.Types[name]
	return def, ok
}

// FindObjectType looks up an object type definition by name, failing if the named type exists but
// is not an object.
func (s *Schema) FindObjectType(name string) (*ast.Definition, bool) {
	def, ok := s.raw.Types[name]
	if !ok || def.Kind != ast.Object {
		return nil, false
	}
	return def, true
}

// IsSubtype reports whether the concrete object type named concrete satisfies the abstract
// (interface or union) type named abstract.
func (s *Schema) IsSubtype(concrete, abstract string) bool {
	for _, possible := range s.raw.PossibleTypes[abstract] {
		if possible.Name == concrete {
			return true
		}
	}
	return false
}

// PossibleTypes returns the concrete object types that satisfy the named interface or union.
func (s *Schema) PossibleTypes(abstractName string) []*ast.Definition {
	return s.raw.PossibleTypes[abstractName]
}

// Directive looks up a directive definition by name (e.g. "deprecated", "skip", "include").
func (s *Schema) Directive(name string) (*ast.DirectiveDefinition, bool) {
	def, ok := s.raw.Directives[name]
	return def, ok
}

// FieldDef describes a field of a parent type, uniformly covering both schema-declared fields and
// the implicit introspection meta-fields that have no backing ast.FieldDefinition.
type FieldDef struct {
	Name        string
	Type        *ast.Type
	Args        ast.ArgumentDefinitionList
	Description string
	Directives  ast.DirectiveList

	// AST is the backing schema field definition, or nil for a synthetic meta-field
	// (__typename, __schema, __type).
	AST *ast.FieldDefinition
}

// FieldDef looks up the field named fieldName on the type named parentTypeName, special-casing the
// implicit introspection fields exactly as the GraphQL spec requires: every object and interface
// gets __typename, and the query root additionally gets __schema and __type. Resolver code never
// sees this special-casing; it is folded in once here so the field collector and executor can treat
// every field uniformly.
func (s *Schema) FieldDef(parentTypeName, fieldName string) (*FieldDef, bool) {
	if parentTypeName == s.QueryTypeName() {
		switch fieldName {
		case SchemaFieldName:
			return schemaMetaField, true
		case TypeFieldName:
			return typeMetaField, true
		}
	}

	if fieldName == TypenameFieldName {
		if def, ok := s.raw.Types[parentTypeName]; ok && (def.Kind == ast.Object || def.Kind == ast.Interface || def.Kind == ast.Union) {
			return typenameMetaField, true
		}
	}

	def, ok := s.raw.Types[parentTypeName]
	if !ok {
		return nil, false
	}
	for _, f := range def.Fields {
		if f.Name == fieldName {
			return &FieldDef{
				Name:        f.Name,
				Type:        f.Type,
				Args:        f.Arguments,
				Description: f.Description,
				Directives:  f.Directives,
				AST:         f,
			}, true
		}
	}
	return nil, false
}

func toError(err error) error {
	if list, ok := err.(gqlerror.List); ok {
		msgs := make([]string, len(list))
		for i, e := range list {
			msgs[i] = e.Message
		}
		return xerr.NewError(xerr.KindSchemaValidation, fmt.Sprintf("schema validation failed: %v", msgs), nil)
	}
	return xerr.NewError(xerr.KindSchemaValidation, "schema validation failed", err)
}
