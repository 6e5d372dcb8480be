package schema

import "github.com/vektah/gqlparser/v2/ast"

// This file defines the implicit meta-fields described in
// https://spec.graphql.org/June2018/#sec-Schema-Introspection and
// https://spec.graphql.org/June2018/#sec-Type-Name-Introspection. They are never declared in SDL
// and have no backing ast.FieldDefinition; FieldDef special-cases their names and returns one of
// the values below.

func nonNull(named string) *ast.Type {
	return &ast.Type{NamedType: named, NonNull: true}
}

var schemaMetaField = &FieldDef{
	Name:        SchemaFieldName,
	Description: "Access the current type schema of this server.",
	Type:        nonNull("__Schema"),
}

var typeMetaField = &FieldDef{
	Name:        TypeFieldName,
	Description: "Request the type information of a single type.",
	Type:        &ast.Type{NamedType: "__Type"},
	Args: ast.ArgumentDefinitionList{
		{
			Name: "name",
			Type: nonNull("String"),
		},
	},
}

var typenameMetaField = &FieldDef{
	Name:        TypenameFieldName,
	Description: "The name of the current Object type at runtime.",
	Type:        nonNull("String"),
}
