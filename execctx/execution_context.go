package execctx

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/schema"
	"github.com/zackangelo/phoebus/value"
)

// ExecCtx is the per-operation execution context (L5): a shared handle to the ExecSchema, the
// fragment definitions collected from the operation's document, and the request's coerced
// variables. It is immutable for the duration of the operation and is read concurrently by every
// in-flight field task, so it carries no mutable state of its own.
type ExecCtx struct {
	schema     *schema.Schema
	document   *ast.QueryDocument
	operation  *ast.OperationDefinition
	fragments  map[string]*ast.FragmentDefinition
	variables  map[string]value.Value
	rootTypeNm string
}

// NewExecCtx builds an ExecCtx for a single operation within doc, indexing its fragment
// definitions by name.
func NewExecCtx(
	sch *schema.Schema,
	doc *ast.QueryDocument,
	op *ast.OperationDefinition,
	variables map[string]value.Value,
	rootTypeName string,
) *ExecCtx {
	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, frag := range doc.Fragments {
		fragments[frag.Name] = frag
	}
	if variables == nil {
		variables = map[string]value.Value{}
	}
	return &ExecCtx{
		schema:     sch,
		document:   doc,
		operation:  op,
		fragments:  fragments,
		variables:  variables,
		rootTypeNm: rootTypeName,
	}
}

// Schema returns the ExecSchema view shared by this operation.
func (ec *ExecCtx) Schema() *schema.Schema {
	return ec.schema
}

// Operation returns the AST node of the operation being executed.
func (ec *ExecCtx) Operation() *ast.OperationDefinition {
	return ec.operation
}

// RootTypeName returns the name of the object type the operation's root selection set is
// evaluated against (the query, mutation, or subscription root type).
func (ec *ExecCtx) RootTypeName() string {
	return ec.rootTypeNm
}

// Fragment looks up a named fragment definition collected from the operation's document.
func (ec *ExecCtx) Fragment(name string) (*ast.FragmentDefinition, bool) {
	f, ok := ec.fragments[name]
	return f, ok
}

// Variables returns the operation's coerced variable values, keyed by name (without "$").
func (ec *ExecCtx) Variables() map[string]value.Value {
	return ec.variables
}
