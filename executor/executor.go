// Package executor implements the public entry point (L7) of the execution core: parsing and
// validating a query against a loaded schema (delegated to gqlparser), then driving concurrent
// field resolution against a caller-supplied root ObjectResolver and assembling the wire response.
//
// An Executor is built once per schema and is safe to share and reuse across concurrent requests;
// Run carries all per-request state in a freshly built execctx.ExecCtx.
package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	"github.com/zackangelo/phoebus/execctx"
	"github.com/zackangelo/phoebus/internal/introspect"
	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/schema"
	"github.com/zackangelo/phoebus/value"
	"github.com/zackangelo/phoebus/xerr"
)

var tracer = otel.Tracer("github.com/zackangelo/phoebus/executor")

// Executor runs queries against one loaded schema. The zero value is not usable; build one with
// New.
type Executor struct {
	schema *schema.Schema

	// sem, when non-nil, caps the number of field resolvers allowed to run at once across an
	// entire request: each field task acquires one unit before calling into user code.
	sem *semaphore.Weighted
}

// New loads schemaText and returns an Executor ready to run queries against it.
func New(schemaName, schemaText string) (*Executor, error) {
	sch, err := schema.Load(schemaName, schemaText)
	if err != nil {
		return nil, err
	}
	return &Executor{schema: sch}, nil
}

// Schema returns the ExecSchema this executor runs against.
func (ex *Executor) Schema() *schema.Schema {
	return ex.schema
}

// WithConcurrencyLimit returns a shallow copy of ex that caps the number of field resolvers running
// concurrently within a single request to n. A non-positive n removes any cap. The receiver is left
// untouched, so a shared Executor can serve both capped and uncapped callers.
func (ex *Executor) WithConcurrencyLimit(n int64) *Executor {
	clone := *ex
	if n > 0 {
		clone.sem = semaphore.NewWeighted(n)
	} else {
		clone.sem = nil
	}
	return &clone
}

// Response is the wire envelope produced by Run: the assembled data tree alongside any field
// errors accumulated while building it, per https://spec.graphql.org/June2018/#sec-Response.
type Response struct {
	Data value.Value
	// RequestID correlates this Response with the "graphql.execute" trace span opened for the
	// request that produced it.
	RequestID string
	Errors    []*xerr.Error
}

// Run parses and validates queryText against the executor's schema, locates the operation named by
// operationName (or the query's sole operation when it names none), and resolves it against root.
// variables supplies the operation's pre-coerced variable values, keyed by name without "$"; the
// execution core does not itself coerce variables against their declared types (see Non-goals) --
// callers are expected to have validated and converted them already.
func (ex *Executor) Run(
	ctx context.Context,
	queryText string,
	root resolve.ObjectResolver,
	operationName string,
	variables map[string]value.Value,
) (*Response, error) {
	requestID := uuid.New().String()
	ctx, span := tracer.Start(ctx, "graphql.execute")
	defer span.End()
	span.SetAttributes(attribute.String("graphql.request_id", requestID))
	if operationName != "" {
		span.SetAttributes(attribute.String("graphql.operation.name", operationName))
	}

	doc, queryErrs := gqlparser.LoadQuery(ex.schema.Raw(), queryText)
	if queryErrs != nil {
		qerr := toQueryError(queryErrs)
		span.RecordError(qerr)
		return nil, qerr
	}

	op, err := findOperation(doc, operationName)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rootTypeName, err := ex.rootTypeNameFor(op)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("graphql.operation.type", string(op.Operation)))

	ec := execctx.NewExecCtx(ex.schema, doc, op, variables, rootTypeName)

	decorated := introspect.TypenameDecorator{
		Inner:           introspect.RootDecorator{Inner: root, Schema: ex.schema},
		RuntimeTypeName: rootTypeName,
	}

	data, _, fieldErrs := ex.executeSelectionSet(ctx, ec, decorated, rootTypeName, op.SelectionSet, nil)

	resp := &Response{Data: data, RequestID: requestID}
	if len(fieldErrs) > 0 {
		resp.Errors = fieldErrs.Sorted()
		span.SetAttributes(attribute.Int("graphql.error_count", len(fieldErrs)))
	}
	return resp, nil
}

func findOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		switch len(doc.Operations) {
		case 0:
			return nil, xerr.NewError(xerr.KindOperationNotFound, "document contains no operations", nil)
		case 1:
			return doc.Operations[0], nil
		default:
			return nil, xerr.NewError(xerr.KindOperationNotFound,
				"document contains multiple operations; an operation name is required", nil)
		}
	}

	for _, op := range doc.Operations {
		if op.Name == name {
			return op, nil
		}
	}
	return nil, xerr.NewError(xerr.KindOperationNotFound, fmt.Sprintf("unknown operation %q", name), nil)
}

func (ex *Executor) rootTypeNameFor(op *ast.OperationDefinition) (string, error) {
	switch op.Operation {
	case ast.Query, "":
		return ex.schema.QueryTypeName(), nil
	case ast.Mutation:
		if name := ex.schema.MutationTypeName(); name != "" {
			return name, nil
		}
		return "", xerr.NewError(xerr.KindUnsupportedOperation, "schema defines no mutation type", nil)
	case ast.Subscription:
		return "", xerr.NewError(xerr.KindUnsupportedOperation,
			"subscription operations are not executed by this engine", nil)
	default:
		return "", xerr.NewError(xerr.KindUnsupportedOperation, "unknown operation type", nil)
	}
}
