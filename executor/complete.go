package executor

import (
	"context"
	"fmt"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/execctx"
	"github.com/zackangelo/phoebus/internal/introspect"
	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/value"
	"github.com/zackangelo/phoebus/xerr"
)

// completeValue coerces a resolver's Resolved into a response value.Value per t, recursing through
// NonNull and List wrappers and, for named types, into objects (including polymorphic
// interface/union dispatch) or terminal scalar/enum values. The returned bool reports whether this
// subtree must itself collapse to null in its parent -- a non-null violation either at this level
// or at a level this call recursed into -- per
// https://spec.graphql.org/June2018/#sec-Errors-and-Non-Nullability.
func (ex *Executor) completeValue(
	ctx context.Context,
	ec *execctx.ExecCtx,
	t *ast.Type,
	selSet ast.SelectionSet,
	path xerr.Path,
	resolved resolve.Resolved,
) (value.Value, bool, xerr.FieldErrors) {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		val, bubble, errs := ex.completeValue(ctx, ec, &inner, selSet, path, resolved)
		if bubble {
			return value.Null, true, errs
		}
		if val.IsNull() {
			e := xerr.NewError(xerr.KindTypeMismatch,
				fmt.Sprintf("cannot return null for non-nullable field %q", path.String()), nil).WithPath(path)
			return value.Null, true, withError(errs, path, e)
		}
		return val, false, errs
	}

	if resolved.Kind() == resolve.KindValue && resolved.Value().IsNull() {
		return value.Null, false, nil
	}

	var val value.Value
	var bubble bool
	var errs xerr.FieldErrors
	if t.NamedType == "" {
		val, bubble, errs = ex.completeList(ctx, ec, t.Elem, selSet, path, resolved)
	} else {
		val, bubble, errs = ex.completeNamed(ctx, ec, t.NamedType, selSet, path, resolved)
	}

	// t is nullable here, so a non-null violation at or below this position -- ours to absorb --
	// nulls out this field rather than continuing to bubble past it, per
	// https://spec.graphql.org/June2018/#sec-Errors-and-Non-Nullability.
	if bubble {
		return value.Null, false, errs
	}
	return val, false, errs
}

func (ex *Executor) completeList(
	ctx context.Context,
	ec *execctx.ExecCtx,
	elemType *ast.Type,
	selSet ast.SelectionSet,
	path xerr.Path,
	resolved resolve.Resolved,
) (value.Value, bool, xerr.FieldErrors) {
	if resolved.Kind() != resolve.KindArray {
		e := xerr.NewError(xerr.KindTypeMismatch, "resolver did not return a list for a list field", nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	elems := resolved.Elements()
	results := make([]value.Value, len(elems))
	fieldErrs := make(xerr.FieldErrors)
	var mu sync.Mutex
	var bubbleAny bool
	var wg sync.WaitGroup

	for i, el := range elems {
		wg.Add(1)
		go func(i int, el resolve.Resolved) {
			defer wg.Done()
			elPath := appendIndexPath(path, i)
			v, bubble, errs := ex.completeValue(ctx, ec, elemType, selSet, elPath, el)
			if bubble {
				mu.Lock()
				bubbleAny = true
				mu.Unlock()
			}
			results[i] = v
			if len(errs) > 0 {
				mu.Lock()
				for k, e := range errs {
					fieldErrs[k] = e
				}
				mu.Unlock()
			}
		}(i, el)
	}
	wg.Wait()

	if bubbleAny {
		return value.Null, true, fieldErrs
	}
	return value.NewList(results), false, fieldErrs
}

func (ex *Executor) completeNamed(
	ctx context.Context,
	ec *execctx.ExecCtx,
	typeName string,
	selSet ast.SelectionSet,
	path xerr.Path,
	resolved resolve.Resolved,
) (value.Value, bool, xerr.FieldErrors) {
	def, ok := ex.schema.FindType(typeName)
	if !ok {
		e := xerr.NewError(xerr.KindTypeNotFound, fmt.Sprintf("unknown type %q", typeName), nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		if resolved.Kind() != resolve.KindValue {
			e := xerr.NewError(xerr.KindTypeMismatch,
				fmt.Sprintf("resolver did not return a scalar value for %q", typeName), nil).WithPath(path)
			return value.Null, false, xerr.FieldErrors{path.String(): e}
		}
		return resolved.Value(), false, nil

	case ast.Object:
		if resolved.Kind() != resolve.KindObject {
			e := xerr.NewError(xerr.KindTypeMismatch,
				fmt.Sprintf("resolver did not return an object for %q", typeName), nil).WithPath(path)
			return value.Null, false, xerr.FieldErrors{path.String(): e}
		}
		decorated := introspect.TypenameDecorator{Inner: resolved.Resolver(), RuntimeTypeName: def.Name}
		return ex.executeSelectionSet(ctx, ec, decorated, def.Name, selSet, path)

	case ast.Interface, ast.Union:
		return ex.completeAbstract(ctx, ec, def, selSet, path, resolved)

	default:
		e := xerr.NewError(xerr.KindTypeMismatch,
			fmt.Sprintf("type %q is not a valid field return type", typeName), nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}
}

func (ex *Executor) completeAbstract(
	ctx context.Context,
	ec *execctx.ExecCtx,
	abstractDef *ast.Definition,
	selSet ast.SelectionSet,
	path xerr.Path,
	resolved resolve.Resolved,
) (value.Value, bool, xerr.FieldErrors) {
	if resolved.Kind() != resolve.KindObject {
		e := xerr.NewError(xerr.KindTypeMismatch,
			fmt.Sprintf("resolver did not return an object for abstract type %q", abstractDef.Name), nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	objResolver := resolved.Resolver()
	tnr, ok := objResolver.(resolve.TypeNameResolver)
	if !ok {
		e := xerr.NewError(xerr.KindAbstractTypeUnresolved,
			fmt.Sprintf("resolver for abstract type %q does not implement TypeNameResolver", abstractDef.Name),
			nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	concreteName, ok := tnr.ResolveTypeName(ctx)
	if !ok {
		e := xerr.NewError(xerr.KindAbstractTypeUnresolved,
			fmt.Sprintf("could not resolve a concrete type for abstract type %q", abstractDef.Name),
			nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	if !ex.schema.IsSubtype(concreteName, abstractDef.Name) {
		e := xerr.NewError(xerr.KindAbstractTypeUnresolved,
			fmt.Sprintf("type %q does not satisfy abstract type %q", concreteName, abstractDef.Name),
			nil).WithPath(path)
		return value.Null, false, xerr.FieldErrors{path.String(): e}
	}

	decorated := introspect.TypenameDecorator{Inner: objResolver, RuntimeTypeName: concreteName}
	return ex.executeSelectionSet(ctx, ec, decorated, concreteName, selSet, path)
}

func withError(errs xerr.FieldErrors, path xerr.Path, e *xerr.Error) xerr.FieldErrors {
	if errs == nil {
		errs = make(xerr.FieldErrors, 1)
	}
	errs[path.String()] = e
	return errs
}
