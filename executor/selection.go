package executor

import (
	"context"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/execctx"
	"github.com/zackangelo/phoebus/internal/collect"
	"github.com/zackangelo/phoebus/resolve"
	"github.com/zackangelo/phoebus/value"
	"github.com/zackangelo/phoebus/xerr"
)

// executeSelectionSet collects selectionSet against runtimeTypeName and resolves every resulting
// response-key group concurrently, assembling the results into a value.Object in collection order
// regardless of which field finishes first. It returns the assembled object, whether the object
// itself must be nulled out because one of its non-null fields failed (see completeValue), and
// every field error accumulated along the way, keyed by response path.
func (ex *Executor) executeSelectionSet(
	ctx context.Context,
	ec *execctx.ExecCtx,
	parentResolver resolve.ObjectResolver,
	runtimeTypeName string,
	selectionSet ast.SelectionSet,
	path xerr.Path,
) (value.Value, bool, xerr.FieldErrors) {
	groups, err := collect.CollectFields(ec, ex.schema, runtimeTypeName, selectionSet)
	if err != nil {
		e := toFieldError(err, path)
		return value.Null, true, xerr.FieldErrors{path.String(): e}
	}

	type fieldOutcome struct {
		val    value.Value
		bubble bool
	}

	outcomes := make([]fieldOutcome, len(groups))
	fieldErrs := make(xerr.FieldErrors)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, g := range groups {
		wg.Add(1)
		go func(i int, g *collect.Group) {
			defer wg.Done()

			if err := ex.acquire(ctx); err != nil {
				mu.Lock()
				fieldErrs[appendPath(path, g.ResponseKey).String()] = toFieldError(err, appendPath(path, g.ResponseKey))
				mu.Unlock()
				return
			}
			defer ex.release()

			val, bubble, ferrs := ex.executeField(ctx, ec, parentResolver, g, path)
			outcomes[i] = fieldOutcome{val: val, bubble: bubble}
			if len(ferrs) > 0 {
				mu.Lock()
				for k, e := range ferrs {
					fieldErrs[k] = e
				}
				mu.Unlock()
			}
		}(i, g)
	}
	wg.Wait()

	bubbleObject := false
	builder := value.NewObjectBuilder()
	for i, g := range groups {
		if outcomes[i].bubble {
			bubbleObject = true
		}
		builder.Set(value.NewName(g.ResponseKey), outcomes[i].val)
	}

	if bubbleObject {
		return value.Null, true, fieldErrs
	}
	return value.NewObject(builder.Build()), false, fieldErrs
}

// executeField evaluates one collected field group: its arguments, its resolver call, and
// completion of the returned Resolved against its declared type.
func (ex *Executor) executeField(
	ctx context.Context,
	ec *execctx.ExecCtx,
	parentResolver resolve.ObjectResolver,
	g *collect.Group,
	parentPath xerr.Path,
) (value.Value, bool, xerr.FieldErrors) {
	path := appendPath(parentPath, g.ResponseKey)

	args, err := execctx.ArgumentValues(g.FieldDef.Args, g.Fields[0].Arguments, ec.Variables())
	if err != nil {
		return ex.nonNullableFieldFailure(g, path, toFieldError(err, path))
	}

	fc := resolve.NewFieldContext(g.Fields, args, ec.Variables())

	resolved, err := ex.safeResolveField(ctx, parentResolver, fc)
	if err != nil {
		fe := xerr.NewError(xerr.KindFieldResolverError, "field resolver failed", err).WithPath(path)
		return ex.nonNullableFieldFailure(g, path, fe)
	}

	selSet := mergeSelectionSets(g.Fields)
	return ex.completeValue(ctx, ec, g.FieldDef.Type, selSet, path, resolved)
}

// nonNullableFieldFailure records a single field error at path and, when the field's declared type
// is non-null, signals that the failure must bubble to the nearest nullable ancestor.
func (ex *Executor) nonNullableFieldFailure(g *collect.Group, path xerr.Path, fe *xerr.Error) (value.Value, bool, xerr.FieldErrors) {
	return value.Null, g.FieldDef.Type.NonNull, xerr.FieldErrors{path.String(): fe}
}

func (ex *Executor) safeResolveField(ctx context.Context, r resolve.ObjectResolver, fc *resolve.FieldContext) (resolved resolve.Resolved, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = xerr.RecoverFieldPanic(rec)
		}
	}()
	return r.ResolveField(ctx, fc)
}

func (ex *Executor) acquire(ctx context.Context) error {
	if ex.sem == nil {
		return nil
	}
	return ex.sem.Acquire(ctx, 1)
}

func (ex *Executor) release() {
	if ex.sem == nil {
		return
	}
	ex.sem.Release(1)
}

func appendPath(p xerr.Path, key string) xerr.Path {
	out := make(xerr.Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

func appendIndexPath(p xerr.Path, i int) xerr.Path {
	out := make(xerr.Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// mergeSelectionSets concatenates the sub-selection sets of every field occurrence contributing to
// a response key, so fields collected once under an aliased or repeated response key see every
// requested sub-field regardless of which occurrence declared it.
func mergeSelectionSets(fields []*ast.Field) ast.SelectionSet {
	if len(fields) == 1 {
		return fields[0].SelectionSet
	}
	var merged ast.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

func toFieldError(err error, path xerr.Path) *xerr.Error {
	if fe, ok := err.(*xerr.Error); ok {
		return fe.WithPath(path)
	}
	return xerr.NewError(xerr.KindOther, err.Error(), err).WithPath(path)
}
