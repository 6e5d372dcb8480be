package xerr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Kind classifies an Error per the error taxonomy in the execution core's design: each value names
// one failure mode callers can switch on without parsing the message text.
type Kind int

const (
	// KindOther is used for errors that don't fall into one of the named categories below.
	KindOther Kind = iota
	// KindSchemaValidation is raised by loading a schema document.
	KindSchemaValidation
	// KindQueryValidation is raised before execution begins, from parsing or validating the query.
	KindQueryValidation
	// KindOperationNotFound is raised when the named (or sole anonymous) operation can't be found.
	KindOperationNotFound
	// KindUnsupportedOperation is raised for a subscription operation, which the execution core
	// does not drive (see Non-goals).
	KindUnsupportedOperation
	// KindFragmentNotFound is raised during field collection for an unresolvable fragment spread.
	KindFragmentNotFound
	// KindTypeNotFound is raised when a field's declared type names a type the schema does not
	// define. Field collection does not raise it: a fragment whose type condition names an unknown
	// type is skipped. A __type lookup of an unknown name resolves to null rather than an error.
	KindTypeNotFound
	// KindInvalidFragmentTypeCondition classifies a fragment type condition that names something
	// other than an object, interface, or union type. Field collection does not raise it: it tests
	// a type condition only by name equality and IsSubtype, so such a fragment is skipped.
	KindInvalidFragmentTypeCondition
	// KindDirectiveArgumentInvalid is raised by a malformed @skip/@include argument.
	KindDirectiveArgumentInvalid
	// KindTypeMismatch is raised when a resolver's Resolved shape is inconsistent with the field's
	// declared type.
	KindTypeMismatch
	// KindAbstractTypeUnresolved is raised when an interface/union field's resolver can't name a
	// concrete type satisfying it.
	KindAbstractTypeUnresolved
	// KindFieldResolverError wraps any error value returned (or panicked) from user resolver code.
	KindFieldResolverError
	// KindFieldErrors aggregates one or more per-field errors from a single selection-set task.
	KindFieldErrors
)

func (k Kind) String() string {
	switch k {
	case KindSchemaValidation:
		return "SchemaValidation"
	case KindQueryValidation:
		return "QueryValidation"
	case KindOperationNotFound:
		return "OperationNotFound"
	case KindUnsupportedOperation:
		return "UnsupportedOperation"
	case KindFragmentNotFound:
		return "FragmentNotFound"
	case KindTypeNotFound:
		return "TypeNotFound"
	case KindInvalidFragmentTypeCondition:
		return "InvalidFragmentTypeCondition"
	case KindDirectiveArgumentInvalid:
		return "DirectiveArgumentInvalid"
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindAbstractTypeUnresolved:
		return "AbstractTypeUnresolved"
	case KindFieldResolverError:
		return "FieldResolverError"
	case KindFieldErrors:
		return "FieldErrors"
	default:
		return "Error"
	}
}

// Path is a response path: a sequence of field names (string) and list indices (int), innermost
// first is not used -- outermost first, matching the order fields were descended into.
type Path []interface{}

// String renders a Path as "person.pets[1].name".
func (p Path) String() string {
	var b strings.Builder
	for _, key := range p {
		switch k := key.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(k)
		case int:
			fmt.Fprintf(&b, "[%d]", k)
		}
	}
	return b.String()
}

// Error is the error type produced throughout the execution core. Inspired by the upspin.io
// error-wrapping idiom: a message, a Kind classifying it, an optional response Path, and an
// optional wrapped cause.
type Error struct {
	Message string
	Kind    Kind
	Path    Path
	Err     error
}

var _ error = (*Error)(nil)

// NewError builds an Error, propagating Path from a wrapped *Error when the caller doesn't supply
// its own.
func NewError(kind Kind, message string, cause error) *Error {
	e := &Error{Kind: kind, Message: message, Err: cause}
	if inner, ok := cause.(*Error); ok {
		if e.Path == nil {
			e.Path = inner.Path
		}
		if e.Kind == KindOther {
			e.Kind = inner.Kind
		}
	}
	return e
}

// WithPath returns a copy of e with Path set, used once the field task that owns the failure knows
// its response path.
func (e *Error) WithPath(path Path) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Kind != KindOther {
		b.WriteString(e.Kind.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " (at %s)", e.Path.String())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// RecoverFieldPanic converts a panic recovered from user resolver code into a FieldResolverError,
// including a dump of the recovered value for debugging (mirroring the detail the executor core's
// own diagnostics give for runtime type mismatches).
func RecoverFieldPanic(recovered interface{}) *Error {
	return NewError(KindFieldResolverError,
		fmt.Sprintf("resolver panicked: %s", spew.Sdump(recovered)), nil)
}

// FieldErrors aggregates the errors produced while executing a single selection set, keyed by
// the failing field's response path as rendered by Path.String.
type FieldErrors map[string]*Error

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	var b strings.Builder
	b.WriteString("field errors: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, fe[k].Error())
	}
	return b.String()
}

// Sorted returns fe's errors ordered by their rendered response path, for deterministic wire
// output.
func (fe FieldErrors) Sorted() []*Error {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Error, len(keys))
	for i, k := range keys {
		out[i] = fe[k]
	}
	return out
}
