package executor

import (
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/zackangelo/phoebus/xerr"
)

// toQueryError converts the error gqlparser returns from parsing or validating a query document
// into the execution core's own taxonomy, folding a gqlerror.List down to one representative
// *xerr.Error whose message is the first diagnostic's; the full list stays reachable as the wrapped
// cause. This is the error returned directly from Run's early, pre-execution failures, for which
// Run returns no Response.
func toQueryError(err error) *xerr.Error {
	if list, ok := err.(gqlerror.List); ok {
		msg := "query validation failed"
		if len(list) > 0 {
			msg = list[0].Message
		}
		return xerr.NewError(xerr.KindQueryValidation, msg, err)
	}
	return xerr.NewError(xerr.KindQueryValidation, err.Error(), err)
}
