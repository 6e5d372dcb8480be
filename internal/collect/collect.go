// Package collect implements field collection (L4 of the execution core): flattening a selection
// set -- with its fragment spreads, inline fragments, and @skip/@include directives -- into an
// ordered list of response-key groups ready for concurrent resolution.
//
// The algorithm follows the GraphQL spec's CollectFields (June 2018 §6.3.2) in the same recursive,
// depth-first shape the execution core's reference implementation uses: fields sharing a response
// key are coalesced into a single group regardless of where in the selection tree they occur, and
// fragment spreads are visited at most once per collection to guard against cycles.
package collect

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/execctx"
	"github.com/zackangelo/phoebus/schema"
	"github.com/zackangelo/phoebus/xerr"
)

// Group is every field occurrence in a selection set contributing to a single response key, plus
// the schema field definition they share (fields at the same response key under the same parent
// type must reference the same schema field by GraphQL validation, so one FieldDef suffices).
type Group struct {
	ResponseKey string
	FieldDef    *schema.FieldDef
	Fields      []*ast.Field
}

// CollectFields flattens selectionSet -- recursing through inline fragments and named fragment
// spreads that apply to runtimeTypeName, honoring @skip/@include -- into an ordered slice of
// Groups, one per distinct response key, in first-seen order. runtimeTypeName is the concrete
// object type being resolved (already chosen for abstract fields by the caller), so type
// conditions are tested against it directly.
func CollectFields(ec *execctx.ExecCtx, sch *schema.Schema, runtimeTypeName string, selectionSet ast.SelectionSet) ([]*Group, error) {
	c := &collector{
		ec:               ec,
		schema:           sch,
		runtimeTypeName:  runtimeTypeName,
		visitedFragments: map[string]bool{},
		order:            nil,
		groups:           map[string]*Group{},
	}
	if err := c.visit(selectionSet); err != nil {
		return nil, err
	}

	out := make([]*Group, len(c.order))
	for i, key := range c.order {
		out[i] = c.groups[key]
	}
	return out, nil
}

type collector struct {
	ec              *execctx.ExecCtx
	schema          *schema.Schema
	runtimeTypeName string

	visitedFragments map[string]bool
	order            []string
	groups           map[string]*Group
}

func (c *collector) visit(selectionSet ast.SelectionSet) error {
	for _, selection := range selectionSet {
		include, err := c.shouldInclude(selection)
		if err != nil {
			return err
		}
		if !include {
			continue
		}

		switch sel := selection.(type) {
		case *ast.Field:
			if err := c.visitField(sel); err != nil {
				return err
			}

		case *ast.InlineFragment:
			if sel.TypeCondition != "" && !c.satisfiesTypeCondition(sel.TypeCondition) {
				continue
			}
			if err := c.visit(sel.SelectionSet); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			name := sel.Name
			if c.visitedFragments[name] {
				continue
			}
			c.visitedFragments[name] = true

			frag, ok := c.ec.Fragment(name)
			if !ok {
				return xerr.NewError(xerr.KindFragmentNotFound, "unknown fragment \""+name+"\"", nil)
			}
			if !c.satisfiesTypeCondition(frag.TypeCondition) {
				continue
			}
			if err := c.visit(frag.SelectionSet); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *collector) visitField(sel *ast.Field) error {
	key := sel.Alias
	if key == "" {
		key = sel.Name
	}

	if existing, ok := c.groups[key]; ok {
		existing.Fields = append(existing.Fields, sel)
		return nil
	}

	fieldDef, ok := c.schema.FieldDef(c.runtimeTypeName, sel.Name)
	if !ok {
		// Per spec §3.c of ExecuteSelectionSet(), a field referencing a type's own fields that the
		// runtime type doesn't declare (possible for inline fragments/fragment spreads on interfaces
		// and unions whose concrete type lacks the field) is silently skipped, not an error.
		return nil
	}

	c.groups[key] = &Group{
		ResponseKey: key,
		FieldDef:    fieldDef,
		Fields:      []*ast.Field{sel},
	}
	c.order = append(c.order, key)
	return nil
}

func (c *collector) satisfiesTypeCondition(typeCondition string) bool {
	if typeCondition == c.runtimeTypeName {
		return true
	}
	return c.schema.IsSubtype(c.runtimeTypeName, typeCondition)
}

// shouldInclude evaluates @skip and @include on a selection; @skip takes precedence, matching
// https://spec.graphql.org/June2018/#sec--include.
func (c *collector) shouldInclude(selection ast.Selection) (bool, error) {
	directives := directivesOf(selection)

	if d := directives.ForName("skip"); d != nil {
		skip, err := execctx.DirectiveArgBool(d, c.ec.Variables())
		if err != nil {
			return false, err
		}
		if skip {
			return false, nil
		}
	}

	if d := directives.ForName("include"); d != nil {
		include, err := execctx.DirectiveArgBool(d, c.ec.Variables())
		if err != nil {
			return false, err
		}
		if !include {
			return false, nil
		}
	}

	return true, nil
}

func directivesOf(selection ast.Selection) ast.DirectiveList {
	switch sel := selection.(type) {
	case *ast.Field:
		return sel.Directives
	case *ast.InlineFragment:
		return sel.Directives
	case *ast.FragmentSpread:
		return sel.Directives
	}
	return nil
}
