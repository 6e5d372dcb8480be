package execctx

import (
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/zackangelo/phoebus/value"
	"github.com/zackangelo/phoebus/xerr"
)

// ValueFromAST converts a parsed AST literal (or variable reference) into a value.Value, resolving
// variable references against variables. This is used both for field/directive argument values and
// for input-object/list literals nested inside them.
func ValueFromAST(astVal *ast.Value, variables map[string]value.Value) (value.Value, error) {
	if astVal == nil {
		return value.Null, nil
	}

	switch astVal.Kind {
	case ast.Variable:
		v, ok := variables[astVal.Raw]
		if !ok {
			return value.Null, nil
		}
		return v, nil

	case ast.NullValue:
		return value.Null, nil

	case ast.IntValue:
		i, err := strconv.ParseInt(astVal.Raw, 10, 64)
		if err != nil {
			return value.Null, xerr.NewError(xerr.KindTypeMismatch, "invalid integer literal "+astVal.Raw, err)
		}
		return value.NewInt(i), nil

	case ast.FloatValue:
		f, err := strconv.ParseFloat(astVal.Raw, 64)
		if err != nil {
			return value.Null, xerr.NewError(xerr.KindTypeMismatch, "invalid float literal "+astVal.Raw, err)
		}
		return value.NewFloat(f), nil

	case ast.StringValue, ast.BlockValue:
		return value.NewString(astVal.Raw), nil

	case ast.BooleanValue:
		b, err := strconv.ParseBool(astVal.Raw)
		if err != nil {
			return value.Null, xerr.NewError(xerr.KindTypeMismatch, "invalid boolean literal "+astVal.Raw, err)
		}
		return value.NewBoolean(b), nil

	case ast.EnumValue:
		return value.NewEnum(value.NewName(astVal.Raw)), nil

	case ast.ListValue:
		elems := make([]value.Value, len(astVal.Children))
		for i, child := range astVal.Children {
			elem, err := ValueFromAST(child.Value, variables)
			if err != nil {
				return value.Null, err
			}
			elems[i] = elem
		}
		return value.NewList(elems), nil

	case ast.ObjectValue:
		b := value.NewObjectBuilder()
		for _, child := range astVal.Children {
			elem, err := ValueFromAST(child.Value, variables)
			if err != nil {
				return value.Null, err
			}
			b.Set(value.NewName(child.Name), elem)
		}
		return value.NewObject(b.Build()), nil
	}

	return value.Null, xerr.NewError(xerr.KindTypeMismatch, "unsupported AST value kind", nil)
}

// ArgumentValues evaluates the argument list of a field or directive invocation against its
// definition, applying default values for omitted arguments.
func ArgumentValues(argDefs ast.ArgumentDefinitionList, argNodes ast.ArgumentList, variables map[string]value.Value) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(argDefs))

	provided := make(map[string]*ast.Argument, len(argNodes))
	for _, arg := range argNodes {
		provided[arg.Name] = arg
	}

	for _, def := range argDefs {
		node, has := provided[def.Name]
		if !has {
			if def.DefaultValue != nil {
				v, err := ValueFromAST(def.DefaultValue, variables)
				if err != nil {
					return nil, err
				}
				out[def.Name] = v
			}
			continue
		}

		v, err := ValueFromAST(node.Value, variables)
		if err != nil {
			return nil, err
		}
		out[def.Name] = v
	}

	return out, nil
}

// DirectiveArgBool evaluates the boolean "if" argument of a @skip/@include directive occurrence.
func DirectiveArgBool(directive *ast.Directive, variables map[string]value.Value) (bool, error) {
	for _, arg := range directive.Arguments {
		if arg.Name != "if" {
			continue
		}
		v, err := ValueFromAST(arg.Value, variables)
		if err != nil {
			return false, err
		}
		if v.Kind() != value.KindBoolean {
			return false, xerr.NewError(xerr.KindDirectiveArgumentInvalid,
				"@"+directive.Name+"(if:) must be a boolean", nil)
		}
		return v.Boolean(), nil
	}
	return false, xerr.NewError(xerr.KindDirectiveArgumentInvalid,
		"@"+directive.Name+" requires an \"if\" argument", nil)
}
