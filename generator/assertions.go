package generator

import (
	"go/types"
	"strconv"

	"github.com/m4gshm/gollections/op"
	"github.com/pkg/errors"

	"github.com/m4gshm/fieldassert/assertion"
	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/struc"
	"github.com/m4gshm/fieldassert/typeparams"
	"github.com/m4gshm/fieldassert/unique"
)

const AssertionPkgPath = "github.com/m4gshm/fieldassert/assertion"

var AllKinds = []assertion.Kind{assertion.KindEq, assertion.KindNe, assertion.KindSatisfies}

// AssertOptions configures generated assertion methods.
type AssertOptions struct {
	Kinds         []assertion.Kind
	Namer         *MethodNamer
	RefArgs       bool
	ValueReceiver bool
	Nolint        bool
}

type assertMethodContext struct {
	pkg          string
	typeName     string
	receiverVar  string
	receiverType string
	expectedVar  string
	predicateVar string
	refArgs      bool
	nolint       bool
}

// GenerateAssertions adds the assertion methods of the not skipped fields and returns the number of added methods.
func (g *Generator) GenerateAssertions(model *struc.Model, fields []struc.Field, opts AssertOptions) (int, error) {
	typeName := model.TypeName()
	if model.Package().Path() != g.OutPkgPath {
		return 0, errors.Errorf("cannot declare methods of the type %s of the package %s in the package %s", typeName, model.Package().Path(), g.OutPkgPath)
	}
	namer := opts.Namer
	if namer == nil {
		var err error
		if namer, err = NewMethodNamer(DefaultNameTemplate); err != nil {
			return 0, err
		}
	}
	kinds := op.IfElse(len(opts.Kinds) == 0, AllKinds, opts.Kinds)
	if !hasRetained(fields) {
		logger.Warnf("type %s: all fields are skipped", typeName)
		return 0, nil
	}

	params := typeparams.New(model.TypeParams(), nil)
	paramNames := params.Names()
	localNames := unique.NewNamesWith(unique.PreInit(append(paramNames, g.ImportAliases()...)...))
	ctx := assertMethodContext{
		typeName:     typeName,
		receiverVar:  localNames.Get(TypeReceiverVar(typeName)),
		expectedVar:  localNames.Get("expected"),
		predicateVar: localNames.Get("predicate"),
		refArgs:      opts.RefArgs,
		nolint:       opts.Nolint,
	}
	g.Reserve(append(paramNames, ctx.receiverVar, ctx.expectedVar, ctx.predicateVar)...)
	pkgAlias, err := g.AddImport(AssertionPkgPath, "assertion")
	if err != nil {
		return 0, err
	}
	ctx.pkg = op.IfElse(len(pkgAlias) > 0, pkgAlias+".", "")
	ctx.receiverType = op.IfElse(opts.ValueReceiver, "", "*") + typeName + params.IdentString()

	logger.Debugf("generate assertions: type %s%s, receiver %s %s, kinds %v", typeName,
		typeparams.New(model.TypeParams(), types.RelativeTo(model.Package())).DeclarationString(), ctx.receiverVar, ctx.receiverType, kinds)
	count := 0
	for _, field := range fields {
		if field.Skip {
			logger.Debugf("skip field %s.%s", typeName, field.Name)
			continue
		}
		fieldType := g.TypeString(field.Type.Type)
		eq, ne := compareFuncs(field.Type.Type)
		for _, kind := range kinds {
			methodName, err := namer.Name(typeName, field.Name, kind)
			if err != nil {
				return 0, err
			} else if err := g.checkCollision(model, methodName); err != nil {
				return 0, err
			}
			var body string
			switch kind {
			case assertion.KindEq:
				body = ctx.compareMethod(methodName, field.Name, fieldType, eq, kind)
			case assertion.KindNe:
				body = ctx.compareMethod(methodName, field.Name, fieldType, ne, kind)
			case assertion.KindSatisfies:
				body = ctx.satisfiesMethod(methodName, field.Name, fieldType)
			default:
				return 0, errors.Errorf("unsupported assertion kind '%s'", kind)
			}
			if err := g.AddMethod(typeName, methodName, body); err != nil {
				return 0, err
			}
			count++
		}
	}
	return count, nil
}

func (c assertMethodContext) signature(methodName, arg, argType string) string {
	return "func (" + c.receiverVar + " " + c.receiverType + ") " + methodName + "(" + arg + " " + argType + ") " +
		c.receiverType + " {" + NoLint(c.nolint) + "\n"
}

func (c assertMethodContext) label(fieldName string) string {
	return strconv.Quote(c.typeName + "." + fieldName)
}

func (c assertMethodContext) compareMethod(methodName, fieldName, fieldType, check string, kind assertion.Kind) string {
	argType := op.IfElse(c.refArgs, "*", "") + fieldType
	expected := op.IfElse(c.refArgs, "*", "") + c.expectedVar
	nilGuard := ""
	if c.refArgs {
		nilGuard = c.pkg + "NotNilRef(" + c.expectedVar + ", " + c.pkg + kindConst(kind) + ", " + c.label(fieldName) + ")\n"
	}
	return c.signature(methodName, c.expectedVar, argType) + nilGuard +
		c.pkg + check + "(" + c.receiverVar + "." + fieldName + ", " + expected + ", " + c.label(fieldName) + ")\n" +
		"return " + c.receiverVar + "\n}\n"
}

func (c assertMethodContext) satisfiesMethod(methodName, fieldName, fieldType string) string {
	argType := "func(" + op.IfElse(c.refArgs, "*", "") + fieldType + ") bool"
	field := c.receiverVar + "." + fieldName
	return c.signature(methodName, c.predicateVar, argType) +
		c.pkg + "Satisfies(" + c.predicateVar + "(" + op.IfElse(c.refArgs, "&", "") + field + "), " + field + ", " + c.label(fieldName) + ")\n" +
		"return " + c.receiverVar + "\n}\n"
}

// checkCollision rejects a method name already used by a field or method of the type declared outside the generated file.
func (g *Generator) checkCollision(model *struc.Model, methodName string) error {
	obj, index, _ := types.LookupFieldOrMethod(types.NewPointer(model.Typ), true, model.Package(), methodName)
	if obj == nil || len(index) != 1 || !g.IsDeclaredOutside(obj) {
		return nil
	}
	kind := op.IfElse(isField(obj), "field", "method")
	return errors.Errorf("generated method %s.%s collides with the %s declared at %s",
		model.TypeName(), methodName, kind, g.position(obj))
}

func (g *Generator) position(obj types.Object) string {
	if g.fileSet == nil {
		return "unknown position"
	}
	return g.fileSet.Position(obj.Pos()).String()
}

func hasRetained(fields []struc.Field) bool {
	for _, field := range fields {
		if !field.Skip {
			return true
		}
	}
	return false
}

func isField(obj types.Object) bool {
	v, ok := obj.(*types.Var)
	return ok && v.IsField()
}

func kindConst(kind assertion.Kind) string {
	return op.IfElse(kind == assertion.KindNe, "KindNe", "KindEq")
}

// compareFuncs returns the assertion functions of the eq and ne checks of the type.
func compareFuncs(typ types.Type) (string, string) {
	if HasEqualMethod(typ) {
		return "Equivalent", "NotEquivalent"
	} else if IsComparable(typ) {
		return "Equal", "NotEqual"
	}
	return "DeepEqual", "NotDeepEqual"
}

// IsComparable reports whether values of the type can be checked by the == operator without a run time panic risk.
// Interfaces, and structs or arrays with interface components, are compared deeply since their dynamic values may be not comparable.
// Type parameters satisfied by interfaces are handled by assertion.Equal itself.
func IsComparable(typ types.Type) bool {
	typ = types.Unalias(typ)
	if _, ok := typ.(*types.TypeParam); ok {
		return types.Comparable(typ)
	}
	return types.Comparable(typ) && !hasInterface(typ, map[types.Type]struct{}{})
}

func hasInterface(typ types.Type, visited map[types.Type]struct{}) bool {
	if _, ok := visited[typ]; ok {
		return false
	}
	visited[typ] = struct{}{}
	switch t := types.Unalias(typ).Underlying().(type) {
	case *types.Interface:
		return !isTypeParam(typ)
	case *types.Array:
		return hasInterface(t.Elem(), visited)
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			if hasInterface(t.Field(i).Type(), visited) {
				return true
			}
		}
	}
	return false
}

func isTypeParam(typ types.Type) bool {
	_, ok := types.Unalias(typ).(*types.TypeParam)
	return ok
}

// HasEqualMethod reports whether the type declares the value receiver method Equal(T) bool, like time.Time.
func HasEqualMethod(typ types.Type) bool {
	typ = types.Unalias(typ)
	switch typ.Underlying().(type) {
	case *types.Interface, *types.Pointer:
		return false
	}
	sel := types.NewMethodSet(typ).Lookup(nil, "Equal")
	if sel == nil {
		return false
	}
	sig, ok := sel.Type().(*types.Signature)
	if !ok || sig.Variadic() || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	return types.Identical(sig.Params().At(0).Type(), typ) && types.Identical(sig.Results().At(0).Type(), types.Typ[types.Bool])
}
