package command

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/m4gshm/fieldassert/generator"
	"github.com/m4gshm/fieldassert/model/struc"
	"github.com/m4gshm/fieldassert/use"
)

// FieldFilter selects struct fields by an expression evaluated against the field properties.
type FieldFilter struct {
	source  string
	program *vm.Program
}

func NewFieldFilter(source string) (*FieldFilter, error) {
	if len(source) == 0 {
		return nil, nil
	}
	program, err := expr.Compile(source, expr.Env(filterEnv(struc.Field{})), expr.AsBool())
	if err != nil {
		return nil, use.Errf("invalid filter expression '%s': %v", source, err)
	}
	return &FieldFilter{source: source, program: program}, nil
}

// Accept reports whether the field passes the filter; a nil filter accepts all fields.
func (f *FieldFilter) Accept(field struc.Field) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, filterEnv(field))
	if err != nil {
		return false, errors.Wrapf(err, "filter '%s' of field %s", f.source, field.Name)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func filterEnv(field struc.Field) map[string]any {
	typ := ""
	isComparable := false
	if field.Type.Type != nil {
		typ = field.Type.Type.String()
		isComparable = generator.IsComparable(field.Type.Type)
	}
	tags := field.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	return map[string]any{
		"name":       field.Name,
		"type":       typ,
		"exported":   generator.IsExported(field.Name),
		"embedded":   field.Type.Embedded,
		"pointer":    field.Type.RefDeep > 0,
		"comparable": isComparable,
		"tag":        tags,
	}
}
