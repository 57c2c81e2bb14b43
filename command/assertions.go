package command

import (
	"flag"

	"github.com/m4gshm/flag/flagenum"
	"github.com/m4gshm/gollections/collection/immutable"

	"github.com/m4gshm/fieldassert/assertion"
	"github.com/m4gshm/fieldassert/generator"
	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/struc"
	"github.com/m4gshm/fieldassert/params"
	"github.com/m4gshm/fieldassert/use"
)

const AssertName = "assert"

func toString[F ~string](from F) string { return string(from) }
func fromString[F ~string](s string) F  { return F(s) }

func NewAssertions() *Command {
	var (
		flagSet       = flag.NewFlagSet(AssertName, flag.ContinueOnError)
		markerTag     = flagSet.String("tag", struc.DefaultMarkerTag, "struct tag that marks skipped fields (values: "+struc.SkipValue+", "+struc.SkipShortValue+")")
		excludes      = params.MultiVal(flagSet, "exclude", []string{}, "excluded field")
		filter        = flagSet.String("filter", "", "field filter expression, variables: name, type, exported, embedded, pointer, comparable, tag")
		nameTemplate  = flagSet.String("name", generator.DefaultNameTemplate, "method name template, variables: .Type, .Field, .Kind")
		refArgs       = flagSet.Bool("ref-args", false, "pass expected values and predicate arguments by pointer")
		noRefReceiver = flagSet.Bool("no-ref", false, "use value type (not pointer) for methods receiver")
		nolint        = params.Nolint(flagSet)
	)
	kinds, err := flagenum.Multiple(flagSet, "api", generator.AllKinds, generator.AllKinds, fromString[assertion.Kind], toString[assertion.Kind], "generated assertion methods")
	if err != nil {
		panic(err)
	}

	return New(
		AssertName, "generates fluent field assertion methods for a structure type",
		flagSet,
		func(context *Context) error {
			model, err := context.StructModel()
			if err != nil {
				return err
			}
			g, err := context.Generator()
			if err != nil {
				return err
			}
			fields, err := model.Fields(*markerTag)
			if err != nil {
				return use.Err(err.Error())
			}
			fieldFilter, err := NewFieldFilter(*filter)
			if err != nil {
				return err
			}
			if fields, err = selectFields(model, fields, *excludes, fieldFilter); err != nil {
				return err
			}
			namer, err := generator.NewMethodNamer(*nameTemplate)
			if err != nil {
				return use.Err(err.Error())
			}
			count, err := g.GenerateAssertions(model, fields, generator.AssertOptions{
				Kinds:         *kinds,
				Namer:         namer,
				RefArgs:       *refArgs,
				ValueReceiver: *noRefReceiver,
				Nolint:        *nolint,
			})
			if err != nil {
				return err
			}
			logger.Debugf("type %s: %d assertion methods", model.TypeName(), count)
			return nil
		},
	)
}

// selectFields marks as skipped the fields excluded by name or rejected by the filter.
func selectFields(model *struc.Model, fields []struc.Field, excludes []string, filter *FieldFilter) ([]struc.Field, error) {
	excluded := immutable.NewSet(excludes...)
	for _, exclude := range excludes {
		if _, ok := model.FieldsType[exclude]; !ok {
			return nil, use.Errf("excluded field %s.%s not found", model.TypeName(), exclude)
		}
	}
	for i, field := range fields {
		if field.Skip {
			continue
		} else if excluded.Contains(field.Name) {
			logger.Debugf("exclude field %s.%s", model.TypeName(), field.Name)
			fields[i].Skip = true
		} else if ok, err := filter.Accept(field); err != nil {
			return nil, err
		} else if !ok {
			logger.Debugf("filter out field %s.%s", model.TypeName(), field.Name)
			fields[i].Skip = true
		}
	}
	return fields, nil
}
