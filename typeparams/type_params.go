package typeparams

import (
	"go/types"

	"github.com/m4gshm/gollections/op/delay/string_/join"
	"github.com/m4gshm/gollections/op/string_"
	"github.com/m4gshm/gollections/seq"
	"github.com/m4gshm/gollections/slice"
)

// TypeParams renders a type parameter list for generated receivers and declarations.
type TypeParams struct {
	seq.Seq[*types.TypeParam]
	qualifier types.Qualifier
}

func New(tparams *types.TypeParamList, qualifier types.Qualifier) TypeParams {
	return TypeParams{Seq: seq.OfIndexed(tparams.Len(), tparams.At), qualifier: qualifier}
}

func (params TypeParams) Names() []string {
	return slice.Convert(params.Slice(), func(elem *types.TypeParam) string {
		if elem == nil {
			return "/*error: nil type parameter*/"
		}
		return elem.Obj().Name()
	})
}

// IdentString returns the receiver form of the list, e.g. "[K, V]", or an empty string for non generic types.
func (params TypeParams) IdentString() string {
	return string_.WrapNonEmpty("[", slice.Reduce(params.Names(), join.NonEmpty(", ")), "]")
}

// DeclarationString returns the declaration form of the list with constraints, e.g. "[K comparable, V any]".
func (params TypeParams) DeclarationString() string {
	decls := slice.Convert(params.Slice(), func(elem *types.TypeParam) string {
		if elem == nil {
			return "/*error: nil type parameter*/"
		}
		return elem.Obj().Name() + " " + types.TypeString(elem.Constraint(), params.qualifier)
	})
	return string_.WrapNonEmpty("[", slice.Reduce(decls, join.NonEmpty(", ")), "]")
}
