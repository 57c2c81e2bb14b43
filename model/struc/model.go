package struc

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
)

const (
	// DefaultMarkerTag is the struct tag that carries per-field generator options.
	DefaultMarkerTag = "assert"
	SkipValue        = "skip"
	SkipShortValue   = "-"
)

type (
	TagName   = string
	TagValue  = string
	FieldName = string
	FieldType struct {
		Embedded bool
		RefDeep  int
		Name     string
		Type     types.Type
		Pos      token.Pos
	}

	// Model struct type model.
	Model struct {
		Typ            *types.Named
		TypFile        *ast.File
		FieldsTagValue map[FieldName]map[TagName]TagValue
		TagsFieldValue map[TagName]map[FieldName]TagValue
		FieldNames     []FieldName
		FieldsType     map[FieldName]FieldType
	}

	// Field is the generator's view of a struct field.
	Field struct {
		Name FieldName
		Type FieldType
		Tags map[TagName]TagValue
		Skip bool
	}
)

func (m *Model) FieldsNameAndType(yield func(FieldName, FieldType) bool) {
	if m != nil {
		for _, fn := range m.FieldNames {
			if !yield(fn, m.FieldsType[fn]) {
				break
			}
		}
	}
}

func (m *Model) Package() *types.Package {
	return m.Typ.Obj().Pkg()
}

func (m *Model) TypeName() string {
	return m.Typ.Obj().Name()
}

func (m *Model) TypeParams() *types.TypeParamList {
	return m.Typ.TypeParams()
}

// Fields returns the fields in declaration order with the skip flag resolved by the marker tag.
func (m *Model) Fields(markerTag TagName) ([]Field, error) {
	fields := make([]Field, 0, len(m.FieldNames))
	for fieldName, fieldType := range m.FieldsNameAndType {
		tags := m.FieldsTagValue[fieldName]
		marker, ok := tags[markerTag]
		skip, err := IsSkipMarker(markerTag, marker, ok)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", m.TypeName(), fieldName, err)
		}
		fields = append(fields, Field{Name: fieldName, Type: fieldType, Tags: tags, Skip: skip})
	}
	return fields, nil
}

// IsSkipMarker interprets a marker tag value; values other than skip markers are rejected.
func IsSkipMarker(markerTag TagName, value TagValue, present bool) (bool, error) {
	if !present {
		return false, nil
	}
	switch value {
	case SkipValue, SkipShortValue:
		return true, nil
	default:
		return false, fmt.Errorf("unrecognized %s tag value %q", markerTag, value)
	}
}

// New - Model's default constructor.
func New(typ *types.Named, typFile *ast.File) (*Model, error) {
	structModel, err := newBuilder().newModel(typ, typFile)
	if err != nil {
		return nil, fmt.Errorf("new model of %s: %w", typ.Obj().Name(), err)
	}
	return structModel, nil
}
