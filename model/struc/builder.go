package struc

import (
	"fmt"
	"go/ast"
	"go/types"
	"reflect"

	"github.com/m4gshm/gollections/convert/as"
	"github.com/m4gshm/gollections/map_"
	"github.com/m4gshm/gollections/slice"

	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/util"
)

type structModelBuilder struct {
	model *Model
}

func newBuilder() *structModelBuilder {
	return &structModelBuilder{}
}

func (b *structModelBuilder) populateTags(fieldName FieldName, tagName TagName, tagValue TagValue) {
	tagFields, tagFieldsOk := b.model.TagsFieldValue[tagName]
	if !tagFieldsOk {
		tagFields = make(map[FieldName]TagValue)
		b.model.TagsFieldValue[tagName] = tagFields
	}
	tagFields[fieldName] = tagValue
}

func (b *structModelBuilder) populateFields(fldName FieldName, fieldTagNames []TagName, tagValues map[TagName]TagValue) {
	fieldTagValues := slice.Map(fieldTagNames, as.Is[TagName], map_.Getter(tagValues))
	if len(fieldTagValues) > 0 {
		b.model.FieldsTagValue[fldName] = fieldTagValues
	}
}

func (b *structModelBuilder) populateByStruct(typ *types.Struct) error {
	numFields := typ.NumFields()
	for i := 0; i < numFields; i++ {
		fieldVar := typ.Field(i)
		if !fieldVar.IsField() {
			return fmt.Errorf("unexpected struct element, must be field, value %v, type %v", fieldVar, reflect.TypeOf(fieldVar))
		}
		fldName := fieldVar.Name()
		if len(fldName) == 0 {
			return fmt.Errorf("field name must be present, position %d", i)
		} else if fldName == "_" {
			logger.Debugf("skip blank field %s, position %d", b.model.TypeName(), i)
			continue
		}
		if _, ok := b.model.FieldsType[fldName]; ok {
			return fmt.Errorf("duplicated field '%s'", fldName)
		}
		b.model.FieldNames = append(b.model.FieldNames, fldName)

		tagValues, fieldTagNames := parseTagValues(typ.Tag(i))
		b.populateFields(fldName, fieldTagNames, tagValues)
		for _, fieldTagName := range fieldTagNames {
			b.populateTags(fldName, fieldTagName, tagValues[fieldTagName])
		}
		fieldType := fieldVar.Type()
		_, ref := util.GetTypeUnderPointer(types.Unalias(fieldType))
		logger.Debugf("field %s.%s, type %v, refs %d", b.model.TypeName(), fldName, fieldType, ref)
		b.model.FieldsType[fldName] = FieldType{
			Embedded: fieldVar.Embedded(), RefDeep: ref, Name: fieldType.String(), Type: fieldType, Pos: fieldVar.Pos(),
		}
	}
	return nil
}

func (b *structModelBuilder) newModel(typ *types.Named, typFile *ast.File) (*Model, error) {
	typName := typ.Obj().Name()
	typStruct, rc := util.GetTypeStruct(typ)
	if typStruct == nil {
		return nil, fmt.Errorf("'%s' is not a struct type", typName)
	} else if rc > 0 {
		return nil, fmt.Errorf("'%s' is a pointer type; methods can be declared on struct types only", typName)
	}

	b.model = &Model{
		Typ:            typ,
		TypFile:        typFile,
		FieldsTagValue: map[FieldName]map[TagName]TagValue{},
		TagsFieldValue: map[TagName]map[FieldName]TagValue{},
		FieldNames:     []FieldName{},
		FieldsType:     map[FieldName]FieldType{},
	}
	if err := b.populateByStruct(typStruct); err != nil {
		return nil, err
	}
	return b.model, nil
}
