package generator

import (
	"bytes"
	"go/token"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/m4gshm/fieldassert/assertion"
)

const DefaultNameTemplate = "{{.Field}}_{{.Kind}}"

// NameData is the data of a method name template.
type NameData struct {
	Type  string
	Field string
	Kind  string
}

// MethodNamer builds assertion method names by a text template with sprig functions.
type MethodNamer struct {
	tmpl *template.Template
}

func NewMethodNamer(nameTemplate string) (*MethodNamer, error) {
	if len(nameTemplate) == 0 {
		nameTemplate = DefaultNameTemplate
	}
	tmpl, err := template.New("name").Option("missingkey=error").Funcs(sprig.TxtFuncMap()).Parse(nameTemplate)
	if err != nil {
		return nil, errors.Wrapf(err, "parse method name template '%s'", nameTemplate)
	}
	return &MethodNamer{tmpl: tmpl}, nil
}

func (n *MethodNamer) Name(typeName, fieldName string, kind assertion.Kind) (string, error) {
	buf := bytes.Buffer{}
	if err := n.tmpl.Execute(&buf, NameData{Type: typeName, Field: fieldName, Kind: string(kind)}); err != nil {
		return "", errors.Wrapf(err, "method name of field %s.%s", typeName, fieldName)
	}
	name := buf.String()
	if !token.IsIdentifier(name) {
		return "", errors.Errorf("invalid method name '%s' of field %s.%s", name, typeName, fieldName)
	}
	return name, nil
}
