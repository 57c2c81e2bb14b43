package command

import (
	"github.com/pkg/errors"

	"github.com/m4gshm/fieldassert/generator"
)

// Outputs keeps one generator per output file in order of the first request.
type Outputs struct {
	files      []string
	generators map[string]*generator.Generator
}

func NewOutputs() *Outputs {
	return &Outputs{generators: map[string]*generator.Generator{}}
}

// Get returns the generator of the file, creating it on the first request.
// All requests of a file must belong to the same package.
func (o *Outputs) Get(outFile, pkgPath string, newGenerator func() *generator.Generator) (*generator.Generator, error) {
	if g, ok := o.generators[outFile]; ok {
		if g.OutPkgPath != pkgPath {
			return nil, errors.Errorf("output file %s is already used by the package %s", outFile, g.OutPkgPath)
		}
		return g, nil
	}
	g := newGenerator()
	o.files = append(o.files, outFile)
	o.generators[outFile] = g
	return g, nil
}

func (o *Outputs) All() []*generator.Generator {
	result := make([]*generator.Generator, 0, len(o.files))
	for _, file := range o.files {
		result = append(result, o.generators[file])
	}
	return result
}
