package command

import (
	"go/token"
	"path/filepath"

	"github.com/m4gshm/gollections/c"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/fieldassert/generator"
	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/struc"
	"github.com/m4gshm/fieldassert/model/util"
	"github.com/m4gshm/fieldassert/params"
	"github.com/m4gshm/fieldassert/use"
)

// ErrNoType is returned when a request doesn't name the processed type.
var ErrNoType = use.Err("no type arg")

// Context is the state of one generation request.
type Context struct {
	Config   *params.Config
	Args     []string
	FileSet  *token.FileSet
	Packages c.Range[*packages.Package]
	Outputs  *Outputs

	model     *struc.Model
	pkg       *packages.Package
	typFile   string
	generator *generator.Generator
}

// StructModel looks up the requested type and builds its model once per request.
func (c *Context) StructModel() (*struc.Model, error) {
	if m := c.model; m != nil {
		return m, nil
	}
	typeName := *c.Config.Type
	if len(typeName) == 0 {
		return nil, ErrNoType
	}
	typ, pkg, typFilePath, typFile, err := util.FindTypePackageFile(typeName, c.FileSet, c.Packages)
	if err != nil {
		return nil, err
	} else if typ == nil {
		return nil, use.Errf("type not found, %s", typeName)
	}
	model, err := struc.New(typ, typFile)
	if err != nil {
		return nil, err
	}
	logger.Debugw("struct model", "type", typeName, "package", pkg.PkgPath, "file", typFilePath)
	c.model, c.pkg, c.typFile = model, pkg, typFilePath
	return model, nil
}

// OutputFile returns the absolute output file path; a relative one is resolved against the directory of the type's file.
func (c *Context) OutputFile() (string, error) {
	if _, err := c.StructModel(); err != nil {
		return "", err
	}
	out := c.Config.OutputFile()
	if !filepath.IsAbs(out) {
		out = filepath.Join(filepath.Dir(c.typFile), out)
	}
	return filepath.Abs(out)
}

// Generator returns the generator of the request output file, shared with other requests of the same file.
func (c *Context) Generator() (*generator.Generator, error) {
	if g := c.generator; g != nil {
		return g, nil
	}
	outFile, err := c.OutputFile()
	if err != nil {
		return nil, err
	}
	pkg := c.pkg
	g, err := c.Outputs.Get(outFile, pkg.PkgPath, func() *generator.Generator {
		return generator.New(params.Name, c.Args, pkg.Name, pkg.PkgPath, outFile, c.FileSet, pkg.Types)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "generator of type %s", *c.Config.Type)
	}
	c.generator = g
	return g, nil
}
