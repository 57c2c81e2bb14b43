package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/pkg/errors"

	"github.com/m4gshm/fieldassert/logger"
	"github.com/m4gshm/fieldassert/model/util"
	"github.com/m4gshm/fieldassert/unique"
)

// Generator collects the methods of one output file together with the imports they need.
type Generator struct {
	name       string
	args       []string
	OutPkgName string
	OutPkgPath string
	OutFile    string
	fileSet    *token.FileSet

	methodNames  *mutable.Set[string]
	methodOrder  []string
	methodBodies map[string]string
	imports      map[string]importEntry
	importNames  *unique.Names
}

type importEntry struct {
	alias string
	name  string
}

// New creates a generator of the file outFile of the package outPkg.
// The package scope names of outPkg are reserved so that import aliases never shadow them.
func New(name string, args []string, outPkgName, outPkgPath, outFile string, fileSet *token.FileSet, outPkg *types.Package) *Generator {
	reserved := []string{}
	if outPkg != nil {
		reserved = outPkg.Scope().Names()
	}
	return &Generator{
		name:         name,
		args:         args,
		OutPkgName:   outPkgName,
		OutPkgPath:   outPkgPath,
		OutFile:      outFile,
		fileSet:      fileSet,
		methodNames:  mutable.NewSet[string](),
		methodBodies: map[string]string{},
		imports:      map[string]importEntry{},
		importNames:  unique.NewNamesWith(unique.PreInit(reserved...)),
	}
}

// AddImport registers the package and returns the identifier the generated code must use to refer to it.
func (g *Generator) AddImport(pkgPath, name string) (string, error) {
	if len(pkgPath) == 0 {
		return "", errors.New("empty import path")
	} else if pkgPath == g.OutPkgPath {
		return "", nil
	} else if imp, ok := g.imports[pkgPath]; ok {
		return imp.alias, nil
	}
	if len(name) == 0 {
		name = packagePathToName(util.GetPackageName(pkgPath))
		if len(name) == 0 {
			return "", errors.Errorf("cannot detect package name of import path '%s'", pkgPath)
		}
	}
	alias := g.importNames.Get(name)
	g.imports[pkgPath] = importEntry{alias: alias, name: name}
	logger.Debugf("import %s as %s", pkgPath, alias)
	return alias, nil
}

// Reserve protects local identifiers of generated code from being shadowed by import aliases.
func (g *Generator) Reserve(names ...string) {
	for _, name := range names {
		g.importNames.Add(name)
	}
}

func (g *Generator) ImportAliases() []string {
	aliases := make([]string, 0, len(g.imports))
	for _, imp := range g.imports {
		aliases = append(aliases, imp.alias)
	}
	sort.Strings(aliases)
	return aliases
}

// Qualifier renders package names of types referenced by generated code, registering imports on the way.
func (g *Generator) Qualifier() types.Qualifier {
	return func(p *types.Package) string {
		alias, err := g.AddImport(p.Path(), p.Name())
		if err != nil {
			logger.Warnf("qualifier of package %s: %v", p.Path(), err)
			return p.Name()
		}
		return alias
	}
}

func (g *Generator) TypeString(typ types.Type) string {
	return types.TypeString(typ, g.Qualifier())
}

// AddMethod adds a method body of the type; method names must be unique per type.
func (g *Generator) AddMethod(typeName, methodName, body string) error {
	key := MethodName(typeName, methodName)
	if !g.methodNames.AddNew(key) {
		return errors.Errorf("duplicated method '%s'", key)
	}
	g.methodOrder = append(g.methodOrder, key)
	g.methodBodies[key] = body
	return nil
}

// Methods returns the added methods in the Type.method form, in order of addition.
func (g *Generator) Methods() []string {
	return append([]string(nil), g.methodOrder...)
}

// IsDeclaredOutside reports whether the object is declared in another file than the generated one.
// Objects of the previous generation result are ignored since the file is rewritten.
func (g *Generator) IsDeclaredOutside(obj types.Object) bool {
	if g.fileSet == nil || !obj.Pos().IsValid() {
		return true
	}
	return g.fileSet.Position(obj.Pos()).Filename != g.OutFile
}

func (g *Generator) Empty() bool {
	return len(g.methodOrder) == 0
}

func (g *Generator) Src() []byte {
	out := bytes.Buffer{}
	writer := newWriter(&out)
	writer("// Code generated by '%s'; DO NOT EDIT.\n\n", strings.TrimSpace(g.name+" "+strings.Join(g.args, " ")))
	writer("package %s\n\n", g.OutPkgName)

	if len(g.imports) > 0 {
		paths := make([]string, 0, len(g.imports))
		for path := range g.imports {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		writer("import (\n")
		for _, path := range paths {
			imp := g.imports[path]
			if imp.alias == imp.name && imp.name == util.GetPackageName(path) {
				writer("%s\n", strconv.Quote(path))
			} else {
				writer("%s %s\n", imp.alias, strconv.Quote(path))
			}
		}
		writer(")\n\n")
	}
	for _, key := range g.methodOrder {
		writer("%s\n", g.methodBodies[key])
	}
	return out.Bytes()
}

func (g *Generator) FormatSrc() ([]byte, error) {
	src := g.Src()
	fmtSrc, err := format.Source(src)
	if err != nil {
		return src, errors.Wrapf(err, "format generated code of %s", g.OutFile)
	}
	return fmtSrc, nil
}

func newWriter(buffer *bytes.Buffer) func(format string, args ...any) {
	return func(format string, args ...any) {
		_, _ = fmt.Fprintf(buffer, format, args...)
	}
}
