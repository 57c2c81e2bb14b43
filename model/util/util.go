package util

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4gshm/gollections/c"
	"github.com/m4gshm/gollections/collection/mutable/ordered"
	"github.com/m4gshm/gollections/collection/mutable/ordered/set"
	"github.com/m4gshm/gollections/expr/use"
	"github.com/m4gshm/gollections/op"
	"github.com/m4gshm/gollections/slice"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/fieldassert/logger"
)

const packageMode = packages.NeedSyntax | packages.NeedName | packages.NeedTypesInfo | packages.NeedTypes | packages.NeedModule | packages.NeedForTest

func ExtractPackages(fileSet *token.FileSet, buildTags []string, fileName string) (*ordered.Set[*packages.Package], error) {
	if dir, err := GetDir(fileName); err != nil {
		return nil, err
	} else if pkgs, err := packages.Load(&packages.Config{
		Dir:        dir,
		Fset:       fileSet,
		Mode:       packageMode,
		BuildFlags: buildTagsArg(buildTags),
		Tests:      true,
		Logf:       func(format string, args ...any) { logger.Debugf("packagesLoad: "+format, args...) },
	}, "."); err != nil {
		return nil, err
	} else {
		for _, pkg := range pkgs {
			if len(pkg.Errors) > 0 {
				logger.Debugf("package %s error; %v", pkg.ID, pkg.Errors[0])
			}
		}
		return set.Of(pkgs...), nil
	}
}

func buildTagsArg(buildTags []string) []string {
	return []string{fmt.Sprintf("-tags=%s", strings.Join(buildTags, " "))}
}

func GetDir(fileName string) (string, error) {
	fileStat, err := os.Stat(fileName)
	isNoExists := errors.Is(err, os.ErrNotExist)
	if !isNoExists && err != nil {
		return "", err
	}
	return use.If(!isNoExists && fileStat.IsDir(), fileName).ElseGet(func() string { return filepath.Dir(fileName) }), nil
}

// FindTypePackageFile looks up the named type in the packages and returns it with the declaring package and file.
func FindTypePackageFile(typeName string, fileSet *token.FileSet, pkgs c.Range[*packages.Package]) (*types.Named, *packages.Package, string, *ast.File, error) {
	for pkg := range pkgs.All {
		if pkg.Types == nil {
			continue
		} else if lookup := pkg.Types.Scope().Lookup(typeName); lookup == nil {
			logger.Debugf("no type '%s' in package '%s'", typeName, pkg.Types.Name())
			continue
		} else if _, ok := lookup.(*types.TypeName); !ok {
			return nil, nil, "", nil, fmt.Errorf("'%s' is not a type", typeName)
		} else if typeNamed := GetTypeNamed(lookup.Type()); typeNamed == nil {
			return nil, nil, "", nil, fmt.Errorf("cannot detect type '%s'", typeName)
		} else if typeNamed.Obj().Pkg() != pkg.Types {
			return nil, nil, "", nil, fmt.Errorf("type '%s' is declared in the foreign package '%s'", typeName, typeNamed.Obj().Pkg().Path())
		} else {
			logger.Debugf("look package '%s', syntax file count %d", pkg.Name, len(pkg.Syntax))
			filePath, typFile, err := FindTypeFile(typeNamed, fileSet, pkg.Syntax)
			return typeNamed, pkg, filePath, typFile, err
		}
	}
	return nil, nil, "", nil, nil
}

func FindTypeFile(typeNamed *types.Named, fileSet *token.FileSet, files []*ast.File) (string, *ast.File, error) {
	typeObj := typeNamed.Obj()
	typTokenFile := fileSet.File(typeObj.Pos())
	if typTokenFile == nil {
		return "", nil, fmt.Errorf("type's file not found: type %s", typeObj.Id())
	}

	typFile, ok := slice.First(files, func(p *ast.File) bool {
		start := typTokenFile.Base()
		return p.FileStart == token.Pos(start) && p.FileEnd == token.Pos(start+typTokenFile.Size())
	})

	f, err := op.IfElseGetErr(ok, typFile, func() error { return fmt.Errorf("type's file not found: type %s", typeObj.Id()) })
	if err == nil {
		logger.Debugf("found type file (type [%s], file [%s])'", typeObj.Id(), typTokenFile.Name())
	}
	return typTokenFile.Name(), f, err
}

// GetTypeNamed returns the named type behind an alias chain, nil for other types.
func GetTypeNamed(typ types.Type) *types.Named {
	named, _ := types.Unalias(typ).(*types.Named)
	return named
}

func GetTypeUnderPointer(typ types.Type) (types.Type, int) {
	switch ftt := typ.(type) {
	case *types.Pointer:
		t, p := GetTypeUnderPointer(ftt.Elem())
		return t, p + 1
	default:
		return typ, 0
	}
}

func GetTypeStruct(t types.Type) (*types.Struct, int) {
	return getType[*types.Struct](t, 1000)
}

func getType[T types.Type](t types.Type, depth int) (T, int) {
	if depth < 0 {
		panic(fmt.Sprintf("getType overflow %v", t))
	}
	var zero T
	switch tt := t.(type) {
	case T:
		return tt, 0
	case *types.Pointer:
		s, pc := getType[T](tt.Elem(), depth-1)
		return s, pc + 1
	case *types.Named, *types.Alias:
		return getType[T](tt.Underlying(), depth-1)
	default:
		return zero, 0
	}
}

func GetPackageName(pkgPath string) string {
	j := len(pkgPath)
	i := j - 1
	for ; i >= 0; i-- {
		if pkgPath[i] == '/' {
			part := pkgPath[i+1 : j]
			if !isVersionElement(part) {
				return part
			}
			j = i
		}
	}
	return pkgPath[i+1 : j]
}

// isVersionElement reports whether s is a well-formed path version element:
// v2, v3, v10, etc, but not v0, v05, v1.
func isVersionElement(pkgName string) bool {
	if len(pkgName) < 2 || pkgName[0] != 'v' || pkgName[1] == '0' || pkgName[1] == '1' && len(pkgName) == 2 {
		return false
	}
	for i := 1; i < len(pkgName); i++ {
		if pkgName[i] < '0' || '9' < pkgName[i] {
			return false
		}
	}
	return true
}
