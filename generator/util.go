package generator

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/m4gshm/gollections/predicate/is"
	"github.com/m4gshm/gollections/slice"
)

func badSymbol(ch rune) bool {
	return !('a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' ||
		ch == '_' || ch >= utf8.RuneSelf && (unicode.IsLetter(ch)))
}

func packagePathToName(importPath string) string {
	base := path.Base(importPath)
	pathName := string(slice.Filter([]rune(base), is.Not(badSymbol)))
	return strings.TrimLeftFunc(pathName, unicode.IsDigit)
}

func MethodName(typ, fun string) string { return typ + "." + fun }

func NoLint(nolint bool) string {
	if nolint {
		return " //nolint"
	}
	return ""
}

func IsExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// TypeReceiverVar returns a short receiver name: the first letter of the type name in lower case.
func TypeReceiverVar(typeName string) string {
	if parts := strings.Split(typeName, "."); len(parts) > 1 {
		if converted := slice.Convert(parts, TypeReceiverVar); len(converted) > 1 {
			if len(parts[1]) > 0 {
				return converted[1]
			} else if len(parts[0]) > 0 {
				return converted[0]
			}
		}
	} else if f, ok := slice.First([]rune(typeName), unicode.IsLetter); ok {
		return string(unicode.ToLower(f))
	}
	return "r"
}
