package generator

import (
	"go/token"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/fieldassert/assertion"
	"github.com/m4gshm/fieldassert/model/struc"
	"github.com/m4gshm/fieldassert/model/util"
)

type user struct {
	ID    int
	Name  string
	Score float64 `assert:"skip"`
}

type container[T comparable] struct {
	Value T
}

type box[T any] struct {
	Items []T
	Item  T
}

type event struct {
	At   time.Time
	Tags map[string]string
	Any  any
}

type meta struct {
	V any
}

type money struct {
	Amount int
}

func (m money) Equal(o money) bool { return m.Amount == o.Amount }

type stamp struct {
	Meta   meta
	Pair   [2]any
	Price  money
	Nested struct{ M meta }
	IDs    [2]int
}

type shadow[s any, expected comparable] struct {
	A s
	B expected
}

type collidedField struct {
	ID    int
	ID_eq bool
}

type collidedMethod struct {
	Name string
}

func (c *collidedMethod) Name_ne(string) *collidedMethod { return c }

type allSkipped struct {
	A int `assert:"skip"`
	B int `assert:"-"`
}

func Test_AddImport(t *testing.T) {
	g := New("test", nil, "test", "test", "", nil, nil)

	alias, err := g.AddImport("test", "")
	assert.NoError(t, err)
	assert.Equal(t, "", alias)

	alias, err = g.AddImport("other/test/v2", "")
	assert.NoError(t, err)
	assert.Equal(t, "test", alias)

	//ignore tv2, use existed
	alias, err = g.AddImport("other/test/v2", "tv2")
	assert.NoError(t, err)
	assert.Equal(t, "test", alias)

	alias, err = g.AddImport("any/test", "")
	assert.NoError(t, err)
	assert.Equal(t, "test1", alias)

	_, err = g.AddImport("", "")
	assert.Error(t, err)

	src := string(g.Src())
	assert.Contains(t, src, "// Code generated by 'test'; DO NOT EDIT.")
	assert.Contains(t, src, "\"other/test/v2\"\n")
	assert.Contains(t, src, "test1 \"any/test\"\n")
}

func Test_AddMethodDuplicated(t *testing.T) {
	g := New("test", nil, "test", "test", "", nil, nil)
	assert.True(t, g.Empty())
	require.NoError(t, g.AddMethod("User", "ID_eq", "func (u *User) ID_eq() {}\n"))
	assert.EqualError(t, g.AddMethod("User", "ID_eq", "func (u *User) ID_eq() {}\n"), "duplicated method 'User.ID_eq'")
	assert.Equal(t, []string{"User.ID_eq"}, g.Methods())
	assert.False(t, g.Empty())
}

func Test_GenerateAssertions(t *testing.T) {
	g, m, fields := prepare(t, "user")

	count, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 6, count)
	assert.Equal(t, []string{
		"user.ID_eq", "user.ID_ne", "user.ID_satisfies",
		"user.Name_eq", "user.Name_ne", "user.Name_satisfies",
	}, g.Methods())

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "// Code generated by 'fieldassert -type user'; DO NOT EDIT.")
	assert.Contains(t, code, "package generator\n")
	assert.Contains(t, code, "import (\n\t\"github.com/m4gshm/fieldassert/assertion\"\n)")
	assert.Contains(t, code, "func (u *user) ID_eq(expected int) *user {\n\tassertion.Equal(u.ID, expected, \"user.ID\")\n\treturn u\n}")
	assert.Contains(t, code, "func (u *user) ID_ne(expected int) *user {\n\tassertion.NotEqual(u.ID, expected, \"user.ID\")\n\treturn u\n}")
	assert.Contains(t, code, "func (u *user) Name_satisfies(predicate func(string) bool) *user {\n\tassertion.Satisfies(predicate(u.Name), u.Name, \"user.Name\")\n\treturn u\n}")
	assert.NotContains(t, code, "Score")
}

func Test_GenerateAssertionsGeneric(t *testing.T) {
	g, m, fields := prepare(t, "container")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "func (c *container[T]) Value_eq(expected T) *container[T] {\n\tassertion.Equal(c.Value, expected, \"container.Value\")\n\treturn c\n}")
	assert.Contains(t, code, "func (c *container[T]) Value_satisfies(predicate func(T) bool) *container[T] {")
}

func Test_GenerateAssertionsNotComparable(t *testing.T) {
	g, m, fields := prepare(t, "box")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "func (b *box[T]) Items_eq(expected []T) *box[T] {\n\tassertion.DeepEqual(b.Items, expected, \"box.Items\")")
	assert.Contains(t, code, "func (b *box[T]) Item_ne(expected T) *box[T] {\n\tassertion.NotDeepEqual(b.Item, expected, \"box.Item\")")
}

func Test_GenerateAssertionsImports(t *testing.T) {
	g, m, fields := prepare(t, "event")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "import (\n\t\"github.com/m4gshm/fieldassert/assertion\"\n\t\"time\"\n)")
	assert.Contains(t, code, "func (e *event) At_eq(expected time.Time) *event {\n\tassertion.Equivalent(e.At, expected, \"event.At\")")
	assert.Contains(t, code, "func (e *event) At_ne(expected time.Time) *event {\n\tassertion.NotEquivalent(e.At, expected, \"event.At\")")
	assert.Contains(t, code, "func (e *event) Tags_eq(expected map[string]string) *event {\n\tassertion.DeepEqual(e.Tags, expected, \"event.Tags\")")
	assert.Contains(t, code, "func (e *event) Any_eq(expected any) *event {\n\tassertion.DeepEqual(e.Any, expected, \"event.Any\")")
}

func Test_GenerateAssertionsShadowedNames(t *testing.T) {
	g, m, fields := prepare(t, "shadow")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "func (s1 *shadow[s, expected]) A_eq(expected1 s) *shadow[s, expected] {\n\tassertion.DeepEqual(s1.A, expected1, \"shadow.A\")")
	assert.Contains(t, code, "func (s1 *shadow[s, expected]) B_eq(expected1 expected) *shadow[s, expected] {\n\tassertion.Equal(s1.B, expected1, \"shadow.B\")")
}

func Test_GenerateAssertionsOptions(t *testing.T) {
	g, m, fields := prepare(t, "user")
	namer, err := NewMethodNamer("{{.Kind | upper}}_{{.Field}}")
	require.NoError(t, err)

	count, err := g.GenerateAssertions(m, fields, AssertOptions{
		Kinds:         []assertion.Kind{assertion.KindEq, assertion.KindSatisfies},
		Namer:         namer,
		RefArgs:       true,
		ValueReceiver: true,
		Nolint:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "func (u user) EQ_ID(expected *int) user { //nolint\n"+
		"\tassertion.NotNilRef(expected, assertion.KindEq, \"user.ID\")\n"+
		"\tassertion.Equal(u.ID, *expected, \"user.ID\")\n\treturn u\n}")
	assert.Contains(t, code, "func (u user) SATISFIES_Name(predicate func(*string) bool) user { //nolint\n\tassertion.Satisfies(predicate(&u.Name), u.Name, \"user.Name\")")
	assert.NotContains(t, code, "NE_")
}

func Test_GenerateAssertionsCollisions(t *testing.T) {
	g, m, fields := prepare(t, "collidedField")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	assert.ErrorContains(t, err, "generated method collidedField.ID_eq collides with the field declared at")

	g, m, fields = prepare(t, "collidedMethod")
	_, err = g.GenerateAssertions(m, fields, AssertOptions{})
	assert.ErrorContains(t, err, "generated method collidedMethod.Name_ne collides with the method declared at")

	g, m, fields = prepare(t, "user")
	namer, err := NewMethodNamer("Check")
	require.NoError(t, err)
	_, err = g.GenerateAssertions(m, fields, AssertOptions{Namer: namer})
	assert.EqualError(t, err, "duplicated method 'user.Check'")
}

func Test_GenerateAssertionsForeignPackage(t *testing.T) {
	_, m, fields := prepare(t, "user")
	g := New("fieldassert", nil, "other", "example.com/other", "/tmp/other_assert.go", nil, nil)
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	assert.ErrorContains(t, err, "cannot declare methods of the type user")
}

func Test_GenerateAssertionsAllSkipped(t *testing.T) {
	g, m, fields := prepare(t, "allSkipped")
	count, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, g.Empty())
	assert.Empty(t, g.ImportAliases())
}

func Test_MethodNamer(t *testing.T) {
	namer, err := NewMethodNamer("")
	require.NoError(t, err)
	name, err := namer.Name("User", "Name", assertion.KindEq)
	require.NoError(t, err)
	assert.Equal(t, "Name_eq", name)

	namer, err = NewMethodNamer("{{.Field}}-{{.Kind}}")
	require.NoError(t, err)
	_, err = namer.Name("User", "Name", assertion.KindNe)
	assert.EqualError(t, err, "invalid method name 'Name-ne' of field User.Name")

	_, err = NewMethodNamer("{{.Field")
	assert.Error(t, err)
}

func Test_IsComparable(t *testing.T) {
	_, m, _ := prepare(t, "event")
	assert.True(t, IsComparable(m.FieldsType["At"].Type))
	assert.False(t, IsComparable(m.FieldsType["Tags"].Type))
	assert.False(t, IsComparable(m.FieldsType["Any"].Type))

	_, m, _ = prepare(t, "stamp")
	assert.False(t, IsComparable(m.FieldsType["Meta"].Type))
	assert.False(t, IsComparable(m.FieldsType["Pair"].Type))
	assert.False(t, IsComparable(m.FieldsType["Nested"].Type))
	assert.True(t, IsComparable(m.FieldsType["Price"].Type))
	assert.True(t, IsComparable(m.FieldsType["IDs"].Type))

	_, m, _ = prepare(t, "container")
	assert.True(t, IsComparable(m.FieldsType["Value"].Type))
}

func Test_HasEqualMethod(t *testing.T) {
	_, m, _ := prepare(t, "event")
	assert.True(t, HasEqualMethod(m.FieldsType["At"].Type))
	assert.False(t, HasEqualMethod(m.FieldsType["Any"].Type))

	_, m, _ = prepare(t, "stamp")
	assert.True(t, HasEqualMethod(m.FieldsType["Price"].Type))
	assert.False(t, HasEqualMethod(m.FieldsType["Meta"].Type))
}

func Test_GenerateAssertionsInterfaceComponents(t *testing.T) {
	g, m, fields := prepare(t, "stamp")
	_, err := g.GenerateAssertions(m, fields, AssertOptions{})
	require.NoError(t, err)

	src, err := g.FormatSrc()
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "func (s *stamp) Meta_eq(expected meta) *stamp {\n\tassertion.DeepEqual(s.Meta, expected, \"stamp.Meta\")")
	assert.Contains(t, code, "func (s *stamp) Pair_ne(expected [2]any) *stamp {\n\tassertion.NotDeepEqual(s.Pair, expected, \"stamp.Pair\")")
	assert.Contains(t, code, "func (s *stamp) Price_eq(expected money) *stamp {\n\tassertion.Equivalent(s.Price, expected, \"stamp.Price\")")
	assert.Contains(t, code, "func (s *stamp) IDs_eq(expected [2]int) *stamp {\n\tassertion.Equal(s.IDs, expected, \"stamp.IDs\")")
}

func prepare(t *testing.T, typeName string) (*Generator, *struc.Model, []struc.Field) {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	fileSet := token.NewFileSet()
	pkgs, err := util.ExtractPackages(fileSet, nil, filename)
	require.NoError(t, err)

	typ, pkg, _, file, err := util.FindTypePackageFile(typeName, fileSet, pkgs)
	require.NoError(t, err)
	require.NotNil(t, typ)

	m, err := struc.New(typ, file)
	require.NoError(t, err)
	fields, err := m.Fields(struc.DefaultMarkerTag)
	require.NoError(t, err)

	return newGenerator(pkg, fileSet, typeName), m, fields
}

func newGenerator(pkg *packages.Package, fileSet *token.FileSet, typeName string) *Generator {
	return New("fieldassert", []string{"-type", typeName}, pkg.Name, pkg.PkgPath, "/tmp/"+typeName+"_assert.go", fileSet, pkg.Types)
}
