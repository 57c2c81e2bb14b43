package unique

import (
	"strconv"

	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/seq"
)

func NewNamesWith(opts ...func(*Names)) *Names {
	u := &Names{calc: increment(1)}
	for _, o := range opts {
		o(u)
	}
	return u
}

// PreInit reserves names so that they are never returned by Get.
func PreInit(names ...string) func(*Names) {
	return func(un *Names) {
		seq.ForEach(seq.Of(names...), un.Add)
	}
}

// Names produces identifiers that don't clash with the already registered ones.
type Names struct {
	uniques *mutable.Set[string]
	calc    func(u *Names, varName string) string
}

func (u *Names) Get(varName string) string {
	if u != nil {
		if u.uniques == nil {
			u.uniques = mutable.NewSet[string]()
		}
		varName = u.calc(u, varName)
	}
	return varName
}

func (u *Names) Add(varName string) {
	u.Get(varName)
}

func increment(first int) func(u *Names, varName string) string {
	return func(u *Names, varName string) string {
		for i := first; !u.uniques.AddNew(varName); i++ {
			varName = trimNum(varName, i) + strconv.Itoa(i)
		}
		return varName
	}
}

func trimNum(varName string, i int) string {
	if i == 1 {
		return varName
	}
	return varName[:len(varName)-len(strconv.Itoa(i-1))]
}
