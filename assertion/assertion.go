// Package assertion is the runtime side of the generated field assertion methods.
// A failed check panics with *Failure; tests either let the panic fail the test
// or turn it into a regular test failure with Report.
package assertion

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/stretchr/testify/assert"
)

type Kind string

const (
	KindEq        Kind = "eq"
	KindNe        Kind = "ne"
	KindSatisfies Kind = "satisfies"
)

// Failure describes a failed field check.
type Failure struct {
	Kind     Kind
	Field    string
	Expected any
	Actual   any
	Location string
	// Reason replaces the expected/actual message when the check could not be made.
	Reason string
}

var _ error = (*Failure)(nil)

func (f *Failure) Error() string {
	var m string
	switch {
	case len(f.Reason) > 0:
		m = f.Reason
	case f.Kind == KindEq:
		m = fmt.Sprintf("expected %#v, actual %#v", f.Expected, f.Actual)
	case f.Kind == KindNe:
		m = fmt.Sprintf("expected not %#v, actual %#v", f.Expected, f.Actual)
	default:
		m = fmt.Sprintf("predicate is not satisfied, actual %#v", f.Actual)
	}
	m = "assertion failed: " + f.Field + ": " + m
	if len(f.Location) > 0 {
		m += " (" + f.Location + ")"
	}
	return m
}

func Equal[T comparable](actual, expected T, field string) {
	if !equal(actual, expected) {
		fail(Failure{Kind: KindEq, Field: field, Expected: expected, Actual: actual})
	}
}

func NotEqual[T comparable](actual, expected T, field string) {
	if equal(actual, expected) {
		fail(Failure{Kind: KindNe, Field: field, Expected: expected, Actual: actual})
	}
}

// equal falls back to the deep equality when == panics on interface values holding not comparable dynamic values.
func equal[T comparable](actual, expected T) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}
			eq = assert.ObjectsAreEqual(expected, actual)
		}
	}()
	return actual == expected
}

// DeepEqual is Equal for types that don't support the == operator.
func DeepEqual(actual, expected any, field string) {
	if !assert.ObjectsAreEqual(expected, actual) {
		fail(Failure{Kind: KindEq, Field: field, Expected: expected, Actual: actual})
	}
}

func NotDeepEqual(actual, expected any, field string) {
	if assert.ObjectsAreEqual(expected, actual) {
		fail(Failure{Kind: KindNe, Field: field, Expected: expected, Actual: actual})
	}
}

// Equivalent checks the equality by the Equal method of the type, like time.Time.Equal.
func Equivalent[T interface{ Equal(T) bool }](actual, expected T, field string) {
	if !actual.Equal(expected) {
		fail(Failure{Kind: KindEq, Field: field, Expected: expected, Actual: actual})
	}
}

func NotEquivalent[T interface{ Equal(T) bool }](actual, expected T, field string) {
	if actual.Equal(expected) {
		fail(Failure{Kind: KindNe, Field: field, Expected: expected, Actual: actual})
	}
}

// NotNilRef fails the check of the kind when the expected value is passed by a nil reference.
func NotNilRef[T any](expected *T, kind Kind, field string) {
	if expected == nil {
		fail(Failure{Kind: kind, Field: field, Reason: "expected value reference is nil"})
	}
}

func Satisfies(ok bool, actual any, field string) {
	if !ok {
		fail(Failure{Kind: KindSatisfies, Field: field, Actual: actual})
	}
}

// the check functions are called by a generated method that is called by the user code
const callerSkip = 3

func fail(f Failure) {
	f.Location = location(callerSkip)
	panic(&f)
}

func location(skip int) string {
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	return ""
}
