package assertion

// TB is the part of testing.TB used by Report.
type TB interface {
	Helper()
	Fatal(args ...any)
}

// Report converts a *Failure panic into a fatal test failure; must be called by defer.
// Panics of other kinds are propagated.
//
//	defer assertion.Report(t)
//	user.ID_eq(1).Name_eq("Alice")
func Report(t TB) {
	if r := recover(); r != nil {
		if f, ok := r.(*Failure); ok {
			t.Helper()
			t.Fatal(f.Error())
			return
		}
		panic(r)
	}
}

// Recover calls check and returns the failure it raised or nil.
func Recover(check func()) (failure *Failure) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Failure)
			if !ok {
				panic(r)
			}
			failure = f
		}
	}()
	check()
	return nil
}
