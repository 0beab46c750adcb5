// Package nativetest is an in-memory native.Library for driver tests.
//
// Tests script the library with canned results, keyed by SQL text, before
// connecting:
//
//	lib := nativetest.New()
//	lib.ScriptQuery("SELECT 1", nativetest.Result{
//	    Fields: []native.FieldInfo{{Name: "1", TypeCode: native.TypeCodeLongLong}},
//	    Rows:   [][][]byte{{[]byte("1")}},
//	})
//	conn, err := driver.Connect(lib, driver.Config{})
//
// Every connection handed out is recorded in Library.Conns along with a
// count of native calls made on it, so tests can assert that an operation
// never reached the collaborator. Error injection is available for every
// operation, and prepared-statement scripts can respond to the bound
// parameters or simulate truncated fetches.
package nativetest
