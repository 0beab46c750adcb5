// Package sqldriver implements a database/sql/driver adapter over the
// mysqlbind driver core, registered under the name "mysqlbind".
//
// Usage:
//
//  1. Import the package for its registration side effect:
//     import _ "github.com/tomyedwab/mysqlbind/sqldriver"
//
//  2. Open a database handle with a DSN of the form
//     user:password@host:port/database (every part optional):
//     db, err := sql.Open("mysqlbind", "app:secret@127.0.0.1:3306/appdb")
//
//  3. Use the *sql.DB as usual, directly or through wrappers such as
//     jmoiron/sqlx.
//
// By default connections dial a real server through the go-mysql-backed
// native library. Tests substitute an in-memory library with SetLibrary
// before opening a handle.
//
// Implemented interfaces:
//
// - driver.Driver
// - driver.Conn, driver.Pinger, driver.Execer, driver.Queryer
// - driver.Stmt
// - driver.Tx
// - driver.Result
// - driver.Rows
//
// Limitations:
//
//   - Prepared-statement result sets carry no column metadata at this
//     layer, so Rows.Columns on a prepared Query returns generated names
//     ("column0", "column1", ...). One-shot Query paths return real
//     column names from the result's field catalog.
//   - Context-aware variants are not implemented; database/sql falls back
//     to the non-contextual counterparts. Cancellation and timeouts are
//     out of scope for this driver layer.
//   - Transactions map directly onto BEGIN/COMMIT/ROLLBACK statements on
//     the underlying session; there is no isolation-level or read-only
//     option support.
package sqldriver
