// Package driver implements a MySQL client driver layer on top of a
// native client library.
//
// The package owns three concerns: connection lifecycle and session state,
// buffered query result handling, and prepared-statement parameter/result
// binding. It does not parse SQL, pool connections, retry operations, or
// speak the wire protocol itself; the protocol is delegated to a
// collaborator behind the interfaces in package native.
//
// Usage:
//
//  1. Pick a native library implementation. Applications use the
//     go-mysql-backed one:
//
//     conn, err := driver.Connect(gomysql.Library{}, driver.Config{
//         Host:     "127.0.0.1",
//         Port:     3306,
//         User:     "app",
//         Password: "secret",
//         Database: "appdb",
//     })
//
//  2. Issue one-shot queries, which buffer the whole result set
//     client-side:
//
//     res, err := conn.Query([]byte("SELECT id, name FROM users"))
//     for {
//         row, err := res.Next()
//         if err != nil || row == nil {
//             break
//         }
//         // row[i] is the column's bytes, or nil for SQL NULL.
//     }
//     res.Free()
//
//  3. Or prepare a statement and run the execute/fetch cycle:
//
//     stmt, err := conn.Prepare([]byte("SELECT name FROM users WHERE id = ?"))
//     err = stmt.Execute([]byte("42"))
//     row, err := stmt.Fetch()
//     stmt.Close()
//
// Resource ownership:
//
// A Conn exclusively owns its native session; every Result and Stmt
// borrows it and must not outlive it. Closing a connection while prepared
// statements or results derived from it are still in use is caller error
// with undefined behavior. Release is explicit (Disconnect, Free, Close);
// a finalizer backstop releases leaked native resources and logs the leak,
// but its timing is non-deterministic and must never be relied on.
//
// Concurrency:
//
// A Conn and everything derived from it serve one goroutine at a time.
// The server session is single-cursor; callers that share a connection
// across goroutines must provide their own mutual exclusion. Calls may
// block for a full network round-trip and are not cancellable at this
// layer.
package driver
