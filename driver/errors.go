package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResultSet is returned when a row fetch is attempted on a
	// result that did not return fetchable data, e.g. the result of an
	// INSERT or UPDATE.
	ErrNoResultSet = errors.New("mysqlbind: result did not return fetchable data")

	// ErrZeroColumns is returned when a row fetch is attempted on a
	// result set with no columns.
	ErrZeroColumns = errors.New("mysqlbind: result has no columns")

	// ErrStmtClosed is returned when a prepared statement is used after
	// Close.
	ErrStmtClosed = errors.New("mysqlbind: statement is closed")
)

// ClosedConnError reports an operation attempted on a closed connection.
// The operation performed no native call.
type ClosedConnError struct {
	Op string
}

func (e *ClosedConnError) Error() string {
	return fmt.Sprintf("mysqlbind: %s called with closed connection", e.Op)
}

// ConnectError reports a failed session initialization or handshake. The
// message is the native library's report, verbatim.
type ConnectError struct {
	Message string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("mysqlbind: connect: %s", e.Message)
}

// ProtocolError reports a server-side failure of a session operation
// (change_user, select_db, ping, list_databases), message verbatim.
type ProtocolError struct {
	Op      string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("mysqlbind: %s: %s", e.Op, e.Message)
}

// QueryError reports a failed one-shot query. The connection remains open
// and usable.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("mysqlbind: query: %s", e.Message)
}

// PrepareError reports a failed statement compilation, including the case
// where statement initialization itself failed.
type PrepareError struct {
	Message string
}

func (e *PrepareError) Error() string {
	return fmt.Sprintf("mysqlbind: prepare: %s", e.Message)
}

// ParamCountError reports an Execute call whose parameter count does not
// match the statement's declared placeholder count. The server was not
// contacted.
type ParamCountError struct {
	Expected int
	Actual   int
}

func (e *ParamCountError) Error() string {
	return fmt.Sprintf("mysqlbind: execute: got %d parameters, but expected %d", e.Actual, e.Expected)
}

// BindError reports a failed parameter or result bind. Any buffers
// allocated for the failed operation were released before it was returned.
type BindError struct {
	Message string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("mysqlbind: bind: %s", e.Message)
}

// ExecuteError reports a failed prepared-statement execution or row
// extraction. The statement remains usable for a subsequent Execute.
type ExecuteError struct {
	Message string
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("mysqlbind: execute: %s", e.Message)
}

// CloseError reports a failed native statement close. Local buffers were
// released regardless.
type CloseError struct {
	Message string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("mysqlbind: close: %s", e.Message)
}

// RangeError reports a Seek outside [0, RowCount-1], or a Seek on an
// unfetchable result (RowCount 0).
type RangeError struct {
	Offset   uint64
	RowCount uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("mysqlbind: seek: offset %d out of range for result with %d rows", e.Offset, e.RowCount)
}
