// Package native defines the contract between the driver core and the
// native MySQL client library that actually speaks the client/server
// protocol. The driver never touches the wire itself; everything below
// this interface boundary is the collaborator's business.
//
// Two implementations exist in this repository:
//
//   - native/gomysql wraps github.com/go-mysql-org/go-mysql and is the
//     implementation used against a real server.
//   - native/nativetest is an in-memory scripted implementation used by
//     the driver unit tests.
//
// All calls through these interfaces may block on a network round-trip.
// None of them take a context: cancellation and timeouts are the caller's
// problem, one layer above the driver.
package native

// Config carries the optional connect arguments. Zero values mean the
// argument was not supplied, matching the underlying library's treatment
// of NULL connect parameters.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Library is the entry point of a native client library implementation.
type Library interface {
	// Connect initializes a session and performs the handshake. The
	// returned error message, when non-nil, is the library's verbatim
	// report of why initialization or the handshake failed.
	Connect(cfg Config) (Conn, error)

	// ClientInfo reports the client library version string. It does not
	// require a session.
	ClientInfo() string
}

// Conn is one live, authenticated session. It is owned by exactly one
// driver connection and is not safe for concurrent use.
type Conn interface {
	Ping() error
	ChangeUser(user, password, database string) error
	SelectDB(name string) error

	// Query sends a one-shot statement and buffers the entire result set
	// client-side. Statements that return no result set (INSERT, UPDATE,
	// DDL) succeed with a nil Result.
	Query(sql []byte) (Result, error)

	// ListDatabases returns the result set of the database catalog
	// matching pattern ("" means all). A nil Result with nil error means
	// the server returned no result set at all.
	ListDatabases(pattern string) (Result, error)

	// Prepare compiles a statement server-side.
	Prepare(sql []byte) (Stmt, error)

	// Escape doubles or backslash-escapes every byte that must not appear
	// raw inside a string literal. The caller adds the surrounding quotes.
	Escape(input []byte) []byte

	// ErrorCode and ErrorMessage report the outcome of the most recent
	// operation on this session; code 0 / empty message mean no error.
	ErrorCode() uint16
	ErrorMessage() string

	AffectedRows() uint64
	InsertID() uint64

	HostInfo() string
	ServerInfo() string
	ProtocolInfo() int

	// Close releases the session. Callers must not use the Conn, or any
	// Result or Stmt derived from it, afterwards.
	Close() error
}

// Result is a fully buffered result set with an internal row cursor and an
// independent field-metadata cursor.
type Result interface {
	RowCount() uint64
	ColumnCount() int

	// FetchRow advances the row cursor and returns the row's columns in
	// catalog order, nil for NULL columns. ok is false once the set is
	// exhausted.
	FetchRow() (row [][]byte, ok bool)

	// Seek repositions the row cursor to an absolute offset. The driver
	// validates the offset before calling.
	Seek(offset uint64)

	// FetchField advances the metadata cursor one column, mirroring the
	// row cursor semantics of FetchRow.
	FetchField() (f *FieldInfo, ok bool)
	FieldAt(index int) (f *FieldInfo, ok bool)
	Fields() []FieldInfo

	// Free releases the buffered rows. Safe to call more than once.
	Free()
}

// FieldInfo is the raw per-column metadata reported by the library. Table
// may be empty for computed columns; Default is nil when the column has no
// default value.
type FieldInfo struct {
	Name      string
	Table     string
	Default   []byte
	TypeCode  uint8
	MaxLength uint32
	Flags     uint16
	Decimals  uint8
}

// FetchStatus is the raw status of a prepared-statement fetch, numbered to
// match the C client API.
type FetchStatus int

const (
	// FetchOK means a row was positioned and its lengths are reported.
	FetchOK FetchStatus = 0

	// FetchError is the generic fetch failure status.
	FetchError FetchStatus = 1

	// FetchNoData means the cursor moved past the last row.
	FetchNoData FetchStatus = 100

	// FetchTruncated means a row was positioned but at least one column
	// exceeded its receive buffer. The per-column lengths are reported,
	// so the row is still fully readable via Stmt.FetchColumn.
	FetchTruncated FetchStatus = 101
)

// Stmt is one compiled statement bound to its parent session.
type Stmt interface {
	// ParamCount is the number of placeholder parameters the compiled
	// statement declared.
	ParamCount() int

	// ColumnCount is the number of result columns the compiled statement
	// declared; zero for statements that return no result set.
	ColumnCount() int

	// BindParams attaches the parameter-phase bind row. Every slot is
	// bound as a variable-length string buffer; slots with IsNull set
	// bind SQL NULL. The library must not retain row after Execute
	// returns.
	BindParams(row *BindRow) error

	// Execute runs the statement with the currently bound parameters.
	Execute() error

	// BindResult attaches the result-phase bind row. Slots start with
	// zero-length receive buffers; the library reports each column's
	// actual length into row.Lengths on every Fetch.
	BindResult(row *BindRow) error

	// Fetch advances the server-side cursor one row and updates the
	// bound result row's Lengths, IsNull and Truncated slots.
	Fetch() (FetchStatus, error)

	// FetchColumn re-reads column index of the current row into dst,
	// which the driver sizes from the reported length. This is the
	// second half of the two-step length-then-value read.
	FetchColumn(index int, dst []byte) error

	// Close releases the compiled statement handle.
	Close() error
}
