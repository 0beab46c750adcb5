package sqldriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	mysqlbind "github.com/tomyedwab/mysqlbind/driver"
	"github.com/tomyedwab/mysqlbind/native"
	"github.com/tomyedwab/mysqlbind/native/gomysql"
)

const driverName = "mysqlbind"

// lib is the native library every new connection is built on. Tests swap
// it for an in-memory implementation before opening a handle.
var lib native.Library = gomysql.Library{}

// SetLibrary replaces the native library used by subsequently opened
// connections. It must be called before sql.Open and is not safe to call
// concurrently with it.
func SetLibrary(l native.Library) {
	lib = l
}

func init() {
	sql.Register(driverName, &Driver{})
}

// Driver is the database/sql driver for the mysqlbind core.
type Driver struct{}

// Open returns a new connection to the database.
func (d *Driver) Open(name string) (driver.Conn, error) {
	cfg, err := parseDSN(name)
	if err != nil {
		return nil, err
	}
	conn, err := mysqlbind.Connect(lib, cfg)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn}, nil
}

// parseDSN splits "user:password@host:port/database"; every part is
// optional.
func parseDSN(name string) (mysqlbind.Config, error) {
	var cfg mysqlbind.Config

	rest := name
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		cred := rest[:at]
		rest = rest[at+1:]
		if colon := strings.Index(cred, ":"); colon >= 0 {
			cfg.User = cred[:colon]
			cfg.Password = cred[colon+1:]
		} else {
			cfg.User = cred
		}
	}
	if slash := strings.Index(rest, "/"); slash >= 0 {
		cfg.Database = rest[slash+1:]
		rest = rest[:slash]
	}
	if rest != "" {
		if colon := strings.Index(rest, ":"); colon >= 0 {
			cfg.Host = rest[:colon]
			port, err := strconv.Atoi(rest[colon+1:])
			if err != nil {
				return cfg, fmt.Errorf("sqldriver: invalid port in DSN %q: %w", name, err)
			}
			cfg.Port = port
		} else {
			cfg.Host = rest
		}
	}
	return cfg, nil
}

// Conn implements driver.Conn over one mysqlbind connection.
type Conn struct {
	conn *mysqlbind.Conn
}

// Prepare returns a prepared statement, suitable for query or execution.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare([]byte(query))
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: c, stmt: stmt}, nil
}

// Close releases the underlying session.
func (c *Conn) Close() error {
	return c.conn.Disconnect()
}

// Ping implements driver.Pinger. The underlying round trip has no
// cancellation point, so ctx is only honored between calls.
func (c *Conn) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.conn.Ping()
}

// Begin starts a transaction with a plain BEGIN statement on the session.
func (c *Conn) Begin() (driver.Tx, error) {
	if err := c.exec("BEGIN"); err != nil {
		return nil, err
	}
	return &Tx{conn: c}, nil
}

// Exec implements driver.Execer for statements without placeholders;
// parameterized calls fall through to the prepared-statement path.
func (c *Conn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, driver.ErrSkip
	}
	res, err := c.conn.Query([]byte(query))
	if err != nil {
		return nil, err
	}
	res.Free()
	return &Result{
		lastInsertID: int64(c.conn.LastInsertID()),
		rowsAffected: int64(c.conn.AffectedRows()),
	}, nil
}

// Query implements driver.Queryer for statements without placeholders;
// parameterized calls fall through to the prepared-statement path.
func (c *Conn) Query(query string, args []driver.Value) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, driver.ErrSkip
	}
	res, err := c.conn.Query([]byte(query))
	if err != nil {
		return nil, err
	}
	return &resultRows{res: res}, nil
}

func (c *Conn) exec(query string) error {
	res, err := c.conn.Query([]byte(query))
	if err != nil {
		return err
	}
	res.Free()
	return nil
}

// Stmt implements driver.Stmt over one prepared statement.
type Stmt struct {
	conn *Conn
	stmt *mysqlbind.Stmt
}

// Close closes the statement.
func (s *Stmt) Close() error {
	return s.stmt.Close()
}

// NumInput returns the statement's declared placeholder count.
func (s *Stmt) NumInput() int {
	return s.stmt.ParamCount()
}

// Exec executes the statement with the given arguments and returns a
// Result.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	params, err := convertValues(args)
	if err != nil {
		return nil, err
	}
	if err := s.stmt.Execute(params...); err != nil {
		return nil, err
	}
	return &Result{
		lastInsertID: int64(s.conn.conn.LastInsertID()),
		rowsAffected: int64(s.conn.conn.AffectedRows()),
	}, nil
}

// Query executes the statement with the given arguments and returns Rows.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	params, err := convertValues(args)
	if err != nil {
		return nil, err
	}
	if err := s.stmt.Execute(params...); err != nil {
		return nil, err
	}
	return &stmtRows{stmt: s.stmt}, nil
}

// convertValues renders driver values as the string-bound parameter
// buffers the core expects, nil for NULL.
func convertValues(args []driver.Value) ([][]byte, error) {
	params := make([][]byte, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			params[i] = nil
		case []byte:
			params[i] = v
		case string:
			params[i] = []byte(v)
		case int64:
			params[i] = strconv.AppendInt(nil, v, 10)
		case float64:
			params[i] = strconv.AppendFloat(nil, v, 'g', -1, 64)
		case bool:
			if v {
				params[i] = []byte("1")
			} else {
				params[i] = []byte("0")
			}
		case time.Time:
			params[i] = []byte(v.Format("2006-01-02 15:04:05.999999"))
		default:
			return nil, fmt.Errorf("sqldriver: unsupported parameter type %T", arg)
		}
	}
	return params, nil
}

// Tx implements driver.Tx as BEGIN/COMMIT/ROLLBACK passthrough.
type Tx struct {
	conn *Conn
	done bool
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if t.done {
		return fmt.Errorf("sqldriver: transaction already committed or rolled back")
	}
	t.done = true
	return t.conn.exec("COMMIT")
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	if t.done {
		return fmt.Errorf("sqldriver: transaction already committed or rolled back")
	}
	t.done = true
	return t.conn.exec("ROLLBACK")
}

// Result implements driver.Result.
type Result struct {
	lastInsertID int64
	rowsAffected int64
}

// LastInsertId returns the auto-generated id of the last INSERT.
func (r *Result) LastInsertId() (int64, error) {
	return r.lastInsertID, nil
}

// RowsAffected returns the number of rows affected by the statement.
func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

// resultRows serves rows from a buffered one-shot query result.
type resultRows struct {
	res *mysqlbind.Result
}

// Columns returns the column names from the result's field catalog.
func (r *resultRows) Columns() []string {
	fields := r.res.Fields()
	names := make([]string, len(fields))
	for i := range fields {
		names[i] = fields[i].Name
	}
	return names
}

// Close releases the buffered result.
func (r *resultRows) Close() error {
	r.res.Free()
	return nil
}

// Next populates dest with the next row, or returns io.EOF.
func (r *resultRows) Next(dest []driver.Value) error {
	row, err := r.res.Next()
	if err != nil {
		return err
	}
	if row == nil {
		return io.EOF
	}
	for i := range dest {
		if row[i] == nil {
			dest[i] = nil
		} else {
			dest[i] = row[i]
		}
	}
	return nil
}

// stmtRows serves rows from a prepared statement's fetch cycle.
type stmtRows struct {
	stmt *mysqlbind.Stmt
}

// Columns returns generated names; prepared-statement results carry no
// column metadata at this layer.
func (r *stmtRows) Columns() []string {
	names := make([]string, r.stmt.ColumnCount())
	for i := range names {
		names[i] = "column" + strconv.Itoa(i)
	}
	return names
}

// Close ends row iteration. The statement stays open for re-execution;
// its handle is released by Stmt.Close.
func (r *stmtRows) Close() error {
	return nil
}

// Next populates dest with the next fetched row, or returns io.EOF.
func (r *stmtRows) Next(dest []driver.Value) error {
	row, err := r.stmt.Fetch()
	if err != nil {
		return err
	}
	if row == nil {
		return io.EOF
	}
	for i := range dest {
		if row[i] == nil {
			dest[i] = nil
		} else {
			dest[i] = row[i]
		}
	}
	return nil
}
