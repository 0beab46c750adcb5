// Package gomysql implements the native client library contract on top
// of github.com/go-mysql-org/go-mysql, which speaks the MySQL
// client/server protocol.
//
// go-mysql buffers prepared-statement results client-side rather than
// exposing libmysqlclient's bind/fetch cycle, so this package emulates
// that surface: result rows are materialized on Execute, each Fetch
// positions one row and reports per-column lengths into the bound row
// (zero-length receive buffers make every non-empty column a truncation,
// as with the C API), and FetchColumn serves the second, exactly-sized
// read.
package gomysql

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/go-mysql-org/go-mysql/client"
	"github.com/go-mysql-org/go-mysql/mysql"

	"github.com/tomyedwab/mysqlbind/native"
)

const (
	clientInfo = "go-mysql"

	// The client/server protocol version; constant since MySQL 3.x.
	protocolVersion = 10

	// Code recorded for failures that carry no server error code.
	codeUnknownError = 2000
)

// Library dials real servers. The zero value is ready to use.
type Library struct{}

// Connect implements native.Library.
func (Library) Connect(cfg native.Config) (native.Conn, error) {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	mc, err := client.Connect(addr, cfg.User, cfg.Password, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Conn{mc: mc, addr: addr}

	// One extra round-trip so ServerInfo is a plain accessor afterwards.
	if r, verr := mc.Execute("SELECT VERSION()"); verr == nil && r.Resultset != nil {
		if v, gerr := r.Resultset.GetString(0, 0); gerr == nil {
			c.serverVersion = v
		}
	}
	return c, nil
}

// ClientInfo implements native.Library.
func (Library) ClientInfo() string { return clientInfo }

// Conn is one live go-mysql session.
type Conn struct {
	mc   *client.Conn
	addr string

	serverVersion string

	errCode  uint16
	errMsg   string
	affected uint64
	insertID uint64
}

// record stores err as the session's most recent outcome and returns it.
func (c *Conn) record(err error) error {
	if err == nil {
		c.errCode = 0
		c.errMsg = ""
		return nil
	}
	var myErr *mysql.MyError
	if errors.As(err, &myErr) {
		c.errCode = myErr.Code
		c.errMsg = myErr.Message
	} else {
		c.errCode = codeUnknownError
		c.errMsg = err.Error()
	}
	return err
}

// Ping implements native.Conn.
func (c *Conn) Ping() error {
	return c.record(c.mc.Ping())
}

// ChangeUser implements native.Conn. go-mysql does not expose
// COM_CHANGE_USER, so re-authentication is emulated by handshaking a new
// session with the new credentials and swapping it in; the old session is
// closed only once the new one is up.
func (c *Conn) ChangeUser(user, password, database string) error {
	mc, err := client.Connect(c.addr, user, password, database)
	if err != nil {
		return c.record(err)
	}
	_ = c.mc.Close()
	c.mc = mc
	return c.record(nil)
}

// SelectDB implements native.Conn.
func (c *Conn) SelectDB(name string) error {
	return c.record(c.mc.UseDB(name))
}

// Query implements native.Conn.
func (c *Conn) Query(sql []byte) (native.Result, error) {
	r, err := c.mc.Execute(string(sql))
	if err != nil {
		return nil, c.record(err)
	}
	c.record(nil)
	c.affected = r.AffectedRows
	c.insertID = r.InsertId

	if r.Resultset == nil || len(r.Resultset.Fields) == 0 {
		return nil, nil
	}
	return newResult(r.Resultset), nil
}

// ListDatabases implements native.Conn.
func (c *Conn) ListDatabases(pattern string) (native.Result, error) {
	sql := "SHOW DATABASES"
	if pattern != "" {
		sql = fmt.Sprintf("SHOW DATABASES LIKE '%s'", mysql.Escape(pattern))
	}
	return c.Query([]byte(sql))
}

// Prepare implements native.Conn.
func (c *Conn) Prepare(sql []byte) (native.Stmt, error) {
	st, err := c.mc.Prepare(string(sql))
	if err != nil {
		return nil, c.record(err)
	}
	c.record(nil)
	return &stmt{conn: c, st: st}, nil
}

// Escape implements native.Conn.
func (c *Conn) Escape(input []byte) []byte {
	return []byte(mysql.Escape(string(input)))
}

// ErrorCode implements native.Conn.
func (c *Conn) ErrorCode() uint16 { return c.errCode }

// ErrorMessage implements native.Conn.
func (c *Conn) ErrorMessage() string { return c.errMsg }

// AffectedRows implements native.Conn.
func (c *Conn) AffectedRows() uint64 { return c.affected }

// InsertID implements native.Conn.
func (c *Conn) InsertID() uint64 { return c.insertID }

// HostInfo implements native.Conn.
func (c *Conn) HostInfo() string { return c.addr + " via TCP/IP" }

// ServerInfo implements native.Conn.
func (c *Conn) ServerInfo() string { return c.serverVersion }

// ProtocolInfo implements native.Conn.
func (c *Conn) ProtocolInfo() int { return protocolVersion }

// Close implements native.Conn.
func (c *Conn) Close() error {
	return c.mc.Close()
}

// valueBytes renders one buffered column value as the driver's byte
// representation, nil for NULL. Text-protocol values arrive as bytes;
// binary-protocol values arrive typed and are rendered in the server's
// text form.
func valueBytes(fv *mysql.FieldValue) []byte {
	switch v := fv.Value().(type) {
	case nil:
		return nil
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out
	case string:
		return []byte(v)
	case uint64:
		return strconv.AppendUint(nil, v, 10)
	case int64:
		return strconv.AppendInt(nil, v, 10)
	case float64:
		return strconv.AppendFloat(nil, v, 'g', -1, 64)
	default:
		return []byte(fmt.Sprintf("%v", v))
	}
}

func fieldInfo(f *mysql.Field) native.FieldInfo {
	return native.FieldInfo{
		Name:     string(f.Name),
		Table:    string(f.Table),
		Default:  f.DefaultValue,
		TypeCode: uint8(f.Type),
		// go-mysql reports the column's declared display length; the
		// per-result maximum the C API computes is not available.
		MaxLength: f.ColumnLength,
		Flags:     f.Flag,
		Decimals:  f.Decimal,
	}
}

// result adapts a fully buffered *mysql.Resultset.
type result struct {
	fields []native.FieldInfo
	rows   [][][]byte

	rowCursor   uint64
	fieldCursor int
	freed       bool
}

func newResult(rs *mysql.Resultset) *result {
	r := &result{}
	r.fields = make([]native.FieldInfo, len(rs.Fields))
	for i, f := range rs.Fields {
		r.fields[i] = fieldInfo(f)
	}
	r.rows = materializeRows(rs)
	return r
}

func materializeRows(rs *mysql.Resultset) [][][]byte {
	rows := make([][][]byte, len(rs.Values))
	for i, vals := range rs.Values {
		row := make([][]byte, len(vals))
		for j := range vals {
			row[j] = valueBytes(&vals[j])
		}
		rows[i] = row
	}
	return rows
}

// RowCount implements native.Result.
func (r *result) RowCount() uint64 {
	if r.freed {
		return 0
	}
	return uint64(len(r.rows))
}

// ColumnCount implements native.Result.
func (r *result) ColumnCount() int {
	if r.freed {
		return 0
	}
	return len(r.fields)
}

// FetchRow implements native.Result.
func (r *result) FetchRow() ([][]byte, bool) {
	if r.freed || r.rowCursor >= uint64(len(r.rows)) {
		return nil, false
	}
	row := r.rows[r.rowCursor]
	r.rowCursor++
	return row, true
}

// Seek implements native.Result.
func (r *result) Seek(offset uint64) {
	r.rowCursor = offset
}

// FetchField implements native.Result.
func (r *result) FetchField() (*native.FieldInfo, bool) {
	if r.freed || r.fieldCursor >= len(r.fields) {
		return nil, false
	}
	f := r.fields[r.fieldCursor]
	r.fieldCursor++
	return &f, true
}

// FieldAt implements native.Result.
func (r *result) FieldAt(index int) (*native.FieldInfo, bool) {
	if r.freed || index < 0 || index >= len(r.fields) {
		return nil, false
	}
	f := r.fields[index]
	return &f, true
}

// Fields implements native.Result.
func (r *result) Fields() []native.FieldInfo {
	if r.freed {
		return nil
	}
	return r.fields
}

// Free implements native.Result.
func (r *result) Free() {
	r.freed = true
	r.rows = nil
	r.fields = nil
}

// stmt adapts a *client.Stmt to the bind/execute/fetch cycle.
type stmt struct {
	conn *Conn
	st   *client.Stmt

	params *native.BindRow
	result *native.BindRow

	rows    [][][]byte
	cursor  int
	current [][]byte
}

// ParamCount implements native.Stmt.
func (s *stmt) ParamCount() int { return s.st.ParamNum() }

// ColumnCount implements native.Stmt.
func (s *stmt) ColumnCount() int { return s.st.ColumnNum() }

// BindParams implements native.Stmt.
func (s *stmt) BindParams(row *native.BindRow) error {
	s.params = row
	return nil
}

// Execute implements native.Stmt. Every parameter is sent as a
// variable-length string (NULL for null slots); the server coerces to the
// column's native type.
func (s *stmt) Execute() error {
	if s.params == nil {
		return s.conn.record(fmt.Errorf("gomysql: execute with no bound parameters"))
	}

	args := make([]interface{}, s.params.Slots())
	for i := range args {
		if s.params.IsNull[i] {
			args[i] = nil
			continue
		}
		args[i] = string(s.params.Buffers[i])
	}
	s.params = nil

	r, err := s.st.Execute(args...)
	if err != nil {
		return s.conn.record(err)
	}
	s.conn.record(nil)
	s.conn.affected = r.AffectedRows
	s.conn.insertID = r.InsertId

	if r.Resultset != nil {
		s.rows = materializeRows(r.Resultset)
	} else {
		s.rows = nil
	}
	s.cursor = 0
	s.current = nil
	return nil
}

// BindResult implements native.Stmt.
func (s *stmt) BindResult(row *native.BindRow) error {
	s.result = row
	return nil
}

// Fetch implements native.Stmt.
func (s *stmt) Fetch() (native.FetchStatus, error) {
	if s.result == nil {
		return native.FetchError, fmt.Errorf("gomysql: fetch with no bound result")
	}
	if s.cursor >= len(s.rows) {
		s.current = nil
		return native.FetchNoData, nil
	}

	row := s.rows[s.cursor]
	s.cursor++
	s.current = row

	status := native.FetchOK
	for i := 0; i < s.result.Slots(); i++ {
		value := row[i]
		if value == nil {
			s.result.Lengths[i] = 0
			s.result.IsNull[i] = true
			s.result.Truncated[i] = false
			continue
		}
		s.result.Lengths[i] = uint64(len(value))
		s.result.IsNull[i] = false
		s.result.Truncated[i] = uint64(len(value)) > uint64(len(s.result.Buffers[i]))
		if s.result.Truncated[i] {
			status = native.FetchTruncated
		}
	}
	return status, nil
}

// FetchColumn implements native.Stmt.
func (s *stmt) FetchColumn(index int, dst []byte) error {
	if s.current == nil {
		return fmt.Errorf("gomysql: fetch_column with no positioned row")
	}
	if index < 0 || index >= len(s.current) {
		return fmt.Errorf("gomysql: fetch_column index %d out of range", index)
	}
	copy(dst, s.current[index])
	return nil
}

// Close implements native.Stmt.
func (s *stmt) Close() error {
	return s.conn.record(s.st.Close())
}
