package nativetest

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tomyedwab/mysqlbind/native"
)

// Result is a canned result set: column metadata plus rows of column
// values, nil for SQL NULL.
type Result struct {
	Fields []native.FieldInfo
	Rows   [][][]byte
}

// StmtScript describes the behavior of one prepared statement.
type StmtScript struct {
	// Params is the declared placeholder count.
	Params int

	// Columns is the declared result-set metadata; empty means the
	// statement returns no result set.
	Columns []native.FieldInfo

	// Rows is the static result of every execution. Ignored when Respond
	// is set.
	Rows [][][]byte

	// Respond computes the result rows from the bound parameters, nil
	// entries marking NULL parameters.
	Respond func(params [][]byte) [][][]byte

	// Affected and InsertID are reported on the session after every
	// successful execution.
	Affected uint64
	InsertID uint64

	// Error injection per phase. Empty means success.
	BindParamsError string
	ExecuteError    string
	BindResultError string
	CloseError      string
}

type execScript struct {
	affected uint64
	insertID uint64
}

type queryError struct {
	code    uint16
	message string
}

// Library is the in-memory native client library. Configure it before
// handing it to driver.Connect; the zero value of every knob means
// success with an empty answer.
type Library struct {
	// ConnectError makes Connect fail with this message.
	ConnectError string

	// PingError, ChangeUserError and SelectDBError make the respective
	// session operations fail.
	PingError       string
	ChangeUserError string
	SelectDBError   string

	// Databases is the catalog answer for ListDatabases. NoDatabaseResult
	// simulates a server that returns no result set at all.
	Databases        []string
	NoDatabaseResult bool

	// Conns records every connection handed out, in order.
	Conns []*Conn

	queries   map[string]*Result
	execs     map[string]*execScript
	failures  map[string]*queryError
	stmts     map[string]*StmtScript
	stmtFails map[string]string
}

// New creates an empty scripted library.
func New() *Library {
	return &Library{
		queries:   make(map[string]*Result),
		execs:     make(map[string]*execScript),
		failures:  make(map[string]*queryError),
		stmts:     make(map[string]*StmtScript),
		stmtFails: make(map[string]string),
	}
}

// ScriptQuery makes sql return the canned result set.
func (l *Library) ScriptQuery(sql string, res Result) {
	l.queries[sql] = &res
}

// ScriptExec makes sql succeed with no result set, reporting the given
// affected-row count and insert id.
func (l *Library) ScriptExec(sql string, affected, insertID uint64) {
	l.execs[sql] = &execScript{affected: affected, insertID: insertID}
}

// ScriptQueryError makes sql fail with the given server error.
func (l *Library) ScriptQueryError(sql, message string, code uint16) {
	l.failures[sql] = &queryError{code: code, message: message}
}

// ScriptStmt scripts the prepared statement compiled from sql. The
// returned pointer stays live, so tests can adjust error injection
// between executions.
func (l *Library) ScriptStmt(sql string, script StmtScript) *StmtScript {
	l.stmts[sql] = &script
	return l.stmts[sql]
}

// ScriptPrepareError makes preparing sql fail with the given message.
func (l *Library) ScriptPrepareError(sql, message string) {
	l.stmtFails[sql] = message
}

// Connect implements native.Library.
func (l *Library) Connect(cfg native.Config) (native.Conn, error) {
	if l.ConnectError != "" {
		return nil, fmt.Errorf("%s", l.ConnectError)
	}
	c := &Conn{
		lib:  l,
		ID:   uuid.NewString(),
		User: cfg.User,
		DB:   cfg.Database,
		host: cfg.Host,
	}
	l.Conns = append(l.Conns, c)
	return c, nil
}

// ClientInfo implements native.Library.
func (l *Library) ClientInfo() string {
	return "nativetest/1.0"
}

// Conn is one scripted session. Calls counts every native call made on
// it, so tests can assert an operation never reached the library.
type Conn struct {
	lib *Library

	// ID names the session in error messages.
	ID string

	// Calls is the total number of native calls made on this session.
	Calls int

	// Closed is set by Close.
	Closed bool

	// User and DB track the session's current principal and default
	// database through ChangeUser and SelectDB.
	User string
	DB   string

	// Stmts records every statement prepared on this session, in order.
	Stmts []*Stmt

	host string

	errCode  uint16
	errMsg   string
	affected uint64
	insertID uint64
}

func (c *Conn) fail(code uint16, message string) error {
	c.errCode = code
	c.errMsg = message
	return fmt.Errorf("%s", message)
}

func (c *Conn) ok() {
	c.errCode = 0
	c.errMsg = ""
}

// Ping implements native.Conn.
func (c *Conn) Ping() error {
	c.Calls++
	if c.lib.PingError != "" {
		return c.fail(2006, c.lib.PingError)
	}
	c.ok()
	return nil
}

// ChangeUser implements native.Conn.
func (c *Conn) ChangeUser(user, password, database string) error {
	c.Calls++
	if c.lib.ChangeUserError != "" {
		return c.fail(1045, c.lib.ChangeUserError)
	}
	if user != "" {
		c.User = user
	}
	if database != "" {
		c.DB = database
	}
	c.ok()
	return nil
}

// SelectDB implements native.Conn.
func (c *Conn) SelectDB(name string) error {
	c.Calls++
	if c.lib.SelectDBError != "" {
		return c.fail(1049, c.lib.SelectDBError)
	}
	c.DB = name
	c.ok()
	return nil
}

// Query implements native.Conn.
func (c *Conn) Query(sql []byte) (native.Result, error) {
	c.Calls++
	key := string(sql)
	if qe, found := c.lib.failures[key]; found {
		return nil, c.fail(qe.code, qe.message)
	}
	if res, found := c.lib.queries[key]; found {
		c.ok()
		return newResult(res), nil
	}
	if ex, found := c.lib.execs[key]; found {
		c.ok()
		c.affected = ex.affected
		c.insertID = ex.insertID
		return nil, nil
	}
	return nil, c.fail(1064, fmt.Sprintf("nativetest: no script for query %q (conn %s)", key, c.ID))
}

// ListDatabases implements native.Conn.
func (c *Conn) ListDatabases(pattern string) (native.Result, error) {
	c.Calls++
	c.ok()
	if c.lib.NoDatabaseResult {
		return nil, nil
	}
	res := &Result{
		Fields: []native.FieldInfo{{Name: "Database", TypeCode: native.TypeCodeVarString}},
	}
	for _, name := range c.lib.Databases {
		if pattern != "" && !wildcardMatch(pattern, name) {
			continue
		}
		res.Rows = append(res.Rows, [][]byte{[]byte(name)})
	}
	return newResult(res), nil
}

// Prepare implements native.Conn.
func (c *Conn) Prepare(sql []byte) (native.Stmt, error) {
	c.Calls++
	key := string(sql)
	if msg, found := c.lib.stmtFails[key]; found {
		return nil, c.fail(1064, msg)
	}
	script, found := c.lib.stmts[key]
	if !found {
		return nil, c.fail(1064, fmt.Sprintf("nativetest: no script for statement %q (conn %s)", key, c.ID))
	}
	c.ok()
	s := &Stmt{conn: c, ID: uuid.NewString(), script: script}
	c.Stmts = append(c.Stmts, s)
	return s, nil
}

// Escape implements native.Conn.
func (c *Conn) Escape(input []byte) []byte {
	return native.Escape(input)
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
func (c *Conn) HostInfo() string {
	if c.host == "" {
		return "localhost via scripted session"
	}
	return c.host + " via scripted session"
}

// ServerInfo implements native.Conn.
func (c *Conn) ServerInfo() string { return "8.0.0-nativetest" }

// ProtocolInfo implements native.Conn.
func (c *Conn) ProtocolInfo() int { return 10 }

// Close implements native.Conn.
func (c *Conn) Close() error {
	c.Calls++
	c.Closed = true
	return nil
}

// wildcardMatch evaluates a SQL LIKE pattern ("%" and "_") against name,
// enough for the catalog wildcards ListDatabases accepts.
func wildcardMatch(pattern, name string) bool {
	return likeMatch([]byte(pattern), []byte(name))
}

func likeMatch(pattern, name []byte) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	switch pattern[0] {
	case '%':
		for i := 0; i <= len(name); i++ {
			if likeMatch(pattern[1:], name[i:]) {
				return true
			}
		}
		return false
	case '_':
		return len(name) > 0 && likeMatch(pattern[1:], name[1:])
	default:
		return len(name) > 0 && pattern[0] == name[0] && likeMatch(pattern[1:], name[1:])
	}
}
