package driver

import (
	"log"
	"runtime"

	"github.com/tomyedwab/mysqlbind/native"
)

// Config carries the optional connect arguments. Zero values mean the
// argument was not supplied and the native library's defaults apply.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Conn is one live session with the server. It exclusively owns its
// native session handle; Results and Stmts derived from it borrow the
// session and must not outlive it.
type Conn struct {
	lib  native.Library
	nc   native.Conn
	open bool
}

// Connect initializes a native session and performs the handshake. On
// failure the returned *ConnectError carries the library's message
// verbatim.
func Connect(lib native.Library, cfg Config) (*Conn, error) {
	nc, err := lib.Connect(native.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, &ConnectError{Message: err.Error()}
	}

	c := &Conn{lib: lib, nc: nc, open: true}

	// Backstop only: explicit Disconnect is the release path. A finalizer
	// firing on an open connection means the caller leaked it.
	runtime.SetFinalizer(c, func(c *Conn) {
		if c.open {
			log.Printf("mysqlbind: connection leaked; closing native session in finalizer")
			c.open = false
			_ = c.nc.Close()
		}
	})

	return c, nil
}

// require is the precondition check performed by every operation except
// Connect and Disconnect: it fails without any native call when the
// connection has been closed.
func (c *Conn) require(op string) error {
	if !c.open {
		return &ClosedConnError{Op: op}
	}
	return nil
}

// IsOpen reports whether the connection is still usable.
func (c *Conn) IsOpen() bool {
	return c.open
}

// Disconnect closes the native session and marks the connection closed.
// It must be called exactly once per open connection; a second call is a
// contract violation reported as *ClosedConnError.
func (c *Conn) Disconnect() error {
	if !c.open {
		return &ClosedConnError{Op: "disconnect"}
	}
	c.open = false
	runtime.SetFinalizer(c, nil)
	return c.nc.Close()
}

// Ping checks that the session is alive.
func (c *Conn) Ping() error {
	if err := c.require("ping"); err != nil {
		return err
	}
	if err := c.nc.Ping(); err != nil {
		return &ProtocolError{Op: "ping", Message: err.Error()}
	}
	return nil
}

// ChangeUser re-authenticates on the same session. Empty arguments keep
// the session's current value. A failed re-authentication leaves the
// native session in an unusable state, so failure recovery closes the
// connection before the error is returned.
func (c *Conn) ChangeUser(user, password, database string) error {
	if err := c.require("change_user"); err != nil {
		return err
	}
	if err := c.nc.ChangeUser(user, password, database); err != nil {
		c.open = false
		runtime.SetFinalizer(c, nil)
		_ = c.nc.Close()
		return &ProtocolError{Op: "change_user", Message: err.Error()}
	}
	return nil
}

// SelectDB switches the session's default database.
func (c *Conn) SelectDB(name string) error {
	if err := c.require("select_db"); err != nil {
		return err
	}
	if err := c.nc.SelectDB(name); err != nil {
		return &ProtocolError{Op: "select_db", Message: err.Error()}
	}
	return nil
}

// ListDatabases returns the database names matching pattern ("" matches
// all). A server answer with no result set and a result set with zero
// rows both yield a nil slice.
func (c *Conn) ListDatabases(pattern string) ([]string, error) {
	if err := c.require("list_databases"); err != nil {
		return nil, err
	}

	nr, err := c.nc.ListDatabases(pattern)
	if err != nil {
		return nil, &ProtocolError{Op: "list_databases", Message: err.Error()}
	}
	if nr == nil {
		return nil, nil
	}
	defer nr.Free()

	if nr.RowCount() == 0 {
		return nil, nil
	}

	var names []string
	for {
		row, ok := nr.FetchRow()
		if !ok {
			break
		}
		if len(row) > 0 && row[0] != nil {
			names = append(names, string(row[0]))
		}
	}
	return names, nil
}

// Escape returns a copy of input with every byte requiring escaping
// inside a string literal escaped per the native library's algorithm.
// The caller adds the surrounding quotes. This is local computation; no
// server round-trip is made.
func (c *Conn) Escape(input []byte) []byte {
	return c.nc.Escape(input)
}

// Escape is the connection-independent variant of Conn.Escape, using the
// default charset-unaware algorithm.
func Escape(input []byte) []byte {
	return native.Escape(input)
}

// Status returns the error code of the most recent operation on this
// session; 0 means no error. The session error state dies with the
// session, so a closed connection fails with *ClosedConnError rather
// than reporting a clean state.
func (c *Conn) Status() (uint16, error) {
	if err := c.require("status"); err != nil {
		return 0, err
	}
	return c.nc.ErrorCode(), nil
}

// LastErrorMessage returns the message of the most recent error on this
// session, "" when there is none. Like Status, it requires an open
// connection.
func (c *Conn) LastErrorMessage() (string, error) {
	if err := c.require("errmsg"); err != nil {
		return "", err
	}
	return c.nc.ErrorMessage(), nil
}

// AffectedRows reports the row count touched by the most recent
// data-changing statement.
func (c *Conn) AffectedRows() uint64 {
	if !c.open {
		return 0
	}
	return c.nc.AffectedRows()
}

// LastInsertID reports the auto-increment value generated by the most
// recent INSERT.
func (c *Conn) LastInsertID() uint64 {
	if !c.open {
		return 0
	}
	return c.nc.InsertID()
}

// ClientInfo reports the native client library's version string.
func (c *Conn) ClientInfo() string {
	return c.lib.ClientInfo()
}

// HostInfo describes the transport to the server, e.g. "127.0.0.1 via
// TCP/IP". Empty on a closed connection.
func (c *Conn) HostInfo() string {
	if !c.open {
		return ""
	}
	return c.nc.HostInfo()
}

// ServerInfo reports the server version string. Empty on a closed
// connection.
func (c *Conn) ServerInfo() string {
	if !c.open {
		return ""
	}
	return c.nc.ServerInfo()
}

// ProtocolInfo reports the client/server protocol version. Zero on a
// closed connection.
func (c *Conn) ProtocolInfo() int {
	if !c.open {
		return 0
	}
	return c.nc.ProtocolInfo()
}
