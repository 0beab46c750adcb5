package driver

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tomyedwab/mysqlbind/native"
	"github.com/tomyedwab/mysqlbind/native/nativetest"
)

// newTestConn connects through a fresh scripted library.
func newTestConn(t *testing.T, lib *nativetest.Library) *Conn {
	t.Helper()
	conn, err := Connect(lib, Config{Host: "db.test", Port: 3306, User: "app", Database: "appdb"})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	return conn
}

func TestConnect(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if !conn.IsOpen() {
		t.Fatal("expected connection to be open")
	}
	if len(lib.Conns) != 1 {
		t.Fatalf("expected 1 native connection, got %d", len(lib.Conns))
	}
}

func TestConnectError(t *testing.T) {
	lib := nativetest.New()
	lib.ConnectError = "Access denied for user 'app'@'db.test'"

	_, err := Connect(lib, Config{User: "app"})
	var connectErr *ConnectError
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected *ConnectError, got %v", err)
	}
	if connectErr.Message != "Access denied for user 'app'@'db.test'" {
		t.Errorf("expected verbatim library message, got %q", connectErr.Message)
	}
}

func TestDisconnect(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if err := conn.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	if conn.IsOpen() {
		t.Fatal("expected connection to be closed")
	}
	if !lib.Conns[0].Closed {
		t.Fatal("expected native session to be closed")
	}

	// A second explicit close is a contract violation, not a no-op.
	err := conn.Disconnect()
	var closedErr *ClosedConnError
	if !errors.As(err, &closedErr) {
		t.Fatalf("expected *ClosedConnError on double disconnect, got %v", err)
	}
	if closedErr.Op != "disconnect" {
		t.Errorf("expected op %q, got %q", "disconnect", closedErr.Op)
	}
}

// TestClosedConnectionOperations verifies that after Disconnect every
// operation fails with *ClosedConnError without reaching the native
// library.
func TestClosedConnectionOperations(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)
	if err := conn.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	callsAfterClose := lib.Conns[0].Calls

	ops := map[string]func() error{
		"ping":        func() error { return conn.Ping() },
		"change_user": func() error { return conn.ChangeUser("other", "pw", "") },
		"select_db":   func() error { return conn.SelectDB("otherdb") },
		"query": func() error {
			_, err := conn.Query([]byte("SELECT 1"))
			return err
		},
		"prepare": func() error {
			_, err := conn.Prepare([]byte("SELECT ?"))
			return err
		},
		"list_databases": func() error {
			_, err := conn.ListDatabases("")
			return err
		},
		"status": func() error {
			_, err := conn.Status()
			return err
		},
		"errmsg": func() error {
			_, err := conn.LastErrorMessage()
			return err
		},
	}

	for op, call := range ops {
		err := call()
		var closedErr *ClosedConnError
		if !errors.As(err, &closedErr) {
			t.Fatalf("%s: expected *ClosedConnError, got %v", op, err)
		}
		if closedErr.Op != op {
			t.Errorf("%s: error reports op %q", op, closedErr.Op)
		}
	}

	if lib.Conns[0].Calls != callsAfterClose {
		t.Errorf("closed-connection operations reached the native library: %d calls, expected %d",
			lib.Conns[0].Calls, callsAfterClose)
	}
}

func TestPing(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if err := conn.Ping(); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	lib.PingError = "MySQL server has gone away"
	err := conn.Ping()
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if protoErr.Op != "ping" || protoErr.Message != "MySQL server has gone away" {
		t.Errorf("unexpected error contents: %+v", protoErr)
	}
}

func TestChangeUser(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if err := conn.ChangeUser("admin", "secret", "admindb"); err != nil {
		t.Fatalf("ChangeUser returned error: %v", err)
	}
	if lib.Conns[0].User != "admin" || lib.Conns[0].DB != "admindb" {
		t.Errorf("session principal not updated: user=%q db=%q", lib.Conns[0].User, lib.Conns[0].DB)
	}
}

func TestChangeUserFailureClosesConnection(t *testing.T) {
	lib := nativetest.New()
	lib.ChangeUserError = "Access denied for user 'admin'"
	conn := newTestConn(t, lib)

	err := conn.ChangeUser("admin", "wrong", "")
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
	if conn.IsOpen() {
		t.Fatal("expected failed re-authentication to close the connection")
	}
	if !lib.Conns[0].Closed {
		t.Fatal("expected native session to be released by failure recovery")
	}
}

func TestSelectDB(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if err := conn.SelectDB("analytics"); err != nil {
		t.Fatalf("SelectDB returned error: %v", err)
	}
	if lib.Conns[0].DB != "analytics" {
		t.Errorf("expected session database %q, got %q", "analytics", lib.Conns[0].DB)
	}

	lib.SelectDBError = "Unknown database 'nope'"
	err := conn.SelectDB("nope")
	var protoErr *ProtocolError
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestListDatabases(t *testing.T) {
	lib := nativetest.New()
	lib.Databases = []string{"appdb", "analytics", "mysql"}
	conn := newTestConn(t, lib)

	names, err := conn.ListDatabases("")
	if err != nil {
		t.Fatalf("ListDatabases returned error: %v", err)
	}
	if len(names) != 3 || names[0] != "appdb" || names[1] != "analytics" || names[2] != "mysql" {
		t.Errorf("unexpected database list: %v", names)
	}

	names, err = conn.ListDatabases("a%")
	if err != nil {
		t.Fatalf("ListDatabases with pattern returned error: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 names matching a%%, got %v", names)
	}
}

// TestListDatabasesEmpty verifies that "no result set" and "zero rows"
// both surface as an empty outcome.
func TestListDatabasesEmpty(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	names, err := conn.ListDatabases("")
	if err != nil {
		t.Fatalf("ListDatabases returned error: %v", err)
	}
	if names != nil {
		t.Errorf("expected nil for zero matching rows, got %v", names)
	}

	lib.NoDatabaseResult = true
	names, err = conn.ListDatabases("")
	if err != nil {
		t.Fatalf("ListDatabases returned error: %v", err)
	}
	if names != nil {
		t.Errorf("expected nil when the server returns no result set, got %v", names)
	}
}

func TestEscape(t *testing.T) {
	// The caller is responsible for the surrounding quotes; the escape
	// only doubles/escapes the bytes that must not appear raw.
	if got := Escape([]byte("a'b")); !bytes.Equal(got, []byte(`a\'b`)) {
		t.Errorf("Escape(a'b) = %q, expected %q", got, `a\'b`)
	}

	cases := map[string]string{
		"plain":        "plain",
		`back\slash`:   `back\\slash`,
		"quote\"both'": `quote\"both\'`,
		"line\nbreak":  `line\nbreak`,
		"cr\rhere":     `cr\rhere`,
		"nul\x00byte":  `nul\0byte`,
		"ctrlz\x1a":    `ctrlz\Z`,
	}
	for in, want := range cases {
		if got := Escape([]byte(in)); string(got) != want {
			t.Errorf("Escape(%q) = %q, expected %q", in, got, want)
		}
	}

	lib := nativetest.New()
	conn := newTestConn(t, lib)
	if got := conn.Escape([]byte("a'b")); !bytes.Equal(got, []byte(`a\'b`)) {
		t.Errorf("Conn.Escape(a'b) = %q, expected %q", got, `a\'b`)
	}
}

func TestInfoAccessors(t *testing.T) {
	lib := nativetest.New()
	conn := newTestConn(t, lib)

	if conn.ClientInfo() != "nativetest/1.0" {
		t.Errorf("unexpected client info %q", conn.ClientInfo())
	}
	if conn.HostInfo() != "db.test via scripted session" {
		t.Errorf("unexpected host info %q", conn.HostInfo())
	}
	if conn.ServerInfo() != "8.0.0-nativetest" {
		t.Errorf("unexpected server info %q", conn.ServerInfo())
	}
	if conn.ProtocolInfo() != 10 {
		t.Errorf("unexpected protocol info %d", conn.ProtocolInfo())
	}

	if err := conn.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}
	if conn.HostInfo() != "" || conn.ServerInfo() != "" || conn.ProtocolInfo() != 0 {
		t.Error("expected zero info values on a closed connection")
	}
}

func TestStatusAndLastError(t *testing.T) {
	lib := nativetest.New()
	lib.ScriptExec("CREATE TABLE t (id INT)", 0, 0)
	conn := newTestConn(t, lib)

	status, err := conn.Status()
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	msg, err := conn.LastErrorMessage()
	if err != nil {
		t.Fatalf("LastErrorMessage returned error: %v", err)
	}
	if status != 0 || msg != "" {
		t.Fatal("expected clean error state after connect")
	}

	lib.ScriptQueryError("SELECT broken", "You have an error in your SQL syntax", 1064)
	if _, err := conn.Query([]byte("SELECT broken")); err == nil {
		t.Fatal("expected query error")
	}
	if status, _ = conn.Status(); status != 1064 {
		t.Errorf("expected status 1064, got %d", status)
	}
	if msg, _ = conn.LastErrorMessage(); msg != "You have an error in your SQL syntax" {
		t.Errorf("unexpected error message %q", msg)
	}

	// A subsequent success clears the session error state.
	if _, err := conn.Query([]byte("CREATE TABLE t (id INT)")); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	status, _ = conn.Status()
	msg, _ = conn.LastErrorMessage()
	if status != 0 || msg != "" {
		t.Error("expected error state to clear after a successful operation")
	}
}

// TestErrorStateAccessorsAfterDisconnect verifies that the session error
// state is not reported as clean once the session is gone: both
// accessors fail with *ClosedConnError instead of masking a prior error.
func TestErrorStateAccessorsAfterDisconnect(t *testing.T) {
	lib := nativetest.New()
	lib.ScriptQueryError("SELECT broken", "Unknown column 'broken'", 1064)
	conn := newTestConn(t, lib)

	if _, err := conn.Query([]byte("SELECT broken")); err == nil {
		t.Fatal("expected query error")
	}
	if status, _ := conn.Status(); status != 1064 {
		t.Fatalf("expected status 1064 before disconnect, got %d", status)
	}
	if err := conn.Disconnect(); err != nil {
		t.Fatalf("Disconnect returned error: %v", err)
	}

	var closedErr *ClosedConnError
	if _, err := conn.Status(); !errors.As(err, &closedErr) {
		t.Fatalf("expected *ClosedConnError from Status, got %v", err)
	}
	if closedErr.Op != "status" {
		t.Errorf("expected op %q, got %q", "status", closedErr.Op)
	}
	if _, err := conn.LastErrorMessage(); !errors.As(err, &closedErr) {
		t.Fatalf("expected *ClosedConnError from LastErrorMessage, got %v", err)
	}
	if closedErr.Op != "errmsg" {
		t.Errorf("expected op %q, got %q", "errmsg", closedErr.Op)
	}
}

func TestAffectedRowsAndInsertID(t *testing.T) {
	lib := nativetest.New()
	lib.ScriptExec("INSERT INTO t VALUES (1)", 1, 42)
	conn := newTestConn(t, lib)

	if _, err := conn.Query([]byte("INSERT INTO t VALUES (1)")); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if conn.AffectedRows() != 1 {
		t.Errorf("expected 1 affected row, got %d", conn.AffectedRows())
	}
	if conn.LastInsertID() != 42 {
		t.Errorf("expected insert id 42, got %d", conn.LastInsertID())
	}
}

var _ native.Library = (*nativetest.Library)(nil)
