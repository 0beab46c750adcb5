package driver

import (
	"log"
	"runtime"

	"github.com/tomyedwab/mysqlbind/native"
)

// Stmt is a prepared statement: a compiled statement handle plus the
// bind row of its current execution. It is bound to one Conn and must not
// outlive it.
//
// The bind row lives through two phases per execution. The parameter
// phase sends caller-owned byte buffers into the statement and is
// discarded as soon as the native execute returns. The result phase is a
// fresh row sized to the statement's declared column count, bound with
// zero-length receive buffers so each fetch only reports lengths; the
// actual column bytes are pulled by a second, exactly-sized read. The two
// phases differ in direction and ownership, so the row is rebuilt between
// them on every Execute.
type Stmt struct {
	conn *Conn
	ns   native.Stmt

	// row is the result-phase bind row of the most recent Execute, nil
	// before the first execution.
	row *native.BindRow
}

// Prepare compiles a statement server-side. Fails with *PrepareError when
// statement initialization or compilation fails; the two cases carry
// distinct library messages.
func (c *Conn) Prepare(sql []byte) (*Stmt, error) {
	if err := c.require("prepare"); err != nil {
		return nil, err
	}

	ns, err := c.nc.Prepare(sql)
	if err != nil {
		return nil, &PrepareError{Message: err.Error()}
	}

	s := &Stmt{conn: c, ns: ns}
	runtime.SetFinalizer(s, func(s *Stmt) {
		if s.ns != nil {
			log.Printf("mysqlbind: prepared statement leaked; closing in finalizer")
			_ = s.ns.Close()
			s.ns = nil
		}
	})
	return s, nil
}

// ParamCount reports the number of placeholder parameters the statement
// declared.
func (s *Stmt) ParamCount() int {
	if s.ns == nil {
		return 0
	}
	return s.ns.ParamCount()
}

// ColumnCount reports the number of result columns the statement
// declared; zero for statements that return no result set.
func (s *Stmt) ColumnCount() int {
	if s.ns == nil {
		return 0
	}
	return s.ns.ColumnCount()
}

// Execute runs the statement with the given parameters, one per
// placeholder, each bound as a variable-length string buffer. A nil
// parameter binds SQL NULL.
//
// The parameter count is checked against the statement's declared count
// before any native call; a mismatch fails with *ParamCountError. On
// success a fresh result-phase bind row sized to the declared column
// count is bound for subsequent Fetch calls; a statement with no result
// set ends up with zero bound result slots.
func (s *Stmt) Execute(params ...[]byte) error {
	if err := s.conn.require("execute"); err != nil {
		return err
	}
	if s.ns == nil {
		return ErrStmtClosed
	}

	expected := s.ns.ParamCount()
	if len(params) != expected {
		return &ParamCountError{Expected: expected, Actual: len(params)}
	}

	paramRow := native.NewBindRow(len(params))
	for i, p := range params {
		if p == nil {
			paramRow.IsNull[i] = true
			continue
		}
		paramRow.Buffers[i] = p
		paramRow.Lengths[i] = uint64(len(p))
	}

	// The parameter row is dropped on every path below: on failure before
	// the error is returned, on success because the native library must
	// not retain it past Execute.
	if err := s.ns.BindParams(paramRow); err != nil {
		return &BindError{Message: err.Error()}
	}
	if err := s.ns.Execute(); err != nil {
		return &ExecuteError{Message: err.Error()}
	}

	cols := s.ns.ColumnCount()
	resultRow := native.NewBindRow(cols)
	if cols > 0 {
		if err := s.ns.BindResult(resultRow); err != nil {
			return &BindError{Message: err.Error()}
		}
	}
	s.row = resultRow
	return nil
}

// Fetch advances the server-side cursor one row and returns it, or
// (nil, nil) when no further row is available (repeatedly, never an
// error). A truncated fetch still counts as a row: the bound receive
// buffers are zero-length, so truncation is the expected status and the
// real column bytes are read afterwards.
//
// Per column, a reported length of zero means NULL; otherwise a buffer of
// exactly the reported length is allocated and the column value is
// re-read into it. The column width is unknown until the row is
// positioned, which is why the read takes two steps.
func (s *Stmt) Fetch() (Row, error) {
	if err := s.conn.require("fetch"); err != nil {
		return nil, err
	}
	if s.ns == nil {
		return nil, ErrStmtClosed
	}
	if s.row == nil {
		return nil, ErrNoResultSet
	}

	status, _ := s.ns.Fetch()
	if status != native.FetchOK && status != native.FetchTruncated {
		return nil, nil
	}

	out := make(Row, s.row.Slots())
	for i := range out {
		length := s.row.Lengths[i]
		if length == 0 {
			continue
		}
		dst := make([]byte, length)
		if err := s.ns.FetchColumn(i, dst); err != nil {
			return nil, &ExecuteError{Message: err.Error()}
		}
		out[i] = dst
	}
	return out, nil
}

// Close releases the compiled statement handle. Fails with *CloseError
// when the native close reports failure, but the local bind row is
// released regardless; the statement is unusable either way.
func (s *Stmt) Close() error {
	if s.ns == nil {
		return ErrStmtClosed
	}
	ns := s.ns
	s.ns = nil
	s.row = nil
	runtime.SetFinalizer(s, nil)

	if err := ns.Close(); err != nil {
		return &CloseError{Message: err.Error()}
	}
	return nil
}
