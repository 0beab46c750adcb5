package nativetest

import (
	"fmt"

	"github.com/tomyedwab/mysqlbind/native"
)

// Stmt is one scripted prepared statement.
type Stmt struct {
	conn *Conn

	// ID names the statement handle in error messages.
	ID string

	// Executions counts successful Execute calls.
	Executions int

	// Closed is set by Close.
	Closed bool

	// LastParams holds the parameter values of the most recent
	// execution, nil entries marking NULL parameters.
	LastParams [][]byte

	script *StmtScript

	params *native.BindRow
	result *native.BindRow

	rows   [][][]byte
	cursor int
	// current is the row positioned by the last successful Fetch.
	current [][]byte
}

// ParamCount implements native.Stmt. Reading the declared count is local
// and does not contact the server.
func (s *Stmt) ParamCount() int { return s.script.Params }

// ColumnCount implements native.Stmt.
func (s *Stmt) ColumnCount() int { return len(s.script.Columns) }

// BindParams implements native.Stmt.
func (s *Stmt) BindParams(row *native.BindRow) error {
	s.conn.Calls++
	if s.script.BindParamsError != "" {
		return s.conn.fail(2036, s.script.BindParamsError)
	}
	s.params = row
	return nil
}

// Execute implements native.Stmt.
func (s *Stmt) Execute() error {
	s.conn.Calls++
	if s.script.ExecuteError != "" {
		return s.conn.fail(1064, s.script.ExecuteError)
	}
	if s.params == nil || s.params.Slots() != s.script.Params {
		return s.conn.fail(2031, fmt.Sprintf("nativetest: statement %s executed with %d bound parameters, declared %d",
			s.ID, s.params.Slots(), s.script.Params))
	}

	params := make([][]byte, s.params.Slots())
	for i := range params {
		if s.params.IsNull[i] {
			continue
		}
		params[i] = s.params.Buffers[i]
	}
	s.LastParams = params
	s.params = nil

	if s.script.Respond != nil {
		s.rows = s.script.Respond(params)
	} else {
		s.rows = s.script.Rows
	}
	s.cursor = 0
	s.current = nil
	s.Executions++
	s.conn.ok()
	s.conn.affected = s.script.Affected
	s.conn.insertID = s.script.InsertID
	return nil
}

// BindResult implements native.Stmt.
func (s *Stmt) BindResult(row *native.BindRow) error {
	s.conn.Calls++
	if s.script.BindResultError != "" {
		return s.conn.fail(2036, s.script.BindResultError)
	}
	s.result = row
	return nil
}

// Fetch implements native.Stmt. The bound receive buffers are
// zero-length, so any row with a non-empty column reports FetchTruncated,
// exactly as the C library would; the driver is expected to follow up
// with FetchColumn reads.
func (s *Stmt) Fetch() (native.FetchStatus, error) {
	s.conn.Calls++
	if s.result == nil {
		return native.FetchError, fmt.Errorf("nativetest: fetch on statement %s with no bound result", s.ID)
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
func (s *Stmt) FetchColumn(index int, dst []byte) error {
	s.conn.Calls++
	if s.current == nil {
		return fmt.Errorf("nativetest: fetch_column on statement %s with no positioned row", s.ID)
	}
	if index < 0 || index >= len(s.current) {
		return fmt.Errorf("nativetest: fetch_column index %d out of range on statement %s", index, s.ID)
	}
	copy(dst, s.current[index])
	return nil
}

// Close implements native.Stmt.
func (s *Stmt) Close() error {
	s.conn.Calls++
	s.Closed = true
	if s.script.CloseError != "" {
		return s.conn.fail(2030, s.script.CloseError)
	}
	return nil
}
