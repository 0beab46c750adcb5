package driver

import (
	"log"
	"runtime"

	"github.com/tomyedwab/mysqlbind/native"
)

// Row is one fetched row: the column values in catalog order, nil for SQL
// NULL.
type Row [][]byte

// Result owns the buffered result set of a one-shot query. Statements
// that return no result set (INSERT, UPDATE, DDL) still yield a Result,
// but one with no underlying native handle; its row accessors report
// ErrNoResultSet or zero counts.
type Result struct {
	conn *Conn
	nr   native.Result // nil for non-row-returning statements
}

// Query sends a one-shot statement and, on success, buffers the entire
// result set into local memory. On failure the connection remains open
// and usable and the returned *QueryError carries the server's message.
func (c *Conn) Query(sql []byte) (*Result, error) {
	if err := c.require("query"); err != nil {
		return nil, err
	}

	nr, err := c.nc.Query(sql)
	if err != nil {
		return nil, &QueryError{Message: err.Error()}
	}

	r := &Result{conn: c, nr: nr}
	if nr != nil {
		runtime.SetFinalizer(r, func(r *Result) {
			if r.nr != nil {
				log.Printf("mysqlbind: result leaked; freeing in finalizer")
				r.nr.Free()
				r.nr = nil
			}
		})
	}
	return r, nil
}

// Next advances the row cursor and returns the next row, or (nil, nil)
// once the set is exhausted (repeatedly, never an error). Fails with
// ErrNoResultSet when the query returned no result set and ErrZeroColumns
// when the set has no columns.
func (r *Result) Next() (Row, error) {
	if !r.conn.open {
		// A result referencing a closed connection is caller error;
		// reject rather than serve possibly stale buffers.
		return nil, &ClosedConnError{Op: "fetch"}
	}
	if r.nr == nil {
		return nil, ErrNoResultSet
	}
	if r.nr.ColumnCount() == 0 {
		return nil, ErrZeroColumns
	}

	row, ok := r.nr.FetchRow()
	if !ok {
		return nil, nil
	}
	return Row(row), nil
}

// Seek repositions the row cursor to an absolute offset, so the next Next
// returns the row at that offset. Fails with *RangeError when offset is
// outside [0, RowCount-1] or the result is unfetchable.
func (r *Result) Seek(offset uint64) error {
	if !r.conn.open {
		return &ClosedConnError{Op: "seek"}
	}
	if r.nr == nil || offset >= r.nr.RowCount() {
		return &RangeError{Offset: offset, RowCount: r.RowCount()}
	}
	r.nr.Seek(offset)
	return nil
}

// RowCount reports the number of buffered rows, 0 for an unfetchable
// result.
func (r *Result) RowCount() uint64 {
	if r.nr == nil {
		return 0
	}
	return r.nr.RowCount()
}

// ColumnCount reports the number of columns, 0 for an unfetchable result.
func (r *Result) ColumnCount() int {
	if r.nr == nil {
		return 0
	}
	return r.nr.ColumnCount()
}

// Field advances the metadata cursor one column and returns its
// descriptor, mirroring Next's semantics for data: nil once every column
// has been visited, and nil for an unfetchable result.
func (r *Result) Field() *Field {
	if r.nr == nil {
		return nil
	}
	info, ok := r.nr.FetchField()
	if !ok {
		return nil
	}
	return fieldFromInfo(info)
}

// FieldAt returns the descriptor of the column at index, nil when index
// is out of range or the result is unfetchable.
func (r *Result) FieldAt(index int) *Field {
	if r.nr == nil {
		return nil
	}
	info, ok := r.nr.FieldAt(index)
	if !ok {
		return nil
	}
	return fieldFromInfo(info)
}

// Fields returns the descriptors of every column in catalog order, nil
// when the result has no columns.
func (r *Result) Fields() []Field {
	if r.nr == nil {
		return nil
	}
	infos := r.nr.Fields()
	if len(infos) == 0 {
		return nil
	}
	fields := make([]Field, len(infos))
	for i := range infos {
		fields[i] = *fieldFromInfo(&infos[i])
	}
	return fields
}

// Free releases the buffered rows. Safe to call more than once; Next and
// the metadata accessors treat a freed result as unfetchable.
func (r *Result) Free() {
	if r.nr != nil {
		r.nr.Free()
		r.nr = nil
		runtime.SetFinalizer(r, nil)
	}
}
