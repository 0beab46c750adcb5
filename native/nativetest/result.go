package nativetest

import "github.com/tomyedwab/mysqlbind/native"

// result is a buffered result set over a canned script, with independent
// row and field cursors.
type result struct {
	fields []native.FieldInfo
	rows   [][][]byte

	rowCursor   uint64
	fieldCursor int
	freed       bool
}

func newResult(res *Result) *result {
	return &result{fields: res.Fields, rows: res.Rows}
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
