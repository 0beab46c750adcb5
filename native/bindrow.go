package native

// BindRow is a reusable array of bind descriptors, one slot per parameter
// or per result column. It is the single structure shared across the
// interface boundary for both directions of a prepared-statement
// execution: the driver fills Buffers/Lengths/IsNull to send parameters,
// and the library fills Lengths/IsNull/Truncated when receiving a row.
type BindRow struct {
	// Lengths holds the byte length of each slot. On the parameter phase
	// the driver sets it; on the result phase the library overwrites it
	// after every fetch with the column's actual length.
	Lengths []uint64

	// IsNull marks slots carrying SQL NULL.
	IsNull []bool

	// Truncated marks result slots whose actual length exceeded the
	// receive buffer on the last fetch.
	Truncated []bool

	// Buffers holds the slot payloads. Parameter slots point at
	// caller-owned bytes; result slots start empty and are only
	// populated through Stmt.FetchColumn.
	Buffers [][]byte
}

// NewBindRow allocates a bind row with n descriptor slots.
func NewBindRow(n int) *BindRow {
	return &BindRow{
		Lengths:   make([]uint64, n),
		IsNull:    make([]bool, n),
		Truncated: make([]bool, n),
		Buffers:   make([][]byte, n),
	}
}

// Slots reports the number of descriptor slots.
func (r *BindRow) Slots() int {
	if r == nil {
		return 0
	}
	return len(r.Lengths)
}

// Reset clears every descriptor so the row can be reused for another
// fetch cycle without reallocating.
func (r *BindRow) Reset() {
	for i := range r.Lengths {
		r.Lengths[i] = 0
		r.IsNull[i] = false
		r.Truncated[i] = false
		r.Buffers[i] = nil
	}
}
