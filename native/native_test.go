package native

import (
	"bytes"
	"testing"
)

func TestBindRow(t *testing.T) {
	row := NewBindRow(3)
	if row.Slots() != 3 {
		t.Fatalf("expected 3 slots, got %d", row.Slots())
	}

	row.Buffers[0] = []byte("abc")
	row.Lengths[0] = 3
	row.IsNull[1] = true
	row.Truncated[2] = true

	row.Reset()
	for i := 0; i < 3; i++ {
		if row.Lengths[i] != 0 || row.IsNull[i] || row.Truncated[i] || row.Buffers[i] != nil {
			t.Errorf("slot %d not cleared after Reset", i)
		}
	}

	var nilRow *BindRow
	if nilRow.Slots() != 0 {
		t.Error("expected 0 slots on nil row")
	}
}

func TestEscape(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a'b", `a\'b`},
		{`a"b`, `a\"b`},
		{`a\b`, `a\\b`},
		{"a\nb", `a\nb`},
		{"a\rb", `a\rb`},
		{"a\x00b", `a\0b`},
		{"a\x1ab", `a\Zb`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Escape([]byte(tc.in)); !bytes.Equal(got, []byte(tc.want)) {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
