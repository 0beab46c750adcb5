package native

// Escape returns a copy of input with every byte that must not appear raw
// inside a MySQL string literal replaced by its backslash escape. This is
// the charset-unaware algorithm of mysql_escape_string; the caller is
// responsible for the surrounding quotes.
func Escape(input []byte) []byte {
	out := make([]byte, 0, len(input)+len(input)/8)
	for _, b := range input {
		switch b {
		case 0x00:
			out = append(out, '\\', '0')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case 0x1a:
			out = append(out, '\\', 'Z')
		case '\'':
			out = append(out, '\\', '\'')
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		default:
			out = append(out, b)
		}
	}
	return out
}
