package native

// Wire-level column type codes as reported by the server in result-set
// metadata. Values follow the MySQL client/server protocol.
const (
	TypeCodeDecimal    uint8 = 0
	TypeCodeTiny       uint8 = 1
	TypeCodeShort      uint8 = 2
	TypeCodeLong       uint8 = 3
	TypeCodeFloat      uint8 = 4
	TypeCodeDouble     uint8 = 5
	TypeCodeNull       uint8 = 6
	TypeCodeTimestamp  uint8 = 7
	TypeCodeLongLong   uint8 = 8
	TypeCodeInt24      uint8 = 9
	TypeCodeDate       uint8 = 10
	TypeCodeTime       uint8 = 11
	TypeCodeDatetime   uint8 = 12
	TypeCodeYear       uint8 = 13
	TypeCodeNewDate    uint8 = 14
	TypeCodeVarchar    uint8 = 15
	TypeCodeBit        uint8 = 16
	TypeCodeNewDecimal uint8 = 246
	TypeCodeEnum       uint8 = 247
	TypeCodeSet        uint8 = 248
	TypeCodeTinyBlob   uint8 = 249
	TypeCodeMediumBlob uint8 = 250
	TypeCodeLongBlob   uint8 = 251
	TypeCodeBlob       uint8 = 252
	TypeCodeVarString  uint8 = 253
	TypeCodeString     uint8 = 254
	TypeCodeGeometry   uint8 = 255
)
