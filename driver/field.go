package driver

import "github.com/tomyedwab/mysqlbind/native"

// FieldType is the driver's portable column-type enumeration, decoupled
// from the server's wire type codes.
type FieldType int

const (
	TypeInt FieldType = iota
	TypeFloat
	TypeString
	TypeSet
	TypeEnum
	TypeDateTime
	TypeDate
	TypeTime
	TypeYear
	TypeTimestamp
	TypeUnknown
	TypeInt64
	TypeBlob
	TypeDecimal
)

var fieldTypeNames = map[FieldType]string{
	TypeInt:       "int",
	TypeFloat:     "float",
	TypeString:    "string",
	TypeSet:       "set",
	TypeEnum:      "enum",
	TypeDateTime:  "datetime",
	TypeDate:      "date",
	TypeTime:      "time",
	TypeYear:      "year",
	TypeTimestamp: "timestamp",
	TypeUnknown:   "unknown",
	TypeInt64:     "int64",
	TypeBlob:      "blob",
	TypeDecimal:   "decimal",
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

var wireTypeMap = map[uint8]FieldType{
	native.TypeCodeDecimal:    TypeDecimal,
	native.TypeCodeTiny:       TypeInt,
	native.TypeCodeShort:      TypeInt,
	native.TypeCodeLong:       TypeInt,
	native.TypeCodeFloat:      TypeFloat,
	native.TypeCodeDouble:     TypeFloat,
	native.TypeCodeNull:       TypeString,
	native.TypeCodeTimestamp:  TypeTimestamp,
	native.TypeCodeLongLong:   TypeInt64,
	native.TypeCodeInt24:      TypeInt,
	native.TypeCodeDate:       TypeDate,
	native.TypeCodeTime:       TypeTime,
	native.TypeCodeDatetime:   TypeDateTime,
	native.TypeCodeYear:       TypeYear,
	native.TypeCodeNewDate:    TypeUnknown,
	native.TypeCodeEnum:       TypeEnum,
	native.TypeCodeSet:        TypeSet,
	native.TypeCodeTinyBlob:   TypeBlob,
	native.TypeCodeMediumBlob: TypeBlob,
	native.TypeCodeLongBlob:   TypeBlob,
	native.TypeCodeBlob:       TypeBlob,
	native.TypeCodeVarString:  TypeString,
	native.TypeCodeString:     TypeString,
}

// FieldTypeFromWire maps a server-reported wire type code to the portable
// enumeration. Codes outside the fixed table map to TypeUnknown.
func FieldTypeFromWire(code uint8) FieldType {
	if t, ok := wireTypeMap[code]; ok {
		return t
	}
	return TypeUnknown
}

// Field is an immutable snapshot of one column's metadata.
type Field struct {
	// Name is the column name. Always present.
	Name string

	// Table is the owning table's name, empty for computed columns.
	Table string

	// Default is the column's default value, nil when there is none.
	Default []byte

	// Type is the portable column type.
	Type FieldType

	// MaxLength is the widest value of this column in the buffered
	// result set, in bytes.
	MaxLength uint32

	// Flags is the server's column flag bitset, passed through untouched.
	Flags uint16

	// Decimals is the number of decimal digits for numeric columns.
	Decimals uint8
}

func fieldFromInfo(info *native.FieldInfo) *Field {
	if info == nil {
		return nil
	}
	return &Field{
		Name:      info.Name,
		Table:     info.Table,
		Default:   info.Default,
		Type:      FieldTypeFromWire(info.TypeCode),
		MaxLength: info.MaxLength,
		Flags:     info.Flags,
		Decimals:  info.Decimals,
	}
}
