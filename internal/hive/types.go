// Package hive computes Hive-compatible bucket numbers for partition
// pruning. The hash must reproduce, bit for bit, the value the Hive
// write path assigned when the data was bucketed; any deviation makes
// pruning skip files that do contain matching rows.
package hive

// PrimitiveKind is one of the closed set of primitive column types
// bucketing supports. The set is closed by the storage format's
// design; all other Hive types make bucketing inapplicable.
type PrimitiveKind int

const (
	KindBoolean PrimitiveKind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindString
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "tinyint"
	case KindShort:
		return "smallint"
	case KindInt:
		return "int"
	case KindLong:
		return "bigint"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// KindForHiveType maps a Hive type name to its primitive kind. The
// second return is false for any type outside the supported set,
// including all complex types.
func KindForHiveType(hiveType string) (PrimitiveKind, bool) {
	switch hiveType {
	case "boolean":
		return KindBoolean, true
	case "tinyint":
		return KindByte, true
	case "smallint":
		return KindShort, true
	case "int":
		return KindInt, true
	case "bigint":
		return KindLong, true
	case "string":
		return KindString, true
	}
	return 0, false
}

// ColumnBinding pairs a bucket column's primitive kind with the value
// a predicate bound to it. Integer-kinded values travel as int64 and
// are narrowed by truncation at hash time.
type ColumnBinding struct {
	Kind  PrimitiveKind
	Value any
}
