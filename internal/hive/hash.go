package hive

import (
	"fmt"
	"math"
)

// The hash below mirrors Hive's GenericUDFHash over
// ObjectInspectorUtils.hashCode: per-argument 32-bit hash codes are
// combined in column order as r = r*31 + h with Java int overflow
// semantics, then reduced to a bucket via (r & Integer.MAX_VALUE) %
// bucketCount. int32 arithmetic in Go wraps identically.

// hashBindings combines the hash codes of all bound values in order.
func hashBindings(bindings []ColumnBinding) (int32, error) {
	var result int32
	for _, binding := range bindings {
		h, err := hashValue(binding)
		if err != nil {
			return 0, err
		}
		result = result*31 + h
	}
	return result, nil
}

// hashValue computes the legacy 32-bit hash code of one bound value,
// applying the type-specific coercions of the write path. Narrowing
// to byte/short/int truncates; it does not range-check.
func hashValue(binding ColumnBinding) (int32, error) {
	switch binding.Kind {
	case KindBoolean:
		v, ok := binding.Value.(bool)
		if !ok {
			return 0, typeError(binding)
		}
		if v {
			return 1, nil
		}
		return 0, nil
	case KindByte:
		v, ok := binding.Value.(int64)
		if !ok {
			return 0, typeError(binding)
		}
		return int32(int8(v)), nil
	case KindShort:
		v, ok := binding.Value.(int64)
		if !ok {
			return 0, typeError(binding)
		}
		return int32(int16(v)), nil
	case KindInt:
		v, ok := binding.Value.(int64)
		if !ok {
			return 0, typeError(binding)
		}
		return int32(v), nil
	case KindLong:
		v, ok := binding.Value.(int64)
		if !ok {
			return 0, typeError(binding)
		}
		return int32(v ^ int64(uint64(v)>>32)), nil
	case KindString:
		v, ok := binding.Value.(string)
		if !ok {
			return 0, typeError(binding)
		}
		return hashString(v), nil
	}
	return 0, fmt.Errorf("unsupported primitive kind: %v", binding.Kind)
}

// hashString reproduces Hive's string hash code: r = r*31 + b over
// the UTF-8 bytes, bytes taken as signed. Equal to Java's
// String.hashCode for pure-ASCII strings.
func hashString(s string) int32 {
	var r int32
	for i := 0; i < len(s); i++ {
		r = r*31 + int32(int8(s[i]))
	}
	return r
}

// bucketForHash reduces a combined hash into [0, bucketCount) using
// the partitioner's non-negative modulo convention.
func bucketForHash(hash int32, bucketCount int) int {
	return int(hash&math.MaxInt32) % bucketCount
}

func typeError(binding ColumnBinding) error {
	return fmt.Errorf("unexpected value of type %T for %s bucket column", binding.Value, binding.Kind)
}
