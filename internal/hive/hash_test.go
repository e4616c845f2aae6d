package hive

import "testing"

func TestHashString(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"", 0},
		{"a", 97},
		{"abc", 96354},
		{"test", 3556498},
		{"hive", 3202928},
		// Multi-byte UTF-8 hashes over signed bytes, diverging from
		// Java String.hashCode over chars.
		{"héllo", -1376354943},
	}

	for _, tt := range tests {
		if got := hashString(tt.input); got != tt.want {
			t.Errorf("hashString(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestHashValue(t *testing.T) {
	tests := []struct {
		name    string
		binding ColumnBinding
		want    int32
	}{
		{"boolean true", ColumnBinding{KindBoolean, true}, 1},
		{"boolean false", ColumnBinding{KindBoolean, false}, 0},
		{"byte", ColumnBinding{KindByte, int64(42)}, 42},
		{"byte negative", ColumnBinding{KindByte, int64(-1)}, -1},
		{"byte truncates", ColumnBinding{KindByte, int64(300)}, 44},
		{"short", ColumnBinding{KindShort, int64(-123)}, -123},
		{"short truncates", ColumnBinding{KindShort, int64(-40000)}, 25536},
		{"int", ColumnBinding{KindInt, int64(7)}, 7},
		{"int negative", ColumnBinding{KindInt, int64(-7)}, -7},
		{"int max", ColumnBinding{KindInt, int64(2147483647)}, 2147483647},
		{"long small folds to itself", ColumnBinding{KindLong, int64(123)}, 123},
		{"long folds high word", ColumnBinding{KindLong, int64(1234567890123)}, 1912276436},
		{"long minus one folds to zero", ColumnBinding{KindLong, int64(-1)}, 0},
		{"long above 32 bits", ColumnBinding{KindLong, int64(1)<<33 + 5}, 7},
		{"string", ColumnBinding{KindString, "test"}, 3556498},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hashValue(tt.binding)
			if err != nil {
				t.Fatalf("hashValue: %v", err)
			}
			if got != tt.want {
				t.Errorf("hashValue(%v %v) = %d, want %d", tt.binding.Kind, tt.binding.Value, got, tt.want)
			}
		})
	}
}

func TestHashValueRejectsMismatchedCarrier(t *testing.T) {
	tests := []ColumnBinding{
		{KindBoolean, int64(1)},
		{KindInt, "7"},
		{KindInt, 7}, // int, not int64
		{KindLong, 3.14},
		{KindString, int64(0)},
		{KindString, nil},
	}

	for _, binding := range tests {
		if _, err := hashValue(binding); err == nil {
			t.Errorf("hashValue(%v %T) succeeded, want error", binding.Kind, binding.Value)
		}
	}
}

func TestHashBindingsCombinesInOrder(t *testing.T) {
	tests := []struct {
		name     string
		bindings []ColumnBinding
		want     int32
	}{
		{"empty", nil, 0},
		{"single int", []ColumnBinding{{KindInt, int64(7)}}, 7},
		{
			"int then string",
			[]ColumnBinding{{KindInt, int64(42)}, {KindString, "hive"}},
			3204230,
		},
		{
			"string then int",
			[]ColumnBinding{{KindString, "hive"}, {KindInt, int64(42)}},
			99290810,
		},
		{
			"boolean string int",
			[]ColumnBinding{{KindBoolean, true}, {KindString, "abc"}, {KindInt, int64(123)}},
			2988058,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hashBindings(tt.bindings)
			if err != nil {
				t.Fatalf("hashBindings: %v", err)
			}
			if got != tt.want {
				t.Errorf("hashBindings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBucketForHash(t *testing.T) {
	tests := []struct {
		hash        int32
		bucketCount int
		want        int
	}{
		{7, 4, 3},
		{0, 2, 0},
		{3556498, 16, 2},
		{1912276436, 32, 20},
		{2147483647, 100, 47},
		// Negative hashes are masked non-negative before the modulo.
		{-7, 4, 1},
		{-2147483648, 4, 0},
	}

	for _, tt := range tests {
		if got := bucketForHash(tt.hash, tt.bucketCount); got != tt.want {
			t.Errorf("bucketForHash(%d, %d) = %d, want %d", tt.hash, tt.bucketCount, got, tt.want)
		}
	}
}
