package hive

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"quarry-hive/internal/model"
)

var hashEvaluationFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quarry_bucket_hash_failures_total",
		Help: "Total number of bucket hash evaluations that failed",
	},
	[]string{"table"},
)

// Diagnostics receives structured diagnostic events from the
// calculator. Hash evaluation failures are reported here instead of
// surfacing as errors: pruning is an optimization, so bucketing just
// becomes inapplicable.
type Diagnostics interface {
	HashEvaluationFailed(table string, err error)
}

// LogDiagnostics emits diagnostic events through the standard logger.
type LogDiagnostics struct{}

func (LogDiagnostics) HashEvaluationFailed(table string, err error) {
	hashEvaluationFailures.WithLabelValues(table).Inc()
	log.Printf("error evaluating bucket number for table %s: %v", table, err)
}

// NopDiagnostics discards all diagnostic events.
type NopDiagnostics struct{}

func (NopDiagnostics) HashEvaluationFailed(string, error) {}

// Calculator computes bucket numbers. It holds no mutable state;
// every computation is pure and deterministic.
type Calculator struct {
	diag Diagnostics
}

// NewCalculator creates a calculator reporting failures to diag.
// A nil diag discards diagnostics.
func NewCalculator(diag Diagnostics) *Calculator {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Calculator{diag: diag}
}

// BucketNumber returns the bucket a row with the given column-value
// bindings would have been written to, or false when bucketing cannot
// be determined: the table is not bucketed, a bucket column has an
// unsupported type, or not every bucket column is bound. None of
// those are errors; the caller simply skips pruning.
func (c *Calculator) BucketNumber(table *model.Table, bindings map[string]any) (int, bool) {
	if len(table.BucketColumns) == 0 || table.BucketCount <= 0 || len(bindings) == 0 {
		return 0, false
	}

	// Verify the bucket column types are supported.
	kinds := make(map[string]PrimitiveKind, len(table.BucketColumns))
	for _, column := range table.BucketColumns {
		hiveType, ok := table.ColumnType(column)
		if !ok {
			return 0, false
		}
		kind, ok := KindForHiveType(hiveType)
		if !ok {
			return 0, false
		}
		kinds[column] = kind
	}

	// Keep only bindings for bucket columns.
	bucketBindings := make(map[string]any)
	for name, value := range bindings {
		if _, ok := kinds[name]; ok {
			bucketBindings[name] = value
		}
	}

	// Every bucket column must be bound.
	if len(bucketBindings) != len(table.BucketColumns) {
		return 0, false
	}

	// Order the bindings by the declared bucket-column order; the
	// write-path hash is order sensitive.
	columnBindings := make([]ColumnBinding, 0, len(table.BucketColumns))
	for _, column := range table.BucketColumns {
		columnBindings = append(columnBindings, ColumnBinding{
			Kind:  kinds[column],
			Value: bucketBindings[column],
		})
	}

	return c.bucketNumber(table.Schema+"."+table.Name, columnBindings, table.BucketCount)
}

// BucketNumberForBindings computes the bucket for an already ordered
// binding list, reproducing the legacy write-path hash.
func (c *Calculator) BucketNumberForBindings(bindings []ColumnBinding, bucketCount int) (int, bool) {
	return c.bucketNumber("", bindings, bucketCount)
}

func (c *Calculator) bucketNumber(table string, bindings []ColumnBinding, bucketCount int) (int, bool) {
	hash, err := hashBindings(bindings)
	if err != nil {
		c.diag.HashEvaluationFailed(table, err)
		return 0, false
	}
	return bucketForHash(hash, bucketCount), true
}
