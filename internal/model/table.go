package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StorageKind identifies which filesystem a table's location lives on.
type StorageKind string

const (
	StorageKindHDFS StorageKind = "hdfs"
	StorageKindS3   StorageKind = "s3"
)

// Column is one column of a table schema. Type is the Hive type name
// ("int", "string", "struct<...>", ...).
type Column struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// ColumnList is a JSON-encoded column list stored in a single column.
type ColumnList []Column

// Value implements driver.Valuer interface for GORM
func (cl ColumnList) Value() (driver.Value, error) {
	return json.Marshal(cl)
}

// Scan implements sql.Scanner interface for GORM
func (cl *ColumnList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return json.Unmarshal([]byte(v.(string)), cl)
	}

	return json.Unmarshal(bytes, cl)
}

// StringList is a JSON-encoded string list stored in a single column.
type StringList []string

// Value implements driver.Valuer interface for GORM
func (sl StringList) Value() (driver.Value, error) {
	return json.Marshal(sl)
}

// Scan implements sql.Scanner interface for GORM
func (sl *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return json.Unmarshal([]byte(v.(string)), sl)
	}

	return json.Unmarshal(bytes, sl)
}

// Table is the metastore record for one table: where its files live,
// its schema, and its bucketing declaration. BucketColumns empty or
// BucketCount <= 0 means the table is not bucketed, which is not an
// error; bucketing is simply absent.
type Table struct {
	ID            string      `gorm:"type:char(36);primaryKey" json:"id"`
	Schema        string      `gorm:"size:255;not null;uniqueIndex:idx_schema_name" json:"schema"`
	Name          string      `gorm:"size:255;not null;uniqueIndex:idx_schema_name" json:"name"`
	Storage       StorageKind `gorm:"type:enum('hdfs','s3');not null;default:'hdfs'" json:"storage"`
	Location      string      `gorm:"size:1024;not null" json:"location"`
	Columns       ColumnList  `gorm:"type:json;not null" json:"columns"`
	BucketColumns StringList  `gorm:"type:json" json:"bucketColumns,omitempty"`
	BucketCount   int         `gorm:"default:0" json:"bucketCount"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName returns the database table name for the Table model
func (Table) TableName() string {
	return "catalog_tables"
}

// BeforeCreate generates a new UUID if ID is empty
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// ColumnType returns the Hive type of the named column.
func (t *Table) ColumnType(name string) (string, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col.Type, true
		}
	}
	return "", false
}
