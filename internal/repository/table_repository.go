package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"quarry-hive/internal/model"
)

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a new instance of TableRepository
func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

// Create a new table record
func (r *tableRepository) Create(ctx context.Context, table *model.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

// GetByID retrieves a table by its UUID
func (r *tableRepository) GetByID(ctx context.Context, id string) (*model.Table, error) {
	var table model.Table
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&table)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, result.Error
	}
	return &table, nil
}

// GetByName retrieves a table by schema and name
func (r *tableRepository) GetByName(ctx context.Context, schema, name string) (*model.Table, error) {
	var table model.Table
	result := r.db.WithContext(ctx).Where("`schema` = ? AND name = ?", schema, name).First(&table)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, result.Error
	}
	return &table, nil
}

// GetAll retrieves tables with pagination, optionally filtered by schema
func (r *tableRepository) GetAll(ctx context.Context, schema string, limit, offset int) ([]*model.Table, int64, error) {
	var tables []*model.Table
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Table{})
	if schema != "" {
		query = query.Where("`schema` = ?", schema)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := query.Limit(limit).Offset(offset).Order("created_at DESC").Find(&tables)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return tables, total, nil
}

// Update updates an existing table record
func (r *tableRepository) Update(ctx context.Context, table *model.Table) error {
	result := r.db.WithContext(ctx).Save(table)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTableNotFound
	}
	return nil
}

// Delete removes a table record
func (r *tableRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Table{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTableNotFound
	}
	return nil
}
