package repository

import "errors"

// Common repository errors
var (
	ErrTableNotFound = errors.New("table not found")
	ErrTableExists   = errors.New("table already exists")
	ErrInvalidUUID   = errors.New("invalid UUID format")
)
