// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// readDB returns the replica when one is configured.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isUniqueConstraintError detects duplicate-key failures from PostgreSQL
// (pgconn) and SQLite.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// mapLookupError converts a single-row lookup error into an AppError.
func mapLookupError(resource string, id interface{}, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// wrapDBError converts any non-nil persistence error into INTERNAL_ERROR.
func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	return models.NewInternalError(err)
}
