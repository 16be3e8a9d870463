package services

import (
	"context"
	"errors"
	"fmt"

	"catalog-admin/internal/models"

	"gorm.io/gorm"
)

// ensureUnique fails with DuplicateError when another record already holds
// value in column. excludeID lets an update keep its own value.
func ensureUnique(ctx context.Context, db *gorm.DB, model interface{}, column, field, value, excludeID string) error {
	q := db.WithContext(ctx).Model(model).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check %s uniqueness: %w", field, err)
	}
	if count > 0 {
		return &DuplicateError{Field: field}
	}
	return nil
}

// findByID loads dest by primary key, mapping a miss to NotFoundError.
func findByID(ctx context.Context, db *gorm.DB, dest interface{}, id, resource string) error {
	err := db.WithContext(ctx).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource}
	}
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	return nil
}

// ownerSummary returns nil without error when the owner has been deleted.
func ownerSummary(ctx context.Context, db *gorm.DB, adminID string) (*models.AdminSummary, error) {
	var summary models.AdminSummary
	err := db.WithContext(ctx).Select(summaryColumns).Where("id = ?", adminID).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owner: %w", err)
	}
	return &summary, nil
}

var summaryColumns = []string{"id", "fname", "lname", "username"}

func preloadOwner(tx *gorm.DB) *gorm.DB {
	return tx.Select(summaryColumns)
}

// pageOffset converts a 1-based page number into a row offset.
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
