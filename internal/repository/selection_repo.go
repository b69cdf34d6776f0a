// Package repository provides data access implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/decoderd/decoderd/internal/models"
	"gorm.io/gorm"
)

// defaultRecentLimit bounds GetRecent when the caller passes no limit.
const defaultRecentLimit = 50

// selectionRepository implements SelectionRepository using GORM.
type selectionRepository struct {
	db *gorm.DB
}

// NewSelectionRepository creates a new SelectionRepository.
func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

// Create creates a new selection record.
func (r *selectionRepository) Create(ctx context.Context, record *models.SelectionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validating selection record: %w", err)
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID retrieves a selection record by ID.
func (r *selectionRepository) GetByID(ctx context.Context, id models.ULID) (*models.SelectionRecord, error) {
	var record models.SelectionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrSelectionNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetRecent retrieves the most recent selection records, newest first.
func (r *selectionRepository) GetRecent(ctx context.Context, limit int) ([]*models.SelectionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var records []*models.SelectionRecord
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetByMimeType retrieves selection records for a MIME type, newest first.
func (r *selectionRepository) GetByMimeType(ctx context.Context, mimeType string, limit int) ([]*models.SelectionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var records []*models.SelectionRecord
	if err := r.db.WithContext(ctx).
		Where("mime_type = ?", mimeType).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the total number of selection records.
func (r *selectionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SelectionRecord{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan deletes records created before the cutoff.
func (r *selectionRepository) DeleteOlderThan(ctx context.Context, cutoff models.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.SelectionRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
