// Package repository defines data access interfaces for decoderd entities.
// All database access goes through these interfaces, enabling easy testing
// and database backend switching.
package repository

import (
	"context"

	"github.com/decoderd/decoderd/internal/models"
)

// SelectionRepository defines operations for selection record persistence.
type SelectionRepository interface {
	// Create creates a new selection record.
	Create(ctx context.Context, record *models.SelectionRecord) error
	// GetByID retrieves a selection record by ID.
	GetByID(ctx context.Context, id models.ULID) (*models.SelectionRecord, error)
	// GetRecent retrieves the most recent selection records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*models.SelectionRecord, error)
	// GetByMimeType retrieves selection records for a MIME type, newest first.
	GetByMimeType(ctx context.Context, mimeType string, limit int) ([]*models.SelectionRecord, error)
	// Count returns the total number of selection records.
	Count(ctx context.Context) (int64, error)
	// DeleteOlderThan deletes records created before the cutoff and returns
	// the number removed.
	DeleteOlderThan(ctx context.Context, cutoff models.Time) (int64, error)
}
