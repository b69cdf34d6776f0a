// Package service provides business logic for decoder selection.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/models"
	"github.com/decoderd/decoderd/internal/repository"
)

// SelectionService wraps the decoder selector with selection history
// persistence. The repository is optional: with a nil repository the service
// still selects decoders, it just records nothing.
type SelectionService struct {
	selector *mediacodec.Selector
	repo     repository.SelectionRepository
	logger   *slog.Logger
}

// NewSelectionService creates a new selection service.
func NewSelectionService(selector *mediacodec.Selector, repo repository.SelectionRepository) *SelectionService {
	return &SelectionService{
		selector: selector,
		repo:     repo,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *SelectionService) WithLogger(logger *slog.Logger) *SelectionService {
	s.logger = logger
	return s
}

// ChooseDecoder returns the name of the most preferred decoder for the MIME
// type. The boolean is false when no decoder qualifies.
func (s *SelectionService) ChooseDecoder(ctx context.Context, mimeType string) (string, bool) {
	entry, ok := s.Choose(ctx, mimeType)
	if !ok {
		return "", false
	}
	return entry.Name, true
}

// Choose returns the winning selection entry for the MIME type and records
// it in the selection history. Recording is best effort: a storage failure
// never affects the selection result.
func (s *SelectionService) Choose(ctx context.Context, mimeType string) (mediacodec.Entry, bool) {
	entry, ok := s.selector.ChooseEntry(ctx, mimeType)
	if !ok {
		return mediacodec.Entry{}, false
	}

	s.record(ctx, mimeType, entry)
	return entry, true
}

// ListSupportedProfiles returns profile codes the named decoder supports for
// the MIME type. The boolean is false when the decoder or MIME type is
// unknown or the decoder advertises no matching profiles.
func (s *SelectionService) ListSupportedProfiles(ctx context.Context, decoderName, mimeType string) ([]int, bool) {
	return s.selector.ListSupportedProfiles(ctx, decoderName, mimeType)
}

// ListDecoders returns all selection entries for the MIME type in preference
// order, most preferred first.
func (s *SelectionService) ListDecoders(ctx context.Context, mimeType string) []mediacodec.Entry {
	return s.selector.Rank(ctx, mimeType)
}

// History returns the most recent selection records, newest first.
func (s *SelectionService) History(ctx context.Context, limit int) ([]*models.SelectionRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetRecent(ctx, limit)
}

// HistoryRecord returns a single selection record by ID.
func (s *SelectionService) HistoryRecord(ctx context.Context, id models.ULID) (*models.SelectionRecord, error) {
	if s.repo == nil {
		return nil, models.ErrSelectionNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CountHistory returns the total number of selection records.
func (s *SelectionService) CountHistory(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.Count(ctx)
}

// PruneHistory deletes selection records created before the cutoff and
// returns the number removed.
func (s *SelectionService) PruneHistory(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.DeleteOlderThan(ctx, cutoff)
}

// HistoryByMimeType returns recent selection records for a MIME type.
func (s *SelectionService) HistoryByMimeType(ctx context.Context, mimeType string, limit int) ([]*models.SelectionRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetByMimeType(ctx, canonicalMime(mimeType), limit)
}

// record stores a selection outcome, logging and swallowing any failure.
func (s *SelectionService) record(ctx context.Context, mimeType string, entry mediacodec.Entry) {
	if s.repo == nil {
		return
	}

	canonical := canonicalMime(mimeType)

	rec := &models.SelectionRecord{
		MimeType:   canonical,
		Decoder:    entry.Name,
		Profile:    entry.Profile,
		Hardware:   entry.Hardware,
		LowLatency: entry.LowLatency,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		s.logger.Warn("failed to record selection",
			slog.String("mime_type", canonical),
			slog.String("decoder", entry.Name),
			slog.String("error", err.Error()),
		)
	}
}

// canonicalMime normalizes a MIME identifier to its canonical platform form
// for storage, leaving unrecognized identifiers unchanged.
func canonicalMime(mimeType string) string {
	family, ok := mediacodec.ParseFamily(mimeType)
	if !ok {
		return mimeType
	}
	return mediacodec.CanonicalMimeType(family)
}
