package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/models"
	"github.com/decoderd/decoderd/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubRegistry is a fixed-inventory registry for service tests.
type stubRegistry struct {
	descriptors []mediacodec.Descriptor
	err         error
}

func (s *stubRegistry) Decoders(_ context.Context) ([]mediacodec.Descriptor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.descriptors, nil
}

func (s *stubRegistry) DecoderProfiles(_ context.Context, name, mimeType string) ([]int, error) {
	for _, d := range s.descriptors {
		if d.Name == name && !d.Encoder {
			return d.ProfilesFor(mimeType), nil
		}
	}
	return nil, errors.New("no such decoder: " + name)
}

func (s *stubRegistry) Features(_ context.Context) mediacodec.Features {
	return mediacodec.AllFeatures()
}

func hwPtr(b bool) *bool { return &b }

func testDescriptors() []mediacodec.Descriptor {
	return []mediacodec.Descriptor{
		{
			Name:      "h264",
			MimeTypes: []string{"video/avc"},
			Hardware:  hwPtr(false),
			Profiles: map[string][]int{
				"video/avc": {mediacodec.AVCProfileBaseline, mediacodec.AVCProfileHigh},
			},
		},
		{
			Name:      "h264_cuvid",
			MimeTypes: []string{"video/avc"},
			Hardware:  hwPtr(true),
			Profiles: map[string][]int{
				"video/avc": {mediacodec.AVCProfileHigh},
			},
		},
	}
}

func setupService(t *testing.T, reg mediacodec.Registry) (*SelectionService, repository.SelectionRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SelectionRecord{}))

	repo := repository.NewSelectionRepository(db)
	selector := mediacodec.NewSelector(reg, nil, nil)
	return NewSelectionService(selector, repo), repo
}

func TestSelectionService_Choose_RecordsHistory(t *testing.T) {
	svc, repo := setupService(t, &stubRegistry{descriptors: testDescriptors()})
	ctx := context.Background()

	entry, ok := svc.Choose(ctx, "video/avc")
	require.True(t, ok)
	assert.Equal(t, "h264_cuvid", entry.Name)
	assert.True(t, entry.Hardware)

	records, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "video/avc", records[0].MimeType)
	assert.Equal(t, "h264_cuvid", records[0].Decoder)
	assert.True(t, records[0].Hardware)
}

func TestSelectionService_Choose_NoResultRecordsNothing(t *testing.T) {
	svc, repo := setupService(t, &stubRegistry{descriptors: testDescriptors()})
	ctx := context.Background()

	_, ok := svc.Choose(ctx, "video/unknown")
	assert.False(t, ok)

	records, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSelectionService_ChooseDecoder(t *testing.T) {
	svc, _ := setupService(t, &stubRegistry{descriptors: testDescriptors()})

	name, ok := svc.ChooseDecoder(context.Background(), "video/avc")
	require.True(t, ok)
	assert.Equal(t, "h264_cuvid", name)
}

func TestSelectionService_RegistryFault(t *testing.T) {
	svc, repo := setupService(t, &stubRegistry{err: errors.New("probe failed")})
	ctx := context.Background()

	_, ok := svc.Choose(ctx, "video/avc")
	assert.False(t, ok)

	records, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSelectionService_ListSupportedProfiles(t *testing.T) {
	svc, _ := setupService(t, &stubRegistry{descriptors: testDescriptors()})
	ctx := context.Background()

	profiles, ok := svc.ListSupportedProfiles(ctx, "h264", "video/avc")
	require.True(t, ok)
	assert.ElementsMatch(t, []int{mediacodec.AVCProfileBaseline, mediacodec.AVCProfileHigh}, profiles)

	_, ok = svc.ListSupportedProfiles(ctx, "nonexistent", "video/avc")
	assert.False(t, ok)
}

func TestSelectionService_ListDecoders(t *testing.T) {
	svc, _ := setupService(t, &stubRegistry{descriptors: testDescriptors()})

	entries := svc.ListDecoders(context.Background(), "video/avc")
	require.Len(t, entries, 3)
	assert.Equal(t, "h264_cuvid", entries[0].Name, "hardware decoder should rank first")

	assert.Empty(t, svc.ListDecoders(context.Background(), "video/unknown"))
}

func TestSelectionService_History_CanonicalMime(t *testing.T) {
	svc, _ := setupService(t, &stubRegistry{descriptors: testDescriptors()})
	ctx := context.Background()

	// Alias MIME type is stored canonically
	_, ok := svc.Choose(ctx, "video/h264")
	require.True(t, ok)

	records, err := svc.HistoryByMimeType(ctx, "video/h264", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "video/avc", records[0].MimeType)

	all, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSelectionService_NilRepository(t *testing.T) {
	selector := mediacodec.NewSelector(&stubRegistry{descriptors: testDescriptors()}, nil, nil)
	svc := NewSelectionService(selector, nil)
	ctx := context.Background()

	name, ok := svc.ChooseDecoder(ctx, "video/avc")
	require.True(t, ok)
	assert.Equal(t, "h264_cuvid", name)

	records, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSelectionService_HistoryRecord(t *testing.T) {
	svc, repo := setupService(t, &stubRegistry{descriptors: testDescriptors()})
	ctx := context.Background()

	_, ok := svc.Choose(ctx, "video/avc")
	require.True(t, ok)

	records, err := repo.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got, err := svc.HistoryRecord(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, got.ID)
	assert.Equal(t, "h264_cuvid", got.Decoder)

	_, err = svc.HistoryRecord(ctx, models.NewULID())
	assert.ErrorIs(t, err, models.ErrSelectionNotFound)
}

func TestSelectionService_CountAndPruneHistory(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SelectionRecord{}))

	selector := mediacodec.NewSelector(&stubRegistry{descriptors: testDescriptors()}, nil, nil)
	svc := NewSelectionService(selector, repository.NewSelectionRepository(db))
	ctx := context.Background()

	_, ok := svc.Choose(ctx, "video/avc")
	require.True(t, ok)
	_, ok = svc.Choose(ctx, "video/h264")
	require.True(t, ok)

	count, err := svc.CountHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Age one record past the cutoff
	var oldest models.SelectionRecord
	require.NoError(t, db.Order("created_at asc").First(&oldest).Error)
	require.NoError(t, db.Model(&oldest).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	deleted, err := svc.PruneHistory(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err = svc.CountHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSelectionService_NilRepository_History(t *testing.T) {
	selector := mediacodec.NewSelector(&stubRegistry{descriptors: testDescriptors()}, nil, nil)
	svc := NewSelectionService(selector, nil)
	ctx := context.Background()

	count, err := svc.CountHistory(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	deleted, err := svc.PruneHistory(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = svc.HistoryRecord(ctx, models.NewULID())
	assert.ErrorIs(t, err, models.ErrSelectionNotFound)
}
