package database

import (
	"context"
	"testing"
	"time"

	"github.com/decoderd/decoderd/internal/config"
	"github.com/decoderd/decoderd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             ":memory:",
		MaxOpenConns:    1, // SQLite in-memory requires single connection
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        "warn",
	}

	db, err := New(cfg, nil)
	require.NoError(t, err)
	return db
}

func TestNew_SQLite(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.Ping(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, "sqlite", db.Driver())
}

func TestNew_InvalidDriver(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: "invalid",
		DSN:    ":memory:",
	}

	db, err := New(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDB_Migrate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	require.NoError(t, db.Migrate())

	// Schema should exist and accept a record
	record := &models.SelectionRecord{
		MimeType: "video/avc",
		Decoder:  "h264",
		Profile:  8,
		Hardware: false,
	}
	require.NoError(t, db.Create(record).Error)
	assert.False(t, record.ID.IsZero())

	var count int64
	require.NoError(t, db.Model(&models.SelectionRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDB_WithContext(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	ctxDB := db.WithContext(ctx)
	require.NotNil(t, ctxDB)
	assert.Equal(t, "sqlite", ctxDB.Driver())
}

func TestDB_Stats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Contains(t, stats, "open_connections")
	assert.Contains(t, stats, "in_use")
}

func TestDB_Close(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Close())

	// Ping after close should fail
	assert.Error(t, db.Ping(context.Background()))
}
