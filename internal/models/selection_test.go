package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  SelectionRecord
		wantErr error
	}{
		{
			name:   "valid",
			record: SelectionRecord{MimeType: "video/avc", Decoder: "h264"},
		},
		{
			name:    "missing mime type",
			record:  SelectionRecord{Decoder: "h264"},
			wantErr: ErrMimeTypeRequired,
		},
		{
			name:    "missing decoder",
			record:  SelectionRecord{MimeType: "video/avc"},
			wantErr: ErrDecoderRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectionRecord_BeforeCreate(t *testing.T) {
	record := &SelectionRecord{MimeType: "video/hevc", Decoder: "hevc_cuvid", Profile: 2}
	require.NoError(t, record.BeforeCreate(nil))
	assert.False(t, record.ID.IsZero(), "BeforeCreate should assign an ID")

	invalid := &SelectionRecord{}
	assert.Error(t, invalid.BeforeCreate(nil))
}

func TestSelectionRecord_TableName(t *testing.T) {
	assert.Equal(t, "selection_records", SelectionRecord{}.TableName())
}
