package models

import "gorm.io/gorm"

// SelectionRecord stores the outcome of a decoder selection so past choices
// can be inspected through the API.
type SelectionRecord struct {
	BaseModel

	// MimeType is the requested MIME type, stored in its canonical form.
	MimeType string `gorm:"not null;size:100;index" json:"mime_type"`

	// Decoder is the chosen decoder name.
	Decoder string `gorm:"not null;size:200" json:"decoder"`

	// Profile is the codec profile code of the winning entry, 0 when the
	// decoder advertised no profiles for the MIME type.
	Profile int `json:"profile"`

	// Hardware reports whether the winning decoder is hardware-accelerated.
	Hardware bool `gorm:"default:false" json:"hardware"`

	// LowLatency reports whether the winning decoder supports low latency.
	LowLatency bool `gorm:"default:false" json:"low_latency"`
}

// TableName returns the table name for SelectionRecord.
func (SelectionRecord) TableName() string {
	return "selection_records"
}

// Validate performs basic validation on the selection record.
func (s *SelectionRecord) Validate() error {
	if s.MimeType == "" {
		return ErrMimeTypeRequired
	}
	if s.Decoder == "" {
		return ErrDecoderRequired
	}
	return nil
}

// BeforeCreate is a GORM hook that validates and sets defaults.
func (s *SelectionRecord) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	return s.Validate()
}
