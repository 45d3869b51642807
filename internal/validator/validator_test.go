package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailtrack/backend/internal/models"
)

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		name    string
		to      string
		wantErr error
	}{
		{"valid address", "alice@example.com", nil},
		{"valid with display name", "Alice <alice@example.com>", nil},
		{"empty", "", ErrEmptyInput},
		{"whitespace only", "   ", ErrEmptyInput},
		{"missing domain", "alice@", ErrInvalidEmail},
		{"missing at sign", "alice.example.com", ErrInvalidEmail},
		{"too long", strings.Repeat("a", MaxRecipientLength) + "@example.com", ErrInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecipient(tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSubject(t *testing.T) {
	assert.NoError(t, ValidateSubject("Quarterly check-in"))
	assert.ErrorIs(t, ValidateSubject(""), ErrEmptyInput)
	assert.ErrorIs(t, ValidateSubject("  "), ErrEmptyInput)
	assert.ErrorIs(t, ValidateSubject(strings.Repeat("x", MaxSubjectLength+1)), ErrInputTooLong)
}

func TestValidateAttachment(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		disposition models.Disposition
		contentID   string
		wantErr     error
	}{
		{"regular attachment", "report.pdf", models.DispositionAttachment, "", nil},
		{"inline with content id", "logo.png", models.DispositionInline, "logo-1", nil},
		{"inline missing content id", "logo.png", models.DispositionInline, "", ErrMissingContentID},
		{"inline blank content id", "logo.png", models.DispositionInline, "   ", ErrMissingContentID},
		{"unknown disposition", "file.txt", models.Disposition("embedded"), "", ErrInvalidDisposition},
		{"empty filename", "", models.DispositionAttachment, "", ErrEmptyInput},
		{"filename too long", strings.Repeat("f", MaxFilenameLength+1), models.DispositionAttachment, "", ErrInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachment(tt.filename, tt.disposition, tt.contentID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
