// Package validator provides input validation for send requests and
// attachment descriptors.
package validator

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/mailtrack/backend/internal/models"
)

// Validation errors
var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmptyInput         = errors.New("input cannot be empty")
	ErrInputTooLong       = errors.New("input exceeds maximum length")
	ErrInvalidDisposition = errors.New("disposition must be 'attachment' or 'inline'")
	ErrMissingContentID   = errors.New("inline attachments require a content_id")
)

// Maximum lengths, matching the column sizes
const (
	MaxRecipientLength = 320
	MaxSubjectLength   = 998
	MaxFilenameLength  = 512
)

// ValidateRecipient validates the To address of a send request.
func ValidateRecipient(to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrEmptyInput
	}
	if len(to) > MaxRecipientLength {
		return ErrInputTooLong
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateSubject validates the subject of a send request.
func ValidateSubject(subject string) error {
	if strings.TrimSpace(subject) == "" {
		return ErrEmptyInput
	}
	if len(subject) > MaxSubjectLength {
		return ErrInputTooLong
	}
	return nil
}

// ValidateAttachment checks an attachment descriptor: known disposition,
// filename present, and the content-id pairing rule (required exactly
// for inline parts).
func ValidateAttachment(filename string, disposition models.Disposition, contentID string) error {
	if strings.TrimSpace(filename) == "" {
		return ErrEmptyInput
	}
	if len(filename) > MaxFilenameLength {
		return ErrInputTooLong
	}

	switch disposition {
	case models.DispositionAttachment, models.DispositionInline:
	default:
		return ErrInvalidDisposition
	}

	if disposition == models.DispositionInline && strings.TrimSpace(contentID) == "" {
		return ErrMissingContentID
	}
	return nil
}
