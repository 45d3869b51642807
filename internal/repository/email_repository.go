package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mailtrack/backend/internal/models"
	"gorm.io/gorm"
)

// EmailRepository defines the interface for sent-email data access
type EmailRepository interface {
	CreateWithAttachments(ctx context.Context, email *models.Email, attachments []models.EmailAttachment) error
	GetByID(ctx context.Context, id uint) (*models.Email, error)
	List(ctx context.Context, limit, offset int) ([]models.Email, int64, error)
	SetResponded(ctx context.Context, id uint, responded bool, at time.Time) error
	MarkRepliedFromGmail(ctx context.Context, id uint, repliedAt, checkedAt time.Time) error
	TouchLastChecked(ctx context.Context, id uint, checkedAt time.Time) error
	RecordResend(ctx context.Context, id uint, messageID, threadID string, sentAt time.Time) error
	Delete(ctx context.Context, id uint) error
}

// emailRepository implements EmailRepository using GORM
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new EmailRepository instance
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

// CreateWithAttachments creates an email together with its attachment rows
// in a single transaction
func (r *emailRepository) CreateWithAttachments(ctx context.Context, email *models.Email, attachments []models.EmailAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(email).Error; err != nil {
			return fmt.Errorf("failed to create email: %w", err)
		}

		for i := range attachments {
			attachments[i].EmailID = email.ID
			if err := tx.Create(&attachments[i]).Error; err != nil {
				return fmt.Errorf("failed to create attachment: %w", err)
			}
		}

		email.Attachments = attachments
		return nil
	})
}

// GetByID retrieves an email by its ID with preloaded attachments
func (r *emailRepository) GetByID(ctx context.Context, id uint) (*models.Email, error) {
	var email models.Email
	result := r.db.WithContext(ctx).Preload("Attachments").First(&email, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email by ID: %w", result.Error)
	}
	return &email, nil
}

// List retrieves emails newest-first with pagination and total count
func (r *emailRepository) List(ctx context.Context, limit, offset int) ([]models.Email, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Email{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count emails: %w", err)
	}

	var emails []models.Email
	result := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&emails)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list emails: %w", result.Error)
	}

	return emails, total, nil
}

// SetResponded applies a manual mark or unmark. Marking records source
// "manual"; unmarking clears responded_at and responded_source.
func (r *emailRepository) SetResponded(ctx context.Context, id uint, responded bool, at time.Time) error {
	updates := map[string]interface{}{
		"responded":        false,
		"responded_at":     nil,
		"responded_source": nil,
	}
	if responded {
		updates["responded"] = true
		updates["responded_at"] = at
		updates["responded_source"] = string(models.RespondedSourceManual)
	}

	return r.updateByID(ctx, id, updates)
}

// MarkRepliedFromGmail flips the email to responded after a positive reply
// detection, recording source "gmail" and the check timestamp
func (r *emailRepository) MarkRepliedFromGmail(ctx context.Context, id uint, repliedAt, checkedAt time.Time) error {
	return r.updateByID(ctx, id, map[string]interface{}{
		"responded":        true,
		"responded_at":     repliedAt,
		"responded_source": string(models.RespondedSourceGmail),
		"last_checked_at":  checkedAt,
	})
}

// TouchLastChecked records a reply check that found nothing
func (r *emailRepository) TouchLastChecked(ctx context.Context, id uint, checkedAt time.Time) error {
	return r.updateByID(ctx, id, map[string]interface{}{
		"last_checked_at": checkedAt,
	})
}

// RecordResend restarts the staleness clock on the same record: send count
// goes up by one, the reply-watch state resets, and the provider ids are
// refreshed
func (r *emailRepository) RecordResend(ctx context.Context, id uint, messageID, threadID string, sentAt time.Time) error {
	return r.updateByID(ctx, id, map[string]interface{}{
		"gmail_message_id": messageID,
		"gmail_thread_id":  threadID,
		"sent_at":          sentAt,
		"send_count":       gorm.Expr("send_count + 1"),
		"responded":        false,
		"responded_at":     nil,
		"responded_source": nil,
		"last_checked_at":  nil,
	})
}

// Delete deletes an email by its ID (cascade deletes attachments)
func (r *emailRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Select("Attachments").Delete(&models.Email{ID: id})
	if result.Error != nil {
		return fmt.Errorf("failed to delete email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *emailRepository) updateByID(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Email{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
