package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mailtrack/backend/internal/models"
)

// MockEmailRepository implements repository.EmailRepository
type MockEmailRepository struct {
	mock.Mock
}

// CreateWithAttachments creates an email with its attachments
func (m *MockEmailRepository) CreateWithAttachments(ctx context.Context, email *models.Email, attachments []models.EmailAttachment) error {
	args := m.Called(ctx, email, attachments)
	return args.Error(0)
}

// GetByID retrieves an email by its ID
func (m *MockEmailRepository) GetByID(ctx context.Context, id uint) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

// List retrieves emails newest-first
func (m *MockEmailRepository) List(ctx context.Context, limit, offset int) ([]models.Email, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Email), args.Get(1).(int64), args.Error(2)
}

// SetResponded applies a manual mark or unmark
func (m *MockEmailRepository) SetResponded(ctx context.Context, id uint, responded bool, at time.Time) error {
	args := m.Called(ctx, id, responded, at)
	return args.Error(0)
}

// MarkRepliedFromGmail records a detected reply
func (m *MockEmailRepository) MarkRepliedFromGmail(ctx context.Context, id uint, repliedAt, checkedAt time.Time) error {
	args := m.Called(ctx, id, repliedAt, checkedAt)
	return args.Error(0)
}

// TouchLastChecked records a reply check that found nothing
func (m *MockEmailRepository) TouchLastChecked(ctx context.Context, id uint, checkedAt time.Time) error {
	args := m.Called(ctx, id, checkedAt)
	return args.Error(0)
}

// RecordResend resets the reply-watch state after a resend
func (m *MockEmailRepository) RecordResend(ctx context.Context, id uint, messageID, threadID string, sentAt time.Time) error {
	args := m.Called(ctx, id, messageID, threadID, sentAt)
	return args.Error(0)
}

// Delete deletes an email by its ID
func (m *MockEmailRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTemplateRepository implements repository.TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

// Create creates a template
func (m *MockTemplateRepository) Create(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// GetByID retrieves a template by its ID
func (m *MockTemplateRepository) GetByID(ctx context.Context, id uint) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

// List retrieves all templates
func (m *MockTemplateRepository) List(ctx context.Context) ([]models.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Template), args.Error(1)
}

// Update updates a template
func (m *MockTemplateRepository) Update(ctx context.Context, template *models.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

// Delete deletes a template by its ID
func (m *MockTemplateRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListPlaceholders retrieves a template's placeholders
func (m *MockTemplateRepository) ListPlaceholders(ctx context.Context, templateID uint) ([]models.TemplatePlaceholder, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TemplatePlaceholder), args.Error(1)
}

// MockSettingsRepository implements repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

// Seed inserts the default settings row
func (m *MockSettingsRepository) Seed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Get retrieves the singleton settings row
func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

// Update overwrites the threshold values
func (m *MockSettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
