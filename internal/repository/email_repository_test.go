package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/mailtrack/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// EmailRepositoryTestSuite is the test suite for EmailRepository
type EmailRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo EmailRepository
}

// SetupSuite runs once before all tests
func (s *EmailRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.Email{}, &models.EmailAttachment{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewEmailRepository(db)
}

// TearDownSuite runs once after all tests
func (s *EmailRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *EmailRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM email_attachments")
	s.db.Exec("DELETE FROM emails")
}

// TestEmailRepositoryTestSuite runs the test suite
func (s *EmailRepositoryTestSuite) createEmail(to string) *models.Email {
	email := &models.Email{
		To:        to,
		Subject:   "Hello",
		SentAt:    time.Now().UTC(),
		SendCount: 1,
	}
	err := s.repo.CreateWithAttachments(context.Background(), email, nil)
	require.NoError(s.T(), err)
	return email
}

func TestEmailRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(EmailRepositoryTestSuite))
}

// ==================== Create Tests ====================

func (s *EmailRepositoryTestSuite) TestCreateWithAttachments_Success() {
	email := &models.Email{
		To:        "alice@example.com",
		Subject:   "Intro",
		SentAt:    time.Now().UTC(),
		SendCount: 1,
	}
	attachments := []models.EmailAttachment{
		{Filename: "deck.pdf", MimeType: "application/pdf", SizeBytes: 1024, StoragePath: "ab/deck.pdf", Disposition: models.DispositionAttachment},
		{Filename: "logo.png", MimeType: "image/png", SizeBytes: 256, StoragePath: "cd/logo.png", Disposition: models.DispositionInline, ContentID: "logo-1"},
	}

	err := s.repo.CreateWithAttachments(context.Background(), email, attachments)

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), email.ID)

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), loaded.Attachments, 2)
	assert.Equal(s.T(), email.ID, loaded.Attachments[0].EmailID)
	assert.Equal(s.T(), 1, loaded.SendCount)
	assert.False(s.T(), loaded.Responded)
	assert.Nil(s.T(), loaded.GmailMessageID)
}

// ==================== GetByID Tests ====================

func (s *EmailRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(context.Background(), 9999)

	assert.ErrorIs(s.T(), err, ErrNotFound)
}

// ==================== List Tests ====================

func (s *EmailRepositoryTestSuite) TestList_NewestFirstWithPagination() {
	first := s.createEmail("a@example.com")
	second := s.createEmail("b@example.com")
	third := s.createEmail("c@example.com")

	page, total, err := s.repo.List(context.Background(), 2, 0)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), total)
	require.Len(s.T(), page, 2)
	assert.Equal(s.T(), third.ID, page[0].ID)
	assert.Equal(s.T(), second.ID, page[1].ID)

	rest, total, err := s.repo.List(context.Background(), 2, 2)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), total)
	require.Len(s.T(), rest, 1)
	assert.Equal(s.T(), first.ID, rest[0].ID)
}

// ==================== Responded Tests ====================

func (s *EmailRepositoryTestSuite) TestSetResponded_MarkAndUnmark() {
	email := s.createEmail("mark@example.com")
	now := time.Now().UTC()

	err := s.repo.SetResponded(context.Background(), email.ID, true, now)
	require.NoError(s.T(), err)

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), loaded.Responded)
	require.NotNil(s.T(), loaded.RespondedAt)
	require.NotNil(s.T(), loaded.RespondedSource)
	assert.Equal(s.T(), models.RespondedSourceManual, *loaded.RespondedSource)

	err = s.repo.SetResponded(context.Background(), email.ID, false, now)
	require.NoError(s.T(), err)

	loaded, err = s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), loaded.Responded)
	assert.Nil(s.T(), loaded.RespondedAt)
	assert.Nil(s.T(), loaded.RespondedSource)
}

func (s *EmailRepositoryTestSuite) TestSetResponded_UnknownID() {
	err := s.repo.SetResponded(context.Background(), 424242, true, time.Now().UTC())

	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *EmailRepositoryTestSuite) TestMarkRepliedFromGmail() {
	email := s.createEmail("replied@example.com")
	repliedAt := time.Now().UTC().Add(-10 * time.Minute)
	checkedAt := time.Now().UTC()

	err := s.repo.MarkRepliedFromGmail(context.Background(), email.ID, repliedAt, checkedAt)
	require.NoError(s.T(), err)

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), loaded.Responded)
	require.NotNil(s.T(), loaded.RespondedSource)
	assert.Equal(s.T(), models.RespondedSourceGmail, *loaded.RespondedSource)
	assert.NotNil(s.T(), loaded.RespondedAt)
	assert.NotNil(s.T(), loaded.LastCheckedAt)
}

func (s *EmailRepositoryTestSuite) TestTouchLastChecked() {
	email := s.createEmail("checked@example.com")
	checkedAt := time.Now().UTC()

	err := s.repo.TouchLastChecked(context.Background(), email.ID, checkedAt)
	require.NoError(s.T(), err)

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), loaded.Responded)
	assert.NotNil(s.T(), loaded.LastCheckedAt)
}

// ==================== Resend Tests ====================

func (s *EmailRepositoryTestSuite) TestRecordResend_ResetsReplyWatch() {
	email := s.createEmail("resend@example.com")
	require.NoError(s.T(), s.repo.SetResponded(context.Background(), email.ID, true, time.Now().UTC()))
	require.NoError(s.T(), s.repo.TouchLastChecked(context.Background(), email.ID, time.Now().UTC()))

	newSentAt := time.Now().UTC()
	err := s.repo.RecordResend(context.Background(), email.ID, "msg-2", "thread-2", newSentAt)
	require.NoError(s.T(), err)

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, loaded.SendCount)
	assert.False(s.T(), loaded.Responded)
	assert.Nil(s.T(), loaded.RespondedAt)
	assert.Nil(s.T(), loaded.RespondedSource)
	assert.Nil(s.T(), loaded.LastCheckedAt)
	require.NotNil(s.T(), loaded.GmailMessageID)
	assert.Equal(s.T(), "msg-2", *loaded.GmailMessageID)
	require.NotNil(s.T(), loaded.GmailThreadID)
	assert.Equal(s.T(), "thread-2", *loaded.GmailThreadID)
}

func (s *EmailRepositoryTestSuite) TestRecordResend_IncrementsExactlyOnce() {
	email := s.createEmail("count@example.com")

	for i := 0; i < 3; i++ {
		require.NoError(s.T(), s.repo.RecordResend(context.Background(), email.ID, "m", "t", time.Now().UTC()))
	}

	loaded, err := s.repo.GetByID(context.Background(), email.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, loaded.SendCount)
}

// ==================== Delete Tests ====================

func (s *EmailRepositoryTestSuite) TestDelete_CascadesAttachments() {
	email := &models.Email{
		To:        "gone@example.com",
		Subject:   "Bye",
		SentAt:    time.Now().UTC(),
		SendCount: 1,
	}
	attachments := []models.EmailAttachment{
		{Filename: "a.txt", MimeType: "text/plain", SizeBytes: 1, StoragePath: "aa/a.txt", Disposition: models.DispositionAttachment},
	}
	require.NoError(s.T(), s.repo.CreateWithAttachments(context.Background(), email, attachments))

	err := s.repo.Delete(context.Background(), email.ID)
	require.NoError(s.T(), err)

	_, err = s.repo.GetByID(context.Background(), email.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	var count int64
	s.db.Model(&models.EmailAttachment{}).Where("email_id = ?", email.ID).Count(&count)
	assert.Zero(s.T(), count)
}

func (s *EmailRepositoryTestSuite) TestDelete_UnknownID() {
	err := s.repo.Delete(context.Background(), 8888)

	assert.ErrorIs(s.T(), err, ErrNotFound)
}
