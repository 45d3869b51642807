package models

import (
	"time"
)

// RespondedSource records how an email came to be marked as responded.
type RespondedSource string

const (
	RespondedSourceGmail  RespondedSource = "gmail"
	RespondedSourceManual RespondedSource = "manual"
)

// Email represents one sent (or attempted) outgoing message being tracked
// for a reply. Gmail ids stay null until the message actually went out
// through the provider.
type Email struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GmailMessageID *string `gorm:"size:128" json:"gmail_message_id,omitempty"`
	GmailThreadID  *string `gorm:"size:128" json:"gmail_thread_id,omitempty"`

	To      string `gorm:"not null;size:320" json:"to"`
	Subject string `gorm:"not null;size:998" json:"subject"`

	BodyText *string `gorm:"type:text" json:"body_text,omitempty"`
	BodyHTML *string `gorm:"type:text" json:"body_html,omitempty"`

	SentAt    time.Time `gorm:"not null" json:"sent_at"`
	SendCount int       `gorm:"not null;default:1" json:"send_count"`

	Responded       bool             `gorm:"not null;default:false" json:"responded"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty"`
	RespondedSource *RespondedSource `gorm:"size:16" json:"responded_source,omitempty"`
	LastCheckedAt   *time.Time       `json:"last_checked_at,omitempty"`

	// Relationships
	Attachments []EmailAttachment `gorm:"foreignKey:EmailID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// TableName returns the table name for Email
func (Email) TableName() string {
	return "emails"
}

// EmailHistoryItem is a lightweight, decorated version for the history view
type EmailHistoryItem struct {
	ID           uint      `json:"id"`
	To           string    `json:"to"`
	Subject      string    `json:"subject"`
	SentAt       time.Time `json:"sent_at"`
	SendCount    int       `json:"send_count"`
	Responded    bool      `json:"responded"`
	RelativeTime string    `json:"relative_time"`
	Status       string    `json:"status"`
}
