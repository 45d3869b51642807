package models

// Disposition controls how an attachment is rendered in the outgoing message.
type Disposition string

const (
	// DispositionAttachment offers the file as a regular download.
	DispositionAttachment Disposition = "attachment"
	// DispositionInline embeds the file in the HTML body via a cid: reference.
	DispositionInline Disposition = "inline"
)

// StoragePathPending marks an attachment row whose file upload has not
// completed. The message builder skips such rows.
const StoragePathPending = "pending"

// EmailAttachment represents one file associated with an outgoing email.
// ContentID must be set exactly when Disposition is inline.
type EmailAttachment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	EmailID uint `gorm:"not null;index" json:"email_id"`

	Filename    string      `gorm:"not null;size:512" json:"filename"`
	MimeType    string      `gorm:"not null;size:128" json:"mime_type"`
	SizeBytes   int64       `gorm:"not null" json:"size_bytes"`
	StoragePath string      `gorm:"not null;size:1024" json:"storage_path"`
	Disposition Disposition `gorm:"not null;size:16" json:"disposition"`
	ContentID   string      `gorm:"size:256" json:"content_id,omitempty"`

	// Relationships
	Email Email `gorm:"foreignKey:EmailID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for EmailAttachment
func (EmailAttachment) TableName() string {
	return "email_attachments"
}
