package models

// Template is a reusable message skeleton. Each of the three template
// strings may contain {{key}} placeholder tokens; the extracted
// placeholders are reconciled on every save.
type Template struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;size:160" json:"name"`

	SubjectTemplate  *string `gorm:"type:text" json:"subject_template,omitempty"`
	BodyTextTemplate *string `gorm:"type:text" json:"body_text_template,omitempty"`
	BodyHTMLTemplate *string `gorm:"type:text" json:"body_html_template,omitempty"`

	// Relationships
	Placeholders []TemplatePlaceholder `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"placeholders,omitempty"`
}

// TableName returns the table name for Template
func (Template) TableName() string {
	return "templates"
}
