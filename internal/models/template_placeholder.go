package models

// TemplatePlaceholder is one extracted {{key}} token. OrderIndex is the
// 0-based position of the key's first appearance across subject, text
// and HTML templates.
type TemplatePlaceholder struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TemplateID uint `gorm:"not null;index" json:"template_id"`

	Key        string `gorm:"not null;size:128" json:"key"`
	Label      string `gorm:"not null;size:160" json:"label"`
	OrderIndex int    `gorm:"not null;default:0" json:"order_index"`

	// Relationships
	Template Template `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for TemplatePlaceholder
func (TemplatePlaceholder) TableName() string {
	return "template_placeholders"
}
