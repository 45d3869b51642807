package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailtrack/backend/internal/models"
	"github.com/mailtrack/backend/internal/placeholder"
	"gorm.io/gorm"
)

// TemplateRepository defines the interface for template data access.
// Create and Update reconcile the extracted placeholder rows against the
// template content inside the same transaction.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id uint) (*models.Template, error)
	List(ctx context.Context) ([]models.Template, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id uint) error
	ListPlaceholders(ctx context.Context, templateID uint) ([]models.TemplatePlaceholder, error)
}

// templateRepository implements TemplateRepository using GORM
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository instance
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a template and its extracted placeholders in one transaction
func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Placeholders").Create(template).Error; err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		return reconcilePlaceholders(tx, template)
	})
}

// GetByID retrieves a template with its placeholders ordered by position
func (r *templateRepository) GetByID(ctx context.Context, id uint) (*models.Template, error) {
	var template models.Template
	result := r.db.WithContext(ctx).
		Preload("Placeholders", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&template, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get template by ID: %w", result.Error)
	}
	return &template, nil
}

// List retrieves all templates newest-first
func (r *templateRepository) List(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	result := r.db.WithContext(ctx).
		Preload("Placeholders", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Order("id DESC").
		Find(&templates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list templates: %w", result.Error)
	}
	return templates, nil
}

// Update persists the template fields and reconciles placeholders in the
// same transaction
func (r *templateRepository) Update(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Template{}).Where("id = ?", template.ID).Updates(map[string]interface{}{
			"name":               template.Name,
			"subject_template":   template.SubjectTemplate,
			"body_text_template": template.BodyTextTemplate,
			"body_html_template": template.BodyHTMLTemplate,
		})
		if result.Error != nil {
			return fmt.Errorf("failed to update template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return reconcilePlaceholders(tx, template)
	})
}

// Delete deletes a template by its ID (cascade deletes placeholders)
func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.TemplatePlaceholder{}).Error; err != nil {
			return fmt.Errorf("failed to delete placeholders: %w", err)
		}
		result := tx.Delete(&models.Template{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete template: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ListPlaceholders retrieves the placeholders of a template ordered by
// position. Returns ErrNotFound when the template itself is unknown.
func (r *templateRepository) ListPlaceholders(ctx context.Context, templateID uint) ([]models.TemplatePlaceholder, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Template{}).Where("id = ?", templateID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check template: %w", err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var placeholders []models.TemplatePlaceholder
	result := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("order_index ASC").
		Find(&placeholders)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list placeholders: %w", result.Error)
	}
	return placeholders, nil
}

// reconcilePlaceholders diffs the placeholder set extracted from the
// current template content against the stored rows and applies the delta:
// stale keys are removed, new keys inserted, and shifted keys updated in
// place. Runs inside the caller's transaction.
func reconcilePlaceholders(tx *gorm.DB, template *models.Template) error {
	extracted := placeholder.Extract(
		template.SubjectTemplate,
		template.BodyTextTemplate,
		template.BodyHTMLTemplate,
	)

	var existing []models.TemplatePlaceholder
	if err := tx.Where("template_id = ?", template.ID).Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load placeholders: %w", err)
	}

	current := make(map[string]models.TemplatePlaceholder, len(existing))
	for _, row := range existing {
		current[row.Key] = row
	}

	wanted := make(map[string]struct{}, len(extracted))

	for _, p := range extracted {
		wanted[p.Key] = struct{}{}

		row, ok := current[p.Key]
		if !ok {
			if err := tx.Create(&models.TemplatePlaceholder{
				TemplateID: template.ID,
				Key:        p.Key,
				Label:      p.Label,
				OrderIndex: p.OrderIndex,
			}).Error; err != nil {
				return fmt.Errorf("failed to insert placeholder %q: %w", p.Key, err)
			}
			continue
		}

		if row.Label != p.Label || row.OrderIndex != p.OrderIndex {
			if err := tx.Model(&models.TemplatePlaceholder{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
				"label":       p.Label,
				"order_index": p.OrderIndex,
			}).Error; err != nil {
				return fmt.Errorf("failed to update placeholder %q: %w", p.Key, err)
			}
		}
	}

	for key, row := range current {
		if _, keep := wanted[key]; !keep {
			if err := tx.Delete(&models.TemplatePlaceholder{}, row.ID).Error; err != nil {
				return fmt.Errorf("failed to delete placeholder %q: %w", key, err)
			}
		}
	}

	return nil
}
