package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mailtrack/backend/internal/api/response"
	"github.com/mailtrack/backend/internal/models"
	"github.com/mailtrack/backend/internal/repository"
)

// TemplateHandler handles template-related HTTP requests
type TemplateHandler struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateRepo repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templateRepo: templateRepo}
}

// TemplateRequest is the JSON body for creating and updating templates
type TemplateRequest struct {
	Name             string  `json:"name"`
	SubjectTemplate  *string `json:"subject_template"`
	BodyTextTemplate *string `json:"body_text_template"`
	BodyHTMLTemplate *string `json:"body_html_template"`
}

// Create handles POST /api/templates
func (h *TemplateHandler) Create(c echo.Context) error {
	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.BadRequest(c, "name is required")
	}

	template := &models.Template{
		Name:             strings.TrimSpace(req.Name),
		SubjectTemplate:  req.SubjectTemplate,
		BodyTextTemplate: req.BodyTextTemplate,
		BodyHTMLTemplate: req.BodyHTMLTemplate,
	}

	if err := h.templateRepo.Create(c.Request().Context(), template); err != nil {
		return response.InternalError(c, "failed to create template")
	}

	return response.Created(c, template)
}

// List handles GET /api/templates
func (h *TemplateHandler) List(c echo.Context) error {
	templates, err := h.templateRepo.List(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to list templates")
	}
	return response.Success(c, templates)
}

// Get handles GET /api/templates/:id
func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid template ID")
	}

	template, err := h.templateRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "template not found")
		}
		return response.InternalError(c, "failed to get template")
	}

	return response.Success(c, template)
}

// Update handles PUT /api/templates/:id
func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid template ID")
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return response.BadRequest(c, "name is required")
	}

	template := &models.Template{
		ID:               uint(id),
		Name:             strings.TrimSpace(req.Name),
		SubjectTemplate:  req.SubjectTemplate,
		BodyTextTemplate: req.BodyTextTemplate,
		BodyHTMLTemplate: req.BodyHTMLTemplate,
	}

	ctx := c.Request().Context()
	if err := h.templateRepo.Update(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "template not found")
		}
		return response.InternalError(c, "failed to update template")
	}

	updated, err := h.templateRepo.GetByID(ctx, uint(id))
	if err != nil {
		return response.InternalError(c, "failed to reload template")
	}
	return response.Success(c, updated)
}

// Delete handles DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid template ID")
	}

	if err := h.templateRepo.Delete(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "template not found")
		}
		return response.InternalError(c, "failed to delete template")
	}

	return response.NoContent(c)
}

// Placeholders handles GET /api/templates/:id/placeholders
func (h *TemplateHandler) Placeholders(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid template ID")
	}

	placeholders, err := h.templateRepo.ListPlaceholders(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "template not found")
		}
		return response.InternalError(c, "failed to list placeholders")
	}

	return response.Success(c, placeholders)
}
