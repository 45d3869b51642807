package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mailtrack/backend/internal/api/response"
	apperrors "github.com/mailtrack/backend/internal/errors"
	"github.com/mailtrack/backend/internal/gmail"
	"github.com/mailtrack/backend/internal/models"
	"github.com/mailtrack/backend/internal/repository"
	"github.com/mailtrack/backend/internal/staleness"
	"github.com/mailtrack/backend/internal/storage"
	"github.com/mailtrack/backend/internal/validator"
)

// EmailHandler handles sending and tracking of outgoing emails
type EmailHandler struct {
	emailRepo    repository.EmailRepository
	settingsRepo repository.SettingsRepository
	provider     gmail.Provider
	files        storage.FileStorage
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emailRepo repository.EmailRepository, settingsRepo repository.SettingsRepository, provider gmail.Provider, files storage.FileStorage) *EmailHandler {
	return &EmailHandler{
		emailRepo:    emailRepo,
		settingsRepo: settingsRepo,
		provider:     provider,
		files:        files,
	}
}

// SendRequest is the JSON body of POST /api/emails/send
type SendRequest struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyText string `json:"body_text"`
	BodyHTML string `json:"body_html"`
}

// inlineMeta maps an uploaded filename to its cid for inline rendering
type inlineMeta struct {
	Filename  string `json:"filename"`
	ContentID string `json:"content_id"`
}

// Send handles POST /api/emails/send
func (h *EmailHandler) Send(c echo.Context) error {
	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	return h.sendAndRecord(c, req, nil)
}

// SendMultipart handles POST /api/emails/send-multipart. Files arrive
// under the "attachments" form key; the optional "inline" field carries
// a JSON array mapping filenames to content ids.
func (h *EmailHandler) SendMultipart(c echo.Context) error {
	req := SendRequest{
		To:       c.FormValue("to"),
		Subject:  c.FormValue("subject"),
		BodyText: c.FormValue("body_text"),
		BodyHTML: c.FormValue("body_html"),
	}

	inline := map[string]string{}
	if raw := c.FormValue("inline"); raw != "" {
		var metas []inlineMeta
		if err := json.Unmarshal([]byte(raw), &metas); err != nil {
			return response.BadRequest(c, "invalid inline metadata")
		}
		for _, m := range metas {
			if strings.TrimSpace(m.ContentID) == "" {
				return response.Error(c, apperrors.Wrap(apperrors.ErrMissingPrecondition, "inline attachment "+m.Filename+" has no content_id"))
			}
			inline[m.Filename] = m.ContentID
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "invalid multipart form")
	}

	attachments, err := h.storeUploads(form.File["attachments"], inline)
	if err != nil {
		h.discardStored(attachments)
		return response.Error(c, err)
	}

	return h.sendAndRecord(c, req, attachments)
}

// sendAndRecord validates, builds, submits, and persists one outgoing
// message with the given stored attachments
func (h *EmailHandler) sendAndRecord(c echo.Context, req SendRequest, attachments []models.EmailAttachment) error {
	if err := validator.ValidateRecipient(req.To); err != nil {
		h.discardStored(attachments)
		return response.BadRequest(c, "invalid recipient: "+err.Error())
	}
	if err := validator.ValidateSubject(req.Subject); err != nil {
		h.discardStored(attachments)
		return response.BadRequest(c, "invalid subject: "+err.Error())
	}

	ctx := c.Request().Context()
	mailer, err := h.provider.Mailer(ctx)
	if err != nil {
		h.discardStored(attachments)
		return response.Error(c, err)
	}

	owner, err := mailer.OwnerAddress(ctx)
	if err != nil {
		h.discardStored(attachments)
		return response.InternalError(c, "failed to resolve account address")
	}

	rfc822, err := gmail.BuildMessage(gmail.OutgoingMessage{
		From:        owner,
		To:          strings.TrimSpace(req.To),
		Subject:     req.Subject,
		BodyText:    req.BodyText,
		BodyHTML:    req.BodyHTML,
		Attachments: attachments,
	}, h.files)
	if err != nil {
		h.discardStored(attachments)
		return response.InternalError(c, "failed to build message")
	}

	sent, err := mailer.SendRaw(ctx, rfc822)
	if err != nil {
		h.discardStored(attachments)
		return response.InternalError(c, "failed to send message: "+err.Error())
	}

	email := &models.Email{
		GmailMessageID: &sent.MessageID,
		GmailThreadID:  &sent.ThreadID,
		To:             strings.TrimSpace(req.To),
		Subject:        req.Subject,
		BodyText:       optional(req.BodyText),
		BodyHTML:       optional(req.BodyHTML),
		SentAt:         time.Now().UTC(),
		SendCount:      1,
	}

	if err := h.emailRepo.CreateWithAttachments(ctx, email, attachments); err != nil {
		return response.InternalError(c, "message sent but failed to record it")
	}

	return response.Created(c, email)
}

// storeUploads saves uploaded files to attachment storage and returns
// the descriptor rows for them
func (h *EmailHandler) storeUploads(files []*multipart.FileHeader, inline map[string]string) ([]models.EmailAttachment, error) {
	attachments := make([]models.EmailAttachment, 0, len(files))

	for _, fh := range files {
		disposition := models.DispositionAttachment
		contentID := ""
		if cid, ok := inline[fh.Filename]; ok {
			disposition = models.DispositionInline
			contentID = cid
		}

		if err := validator.ValidateAttachment(fh.Filename, disposition, contentID); err != nil {
			return attachments, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
		}
		if err := storage.ValidateFile(fh.Size); err != nil {
			return attachments, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
		}

		src, err := fh.Open()
		if err != nil {
			return attachments, apperrors.Wrap(apperrors.ErrInternal, "failed to read upload")
		}
		path, err := h.files.Save(fh.Filename, src)
		src.Close()
		if err != nil {
			return attachments, apperrors.Wrap(apperrors.ErrInternal, "failed to store upload")
		}

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		attachments = append(attachments, models.EmailAttachment{
			Filename:    fh.Filename,
			MimeType:    mimeType,
			SizeBytes:   fh.Size,
			StoragePath: path,
			Disposition: disposition,
			ContentID:   contentID,
		})
	}

	return attachments, nil
}

// discardStored removes already-saved upload files after a failed send
func (h *EmailHandler) discardStored(attachments []models.EmailAttachment) {
	for _, a := range attachments {
		if a.StoragePath != "" && a.StoragePath != models.StoragePathPending {
			_ = h.files.Delete(a.StoragePath)
		}
	}
}

// History handles GET /api/emails/history
func (h *EmailHandler) History(c echo.Context) error {
	limit := 20
	offset := 0

	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	ctx := c.Request().Context()

	settings, err := h.settingsRepo.Get(ctx)
	if err != nil {
		return response.InternalError(c, "failed to load settings")
	}
	thresholds := staleness.Thresholds{
		WhiteMinutes:  settings.TWhiteMinutes,
		BlueMinutes:   settings.TBlueMinutes,
		YellowMinutes: settings.TYellowMinutes,
		RedMinutes:    settings.TRedMinutes,
	}

	emails, total, err := h.emailRepo.List(ctx, limit, offset)
	if err != nil {
		return response.InternalError(c, "failed to list emails")
	}

	now := time.Now().UTC()
	items := make([]models.EmailHistoryItem, 0, len(emails))
	for _, email := range emails {
		elapsed := staleness.ElapsedMinutes(email.SentAt, now)
		items = append(items, models.EmailHistoryItem{
			ID:           email.ID,
			To:           email.To,
			Subject:      email.Subject,
			SentAt:       email.SentAt,
			SendCount:    email.SendCount,
			Responded:    email.Responded,
			RelativeTime: staleness.FormatRelativeTime(email.SentAt, now),
			Status:       string(staleness.Classify(elapsed, email.Responded, thresholds)),
		})
	}

	return response.Paginated(c, items, total, limit, offset)
}

// Get handles GET /api/emails/:id
func (h *EmailHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid email ID")
	}

	email, err := h.emailRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to get email")
	}

	return response.Success(c, email)
}

// MarkRespondedRequest is the JSON body of POST /api/emails/:id/mark-responded
type MarkRespondedRequest struct {
	Responded *bool `json:"responded"`
}

// MarkResponded handles POST /api/emails/:id/mark-responded
func (h *EmailHandler) MarkResponded(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid email ID")
	}

	var req MarkRespondedRequest
	if err := c.Bind(&req); err != nil || req.Responded == nil {
		return response.BadRequest(c, "responded field is required")
	}

	ctx := c.Request().Context()
	if err := h.emailRepo.SetResponded(ctx, uint(id), *req.Responded, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to update email")
	}

	email, err := h.emailRepo.GetByID(ctx, uint(id))
	if err != nil {
		return response.InternalError(c, "failed to reload email")
	}
	return response.Success(c, email)
}

// Resend handles POST /api/emails/:id/resend. The same record is
// reused: send count goes up, the reply-watch state resets, and the
// staleness clock restarts.
func (h *EmailHandler) Resend(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid email ID")
	}

	ctx := c.Request().Context()
	email, err := h.emailRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to get email")
	}

	mailer, err := h.provider.Mailer(ctx)
	if err != nil {
		return response.Error(c, err)
	}
	owner, err := mailer.OwnerAddress(ctx)
	if err != nil {
		return response.InternalError(c, "failed to resolve account address")
	}

	rfc822, err := gmail.BuildMessage(gmail.OutgoingMessage{
		From:        owner,
		To:          email.To,
		Subject:     email.Subject,
		BodyText:    deref(email.BodyText),
		BodyHTML:    deref(email.BodyHTML),
		Attachments: email.Attachments,
	}, h.files)
	if err != nil {
		return response.InternalError(c, "failed to build message")
	}

	sent, err := mailer.SendRaw(ctx, rfc822)
	if err != nil {
		return response.InternalError(c, "failed to send message: "+err.Error())
	}

	if err := h.emailRepo.RecordResend(ctx, uint(id), sent.MessageID, sent.ThreadID, time.Now().UTC()); err != nil {
		return response.InternalError(c, "message sent but failed to record resend")
	}

	email, err = h.emailRepo.GetByID(ctx, uint(id))
	if err != nil {
		return response.InternalError(c, "failed to reload email")
	}
	return response.Success(c, email)
}

// CheckReply handles POST /api/emails/:id/check-reply. Already-responded
// emails short-circuit without a provider call; otherwise the thread is
// fetched and scanned, and the check timestamp is recorded either way.
func (h *EmailHandler) CheckReply(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid email ID")
	}

	ctx := c.Request().Context()
	email, err := h.emailRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to get email")
	}

	if email.Responded {
		return response.Success(c, gmail.ReplyCheckResult{
			Replied:   true,
			RepliedAt: email.RespondedAt,
			Reason:    gmail.ReasonAlreadyResponded,
		})
	}

	if email.GmailThreadID == nil || *email.GmailThreadID == "" {
		return response.Error(c, apperrors.Wrap(apperrors.ErrMissingPrecondition, "email has no thread id"))
	}

	mailer, err := h.provider.Mailer(ctx)
	if err != nil {
		return response.Error(c, err)
	}
	owner, err := mailer.OwnerAddress(ctx)
	if err != nil {
		return response.InternalError(c, "failed to resolve account address")
	}

	messages, err := mailer.FetchThread(ctx, *email.GmailThreadID)
	if err != nil {
		return response.InternalError(c, "failed to fetch thread: "+err.Error())
	}

	now := time.Now().UTC()
	result := gmail.DetectReply(messages, owner, email.SentAt)

	if result.Replied && result.RepliedAt != nil {
		err = h.emailRepo.MarkRepliedFromGmail(ctx, uint(id), *result.RepliedAt, now)
	} else {
		err = h.emailRepo.TouchLastChecked(ctx, uint(id), now)
	}
	if err != nil {
		return response.InternalError(c, "failed to record reply check")
	}

	return response.Success(c, result)
}

// Delete handles DELETE /api/emails/:id
func (h *EmailHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "invalid email ID")
	}

	ctx := c.Request().Context()
	email, err := h.emailRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to get email")
	}

	if err := h.emailRepo.Delete(ctx, uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "email not found")
		}
		return response.InternalError(c, "failed to delete email")
	}

	// Best effort cleanup of stored attachment files
	h.discardStored(email.Attachments)

	return response.NoContent(c)
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
