package gmail

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/mailtrack/backend/internal/models"
	"github.com/mailtrack/backend/internal/storage"
)

// OutgoingMessage is the input to the message builder.
type OutgoingMessage struct {
	From        string
	To          string
	Subject     string
	BodyText    string
	BodyHTML    string
	Attachments []models.EmailAttachment
}

// BuildMessage assembles the RFC 2822 bytes for an outgoing message.
// The text part is always present (empty when no text body was given);
// an HTML alternative exists only when the HTML body is non-blank.
// Inline attachments become parts related to the HTML body with their
// Content-ID, so cid: references resolve; regular attachments go to the
// message root. Attachments whose file has not been uploaded yet, or
// whose file is missing from storage, are skipped without error. An
// inline attachment with no HTML part to relate to is demoted to a
// regular attachment.
func BuildMessage(msg OutgoingMessage, files storage.FileStorage) ([]byte, error) {
	builder := enmime.Builder().
		From("", msg.From).
		To("", msg.To).
		Subject(msg.Subject).
		Date(time.Now()).
		Text([]byte(msg.BodyText))

	hasHTML := strings.TrimSpace(msg.BodyHTML) != ""
	if hasHTML {
		builder = builder.HTML([]byte(msg.BodyHTML))
	}

	for _, a := range msg.Attachments {
		path := strings.TrimSpace(a.StoragePath)
		if path == "" || path == models.StoragePathPending {
			continue
		}

		data, err := readStored(files, path)
		if err != nil {
			// missing file means "no such attachment", not a failure
			continue
		}

		contentType := resolveContentType(a.MimeType, a.Filename)
		if a.Disposition == models.DispositionInline && hasHTML {
			builder = builder.AddInline(data, contentType, a.Filename, a.ContentID)
		} else {
			builder = builder.AddAttachment(data, contentType, a.Filename)
		}
	}

	root, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	var buf bytes.Buffer
	if err := root.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}

func readStored(files storage.FileStorage, path string) ([]byte, error) {
	rc, err := files.Get(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// resolveContentType picks the attachment's MIME type: the descriptor's
// value, else a guess from the filename extension, else octet-stream.
// A type without a major/minor split also falls back to octet-stream.
func resolveContentType(mimeType, filename string) string {
	contentType := strings.TrimSpace(mimeType)
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	if contentType == "" || !strings.Contains(contentType, "/") {
		return "application/octet-stream"
	}
	return contentType
}
