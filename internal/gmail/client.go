// Package gmail integrates with the Gmail API: OAuth credential
// management, raw message submission, and thread fetching for reply
// detection.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// SendResult carries the provider ids assigned to a sent message.
type SendResult struct {
	MessageID string
	ThreadID  string
}

// ThreadMessage is the slice of a thread message that reply detection
// needs: the raw From header and the provider-assigned internal
// timestamp in milliseconds.
type ThreadMessage struct {
	From           string
	InternalDateMs int64
}

// AccountProfile mirrors the provider's profile resource.
type AccountProfile struct {
	EmailAddress  string `json:"emailAddress"`
	MessagesTotal int64  `json:"messagesTotal"`
	ThreadsTotal  int64  `json:"threadsTotal"`
	HistoryID     uint64 `json:"historyId"`
}

// Mailer is the provider surface the handlers talk to. Implementations
// vary per authenticated account; tests substitute a mock.
type Mailer interface {
	// Profile returns the authenticated account's profile.
	Profile(ctx context.Context) (*AccountProfile, error)
	// OwnerAddress returns the authenticated account's address,
	// lower-cased and trimmed.
	OwnerAddress(ctx context.Context) (string, error)
	// SendRaw base64url-frames and submits an RFC 2822 message,
	// returning the assigned message and thread ids.
	SendRaw(ctx context.Context, rfc822 []byte) (*SendResult, error)
	// FetchThread returns the messages of a thread in metadata form.
	FetchThread(ctx context.Context, threadID string) ([]ThreadMessage, error)
}

// Provider yields an authenticated Mailer, or ErrNotAuthenticated when
// no stored credentials exist.
type Provider interface {
	Mailer(ctx context.Context) (Mailer, error)
}

// gmailMailer implements Mailer over the Gmail API service
type gmailMailer struct {
	svc *gmail.Service
}

func (m *gmailMailer) Profile(ctx context.Context) (*AccountProfile, error) {
	profile, err := m.svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get gmail profile: %w", err)
	}
	return &AccountProfile{
		EmailAddress:  profile.EmailAddress,
		MessagesTotal: profile.MessagesTotal,
		ThreadsTotal:  profile.ThreadsTotal,
		HistoryID:     profile.HistoryId,
	}, nil
}

func (m *gmailMailer) OwnerAddress(ctx context.Context) (string, error) {
	profile, err := m.Profile(ctx)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(profile.EmailAddress)), nil
}

func (m *gmailMailer) SendRaw(ctx context.Context, rfc822 []byte) (*SendResult, error) {
	// Gmail expects base64url without padding
	raw := base64.RawURLEncoding.EncodeToString(rfc822)

	sent, err := m.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &SendResult{MessageID: sent.Id, ThreadID: sent.ThreadId}, nil
}

func (m *gmailMailer) FetchThread(ctx context.Context, threadID string) ([]ThreadMessage, error) {
	thread, err := m.svc.Users.Threads.Get("me", threadID).
		Format("metadata").
		MetadataHeaders("From", "Date", "Message-Id", "In-Reply-To", "References").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread %s: %w", threadID, err)
	}

	messages := make([]ThreadMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		tm := ThreadMessage{InternalDateMs: msg.InternalDate}
		if msg.Payload != nil {
			for _, h := range msg.Payload.Headers {
				if strings.EqualFold(h.Name, "From") {
					tm.From = h.Value
					break
				}
			}
		}
		messages = append(messages, tm)
	}
	return messages, nil
}

// provider builds a Mailer from the stored OAuth token
type provider struct {
	oauth *OAuth
}

// NewProvider creates a Provider backed by the given OAuth manager
func NewProvider(oauth *OAuth) Provider {
	return &provider{oauth: oauth}
}

func (p *provider) Mailer(ctx context.Context) (Mailer, error) {
	ts, err := p.oauth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &gmailMailer{svc: svc}, nil
}
