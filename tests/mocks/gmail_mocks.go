package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mailtrack/backend/internal/gmail"
)

// MockMailer implements gmail.Mailer
type MockMailer struct {
	mock.Mock
}

// Profile returns the authenticated account's profile
func (m *MockMailer) Profile(ctx context.Context) (*gmail.AccountProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gmail.AccountProfile), args.Error(1)
}

// OwnerAddress returns the authenticated account's address
func (m *MockMailer) OwnerAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// SendRaw submits an RFC 2822 message
func (m *MockMailer) SendRaw(ctx context.Context, rfc822 []byte) (*gmail.SendResult, error) {
	args := m.Called(ctx, rfc822)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gmail.SendResult), args.Error(1)
}

// FetchThread returns the messages of a thread
func (m *MockMailer) FetchThread(ctx context.Context, threadID string) ([]gmail.ThreadMessage, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gmail.ThreadMessage), args.Error(1)
}

// MockProvider implements gmail.Provider
type MockProvider struct {
	mock.Mock
}

// Mailer yields an authenticated Mailer or an error
func (m *MockProvider) Mailer(ctx context.Context) (gmail.Mailer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(gmail.Mailer), args.Error(1)
}
