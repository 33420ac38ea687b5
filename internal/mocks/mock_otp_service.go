package mocks

import (
	"context"
	"time"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc func(ctx context.Context, identifier string, channel domain.OTPChannel, purpose domain.OTPPurpose) (*domain.OTPDispatchResult, error)

	// Issued records every issuance for assertions.
	Issued []IssuedOTP
}

type IssuedOTP struct {
	Identifier string
	Channel    domain.OTPChannel
	Purpose    domain.OTPPurpose
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue records the request and reports a sent code unless IssueFunc overrides it
func (m *MockOTPService) Issue(ctx context.Context, identifier string, channel domain.OTPChannel, purpose domain.OTPPurpose) (*domain.OTPDispatchResult, error) {
	m.Issued = append(m.Issued, IssuedOTP{Identifier: identifier, Channel: channel, Purpose: purpose})
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, identifier, channel, purpose)
	}
	// Default behavior: code persisted and sent (email channel never sends)
	record := &domain.OTPRecord{
		Identifier: identifier,
		Code:       "123456",
		Type:       channel,
		Purpose:    purpose,
		ExpiresAt:  time.Now().Add(10 * time.Minute),
	}
	return &domain.OTPDispatchResult{Record: record, Sent: channel == domain.ChannelPhone}, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
