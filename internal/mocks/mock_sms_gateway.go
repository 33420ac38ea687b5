package mocks

import (
	"context"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// MockSMSGateway implements domain.SMSGateway interface for testing
type MockSMSGateway struct {
	SendFunc func(ctx context.Context, to, message string) (*domain.DeliveryResult, error)

	// SentMessages records every delivery attempt for assertions.
	SentMessages []SentSMS
}

type SentSMS struct {
	To      string
	Message string
}

// NewMockSMSGateway creates a new MockSMSGateway with default behaviors
func NewMockSMSGateway() *MockSMSGateway {
	return &MockSMSGateway{}
}

// Send records the attempt and reports success unless SendFunc overrides it
func (m *MockSMSGateway) Send(ctx context.Context, to, message string) (*domain.DeliveryResult, error) {
	m.SentMessages = append(m.SentMessages, SentSMS{To: to, Message: message})
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, message)
	}
	// Default behavior: delivered
	return &domain.DeliveryResult{Sent: true}, nil
}

// Compile-time interface compliance verification
var _ domain.SMSGateway = (*MockSMSGateway)(nil)
