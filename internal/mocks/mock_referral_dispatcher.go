package mocks

import (
	"context"
	"sync"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// MockReferralDispatcher implements domain.ReferralDispatcher interface for
// testing. Dispatches happen from a detached goroutine in the verification
// flow, so recording is mutex-guarded and exposed through Wait-friendly
// accessors.
type MockReferralDispatcher struct {
	DispatchFunc func(ctx context.Context, event *domain.ReferralEvent) error

	mu     sync.Mutex
	events []*domain.ReferralEvent
}

// NewMockReferralDispatcher creates a new MockReferralDispatcher with default behaviors
func NewMockReferralDispatcher() *MockReferralDispatcher {
	return &MockReferralDispatcher{}
}

// Dispatch records the event
func (m *MockReferralDispatcher) Dispatch(ctx context.Context, event *domain.ReferralEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, event)
	}
	// Default behavior: success
	return nil
}

// Events returns a snapshot of recorded events
func (m *MockReferralDispatcher) Events() []*domain.ReferralEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.ReferralEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Compile-time interface compliance verification
var _ domain.ReferralDispatcher = (*MockReferralDispatcher)(nil)
