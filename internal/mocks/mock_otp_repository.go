package mocks

import (
	"context"
	"sync"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing.
// Its default behavior is a small in-memory store honoring the insert-only,
// newest-unused-wins, single-use contract.
type MockOTPRepository struct {
	CreateFunc          func(ctx context.Context, record *domain.OTPRecord) error
	FindLatestValidFunc func(ctx context.Context, identifier, code string) (*domain.OTPRecord, error)
	MarkUsedFunc        func(ctx context.Context, record *domain.OTPRecord) error

	mu      sync.Mutex
	nextID  uint
	Records []*domain.OTPRecord
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create inserts a new record
func (m *MockOTPRepository) Create(ctx context.Context, record *domain.OTPRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	copied := *record
	m.Records = append(m.Records, &copied)
	return nil
}

// FindLatestValid returns the newest unused record matching identifier and code
func (m *MockOTPRepository) FindLatestValid(ctx context.Context, identifier, code string) (*domain.OTPRecord, error) {
	if m.FindLatestValidFunc != nil {
		return m.FindLatestValidFunc(ctx, identifier, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.OTPRecord
	for _, r := range m.Records {
		if r.Identifier == identifier && r.Code == code && !r.IsUsed {
			if latest == nil || r.ID > latest.ID {
				latest = r
			}
		}
	}
	if latest == nil {
		return nil, domain.ErrOTPNotFound
	}
	copied := *latest
	return &copied, nil
}

// MarkUsed flips the record to used exactly once
func (m *MockOTPRepository) MarkUsed(ctx context.Context, record *domain.OTPRecord) error {
	if m.MarkUsedFunc != nil {
		return m.MarkUsedFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == record.ID {
			if r.IsUsed {
				return domain.ErrOTPAlreadyUsed
			}
			r.IsUsed = true
			record.IsUsed = true
			return nil
		}
	}
	return domain.ErrOTPNotFound
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)
