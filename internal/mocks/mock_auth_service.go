package mocks

import (
	"context"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, in domain.RegisterInput) (*domain.OTPSendResult, error)
	SendLoginOTPFunc   func(ctx context.Context, emailOrPhone string) (*domain.OTPSendResult, error)
	VerifyOTPFunc      func(ctx context.Context, in domain.VerifyOTPInput) (*domain.AuthResult, error)
	ResendOTPFunc      func(ctx context.Context, in domain.ResendOTPInput) (*domain.OTPSendResult, error)
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (string, error)
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.OTPSendResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in)
	}
	return &domain.OTPSendResult{Email: in.Email, Phone: in.Phone, OTPSent: true}, nil
}

// SendLoginOTP sends a login OTP
func (m *MockAuthService) SendLoginOTP(ctx context.Context, emailOrPhone string) (*domain.OTPSendResult, error) {
	if m.SendLoginOTPFunc != nil {
		return m.SendLoginOTPFunc(ctx, emailOrPhone)
	}
	return &domain.OTPSendResult{OTPSent: true}, nil
}

// VerifyOTP verifies an OTP
func (m *MockAuthService) VerifyOTP(ctx context.Context, in domain.VerifyOTPInput) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, in)
	}
	return nil, domain.ErrOTPInvalid
}

// ResendOTP re-issues an OTP
func (m *MockAuthService) ResendOTP(ctx context.Context, in domain.ResendOTPInput) (*domain.OTPSendResult, error) {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, in)
	}
	return &domain.OTPSendResult{Email: in.Email, Phone: in.Phone, OTPSent: true}, nil
}

// RefreshToken refreshes an access token
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return "", domain.ErrTokenInvalid
}

// GetUserProfile gets a user profile
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
