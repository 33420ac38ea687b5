package domain

import "context"

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// OTPRepository defines OTP record persistence. Create always inserts a new
// row; FindLatestValid returns the newest unused record matching identifier
// and code regardless of expiry (expiry is the caller's check, so wrong-code
// and expired stay distinguishable); MarkUsed is an atomic single-use flip.
type OTPRepository interface {
	Create(ctx context.Context, record *OTPRecord) error
	FindLatestValid(ctx context.Context, identifier, code string) (*OTPRecord, error)
	MarkUsed(ctx context.Context, record *OTPRecord) error
}

// SMSGateway delivers a text message and reports the outcome. A nil error
// with Sent=false means the provider explicitly refused the message; a
// non-nil error means the attempt itself failed (network, timeout).
type SMSGateway interface {
	Send(ctx context.Context, to, message string) (*DeliveryResult, error)
}

// TokenService defines token operations. Expiry and signature failures are
// reported as distinct errors.
type TokenService interface {
	GenerateAccessToken(userID uint, role string) (string, error)
	GenerateRefreshToken(userID uint, role string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// OTPService issues one-time codes: generate, persist, then deliver.
type OTPService interface {
	Issue(ctx context.Context, identifier string, channel OTPChannel, purpose OTPPurpose) (*OTPDispatchResult, error)
}

// ReferralDispatcher hands a referral event off for background processing.
// Callers treat it as best-effort: failures are logged, never surfaced.
type ReferralDispatcher interface {
	Dispatch(ctx context.Context, event *ReferralEvent) error
}

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Email        string
	Phone        string
	Name         string
	ReferralCode string
}

// OTPSendResult reports the target identifiers and whether a code actually
// went out over the wire.
type OTPSendResult struct {
	Email   string
	Phone   string
	OTPSent bool
}

// VerifyOTPInput carries the verification request fields. At least one of
// Email/Phone must be present.
type VerifyOTPInput struct {
	Email string
	Phone string
	OTP   string
}

// ResendOTPInput carries the resend request fields.
type ResendOTPInput struct {
	Email   string
	Phone   string
	Purpose OTPPurpose
}

// AuthService defines the authentication flow state machine.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*OTPSendResult, error)
	SendLoginOTP(ctx context.Context, emailOrPhone string) (*OTPSendResult, error)
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*AuthResult, error)
	ResendOTP(ctx context.Context, in ResendOTPInput) (*OTPSendResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
