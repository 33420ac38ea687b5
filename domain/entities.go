package domain

import "time"

// OTPChannel identifies which contact channel an OTP code targets.
type OTPChannel string

const (
	ChannelPhone OTPChannel = "phone"
	ChannelEmail OTPChannel = "email"
)

// OTPPurpose disambiguates concurrent codes for the same identifier.
type OTPPurpose string

const (
	PurposeRegister      OTPPurpose = "register"
	PurposeLogin         OTPPurpose = "login"
	PurposeResetPassword OTPPurpose = "reset_password"
)

// User represents an account in the system. Verification flags only ever
// move false -> true through this service.
type User struct {
	ID              uint
	Name            string
	Email           string
	Phone           string
	Role            string
	IsActive        bool
	IsEmailVerified bool
	IsPhoneVerified bool
	ReferralCode    string
	ReferredBy      uint
	Age             string
	Gender          string
	Address         string
	ProfilePhoto    string
	ProfileComplete int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileFieldCount is the fixed field set profile completion is computed
// over: name, email, phone, age, gender, address, profile photo.
const ProfileFieldCount = 7

// ComputeProfileComplete returns round(100 * filled / 7) where a field
// counts as filled when it is a non-empty string.
func (u *User) ComputeProfileComplete() int {
	filled := 0
	for _, f := range []string{u.Name, u.Email, u.Phone, u.Age, u.Gender, u.Address, u.ProfilePhoto} {
		if f != "" {
			filled++
		}
	}
	return int(float64(filled*100)/ProfileFieldCount + 0.5)
}

// OTPRecord is a single one-time code. Records are insert-only: resends
// create new rows, verification selects the newest unused match.
type OTPRecord struct {
	ID         uint
	Identifier string
	Code       string
	Type       OTPChannel
	Purpose    OTPPurpose
	ExpiresAt  time.Time
	IsUsed     bool
	CreatedAt  time.Time
}

// IsExpired reports whether the record can no longer be verified. A missing
// expiry counts as already expired, not as unlimited.
func (r *OTPRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt.IsZero() || now.After(r.ExpiresAt)
}

// DeliveryResult is the SMS gateway's report for a single send attempt.
type DeliveryResult struct {
	Sent          bool
	TestBypass    bool
	ProviderError string
}

// AuthResult represents a successful verification outcome.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// OTPDispatchResult reports whether a code was issued and actually sent.
type OTPDispatchResult struct {
	Record *OTPRecord
	Sent   bool
}

// TokenClaims represents JWT token claims.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
