package domain

import "errors"

// Validation errors
var (
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidOTPFormat   = errors.New("invalid otp format")
	ErrIdentifierRequired = errors.New("email or phone is required")
)

// Conflict errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrEmailAndPhoneTaken = errors.New("email and phone number already registered")
)

// Account errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user account is inactive")
)

// OTP errors
var (
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPAlreadyUsed = errors.New("otp has already been used")
	ErrOTPThrottled   = errors.New("otp resend throttled")
)

// Delivery errors
var (
	ErrSMSDeliveryFailed = errors.New("sms delivery failed")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
)
