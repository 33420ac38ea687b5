package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// referralDispatchTimeout bounds the detached referral dispatch so an
// unreachable queue cannot leak goroutines.
const referralDispatchTimeout = 5 * time.Second

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	otpRepo     domain.OTPRepository
	otpSvc      domain.OTPService
	tokenSvc    domain.TokenService
	referralSvc domain.ReferralDispatcher
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	otpRepo domain.OTPRepository,
	otpSvc domain.OTPService,
	tokenSvc domain.TokenService,
	referralSvc domain.ReferralDispatcher,
	logger zerolog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		otpSvc:      otpSvc,
		tokenSvc:    tokenSvc,
		referralSvc: referralSvc,
		logger:      logger,
	}
}

// Register implements domain.AuthService. Both identifiers are required;
// the account is created unverified and the registration OTP goes to the
// phone channel.
func (s *AuthServiceImpl) Register(ctx context.Context, in domain.RegisterInput) (*domain.OTPSendResult, error) {
	if in.Email == "" || in.Phone == "" {
		return nil, domain.ErrIdentifierRequired
	}
	if !domain.ValidateEmail(in.Email) {
		return nil, domain.ErrInvalidEmail
	}
	phone, err := domain.NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	emailTaken := s.exists(ctx, func() (*domain.User, error) { return s.userRepo.FindByEmail(ctx, in.Email) })
	phoneTaken := s.exists(ctx, func() (*domain.User, error) { return s.userRepo.FindByPhone(ctx, phone) })
	switch {
	case emailTaken && phoneTaken:
		return nil, domain.ErrEmailAndPhoneTaken
	case emailTaken:
		return nil, domain.ErrEmailTaken
	case phoneTaken:
		return nil, domain.ErrPhoneTaken
	}

	// A referral code that resolves to an existing user is stashed on the
	// new account; an unresolvable code is silently ignored.
	var referredBy uint
	if in.ReferralCode != "" {
		if referrer, err := s.userRepo.FindByReferralCode(ctx, in.ReferralCode); err == nil {
			referredBy = referrer.ID
		}
	}

	dispatch, err := s.otpSvc.Issue(ctx, phone, domain.ChannelPhone, domain.PurposeRegister)
	if err != nil {
		return nil, err
	}

	code, err := newReferralCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        phone,
		Role:         "user",
		IsActive:     true,
		ReferredBy:   referredBy,
		ReferralCode: code,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &domain.OTPSendResult{Email: in.Email, Phone: phone, OTPSent: dispatch.Sent}, nil
}

// SendLoginOTP implements domain.AuthService. This flow never creates
// accounts; the email channel persists a code but never delivers one.
func (s *AuthServiceImpl) SendLoginOTP(ctx context.Context, emailOrPhone string) (*domain.OTPSendResult, error) {
	if emailOrPhone == "" {
		return nil, domain.ErrIdentifierRequired
	}

	var (
		user       *domain.User
		identifier string
		channel    domain.OTPChannel
		err        error
	)
	if domain.IsEmail(emailOrPhone) {
		if !domain.ValidateEmail(emailOrPhone) {
			return nil, domain.ErrInvalidEmail
		}
		identifier = emailOrPhone
		channel = domain.ChannelEmail
		user, err = s.userRepo.FindByEmail(ctx, identifier)
	} else {
		identifier, err = domain.NormalizePhone(emailOrPhone)
		if err != nil {
			return nil, err
		}
		channel = domain.ChannelPhone
		user, err = s.userRepo.FindByPhone(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	dispatch, err := s.otpSvc.Issue(ctx, identifier, channel, domain.PurposeLogin)
	if err != nil {
		return nil, err
	}

	return &domain.OTPSendResult{Email: user.Email, Phone: user.Phone, OTPSent: dispatch.Sent}, nil
}

// VerifyOTP implements domain.AuthService. The format gate runs before any
// store lookup; the record is consumed exactly once; verification flags only
// move forward; a first signup verification of a referred user fires the
// referral dispatch without blocking the response.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, in domain.VerifyOTPInput) (*domain.AuthResult, error) {
	if !domain.ValidOTPFormat(in.OTP) {
		return nil, domain.ErrInvalidOTPFormat
	}
	if in.Email == "" && in.Phone == "" {
		return nil, domain.ErrIdentifierRequired
	}

	phone := ""
	if in.Phone != "" {
		var err error
		if phone, err = domain.NormalizePhone(in.Phone); err != nil {
			return nil, err
		}
	}
	if in.Email != "" && !domain.ValidateEmail(in.Email) {
		return nil, domain.ErrInvalidEmail
	}

	user, err := s.findByEither(ctx, phone, in.Email)
	if err != nil {
		return nil, err
	}

	identifier := phone
	if identifier == "" {
		identifier = in.Email
	}

	record, err := s.otpRepo.FindLatestValid(ctx, identifier, in.OTP)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}
	if record.IsExpired(time.Now()) {
		return nil, domain.ErrOTPExpired
	}
	if err := s.otpRepo.MarkUsed(ctx, record); err != nil {
		// Lost the race against a concurrent verification with the same code.
		if errors.Is(err, domain.ErrOTPAlreadyUsed) {
			return nil, domain.ErrOTPInvalid
		}
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	// Both computed from the pre-mutation flags.
	isSignupVerification := record.Purpose == domain.PurposeRegister
	isFirstVerification := !user.IsPhoneVerified && !user.IsEmailVerified

	if phone != "" {
		user.IsPhoneVerified = true
	}
	if in.Email != "" {
		user.IsEmailVerified = true
	}

	if isSignupVerification && user.ReferredBy != 0 && isFirstVerification {
		s.dispatchReferral(user)
	}

	user.ProfileComplete = user.ComputeProfileComplete()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// dispatchReferral fires the referral side-effect from a detached goroutine.
// At-most-once, best-effort: failure is logged and dropped, never surfaced
// to the verification response.
func (s *AuthServiceImpl) dispatchReferral(user *domain.User) {
	event := domain.NewSignupReferralEvent(user.ReferredBy, user)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), referralDispatchTimeout)
		defer cancel()
		if err := s.referralSvc.Dispatch(ctx, event); err != nil {
			s.logger.Error().Err(err).
				Uint("referrer_id", event.ReferrerID).
				Uint("referred_id", event.ReferredID).
				Msg("referral dispatch failed")
		}
	}()
}

// ResendOTP implements domain.AuthService. It re-issues a fresh code for an
// existing account without touching the user record.
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, in domain.ResendOTPInput) (*domain.OTPSendResult, error) {
	if in.Email == "" && in.Phone == "" {
		return nil, domain.ErrIdentifierRequired
	}

	purpose := in.Purpose
	if purpose == "" {
		purpose = domain.PurposeRegister
	}

	phone := ""
	if in.Phone != "" {
		var err error
		if phone, err = domain.NormalizePhone(in.Phone); err != nil {
			return nil, err
		}
	}
	if in.Email != "" && !domain.ValidateEmail(in.Email) {
		return nil, domain.ErrInvalidEmail
	}

	user, err := s.findByEither(ctx, phone, in.Email)
	if err != nil {
		return nil, err
	}

	identifier := phone
	channel := domain.ChannelPhone
	if identifier == "" {
		identifier = in.Email
		channel = domain.ChannelEmail
	}

	dispatch, err := s.otpSvc.Issue(ctx, identifier, channel, purpose)
	if err != nil {
		return nil, err
	}

	return &domain.OTPSendResult{Email: user.Email, Phone: user.Phone, OTPSent: dispatch.Sent}, nil
}

// RefreshToken implements domain.AuthService. Refresh tokens are not
// rotated: a valid refresh token yields a new access token only.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", domain.ErrUserInactive
	}

	return s.tokenSvc.GenerateAccessToken(user.ID, user.Role)
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *AuthServiceImpl) findByEither(ctx context.Context, phone, email string) (*domain.User, error) {
	if phone != "" {
		user, err := s.userRepo.FindByPhone(ctx, phone)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) || email == "" {
			return nil, err
		}
	}
	return s.userRepo.FindByEmail(ctx, email)
}

func (s *AuthServiceImpl) exists(ctx context.Context, find func() (*domain.User, error)) bool {
	user, err := find()
	return err == nil && user != nil
}

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newReferralCode returns an 8-character shareable code.
func newReferralCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}
