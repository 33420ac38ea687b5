package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// OTPServiceImpl implements domain.OTPService: generate a code, persist it,
// then attempt delivery. Persistence always precedes delivery so a code is
// never reported as sent without being verifiable later.
type OTPServiceImpl struct {
	otpRepo     domain.OTPRepository
	sms         domain.SMSGateway
	redisClient *redis.Client
	config      OTPConfig
	logger      zerolog.Logger
}

type OTPConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration // non-positive disables throttling
	SendTimeout  time.Duration
	DemoNumbers  []string
	Production   bool
}

// NewOTPService creates a new OTP issuance service
func NewOTPService(otpRepo domain.OTPRepository, sms domain.SMSGateway, redisClient *redis.Client, config OTPConfig, logger zerolog.Logger) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo:     otpRepo,
		sms:         sms,
		redisClient: redisClient,
		config:      config,
		logger:      logger,
	}
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue(ctx context.Context, identifier string, channel domain.OTPChannel, purpose domain.OTPPurpose) (*domain.OTPDispatchResult, error) {
	if s.config.ResendWindow > 0 {
		canResend, wait, err := s.canResend(ctx, identifier)
		if err != nil {
			return nil, fmt.Errorf("failed to check resend throttle: %w", err)
		}
		if !canResend {
			return nil, fmt.Errorf("%w: please wait %d seconds before requesting a new OTP", domain.ErrOTPThrottled, wait)
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	record := &domain.OTPRecord{
		Identifier: identifier,
		Code:       code,
		Type:       channel,
		Purpose:    purpose,
		ExpiresAt:  time.Now().Add(s.config.TTL),
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	if s.config.ResendWindow > 0 {
		if err := s.redisClient.Set(ctx, resendKey(identifier), 1, s.config.ResendWindow).Err(); err != nil {
			s.logger.Warn().Err(err).Str("identifier", identifier).Msg("failed to set resend throttle")
		}
	}

	// Email delivery is a permanent stub: the code is persisted but never
	// dispatched, and the caller sees otpSent=false without an error.
	if channel == domain.ChannelEmail {
		return &domain.OTPDispatchResult{Record: record, Sent: false}, nil
	}

	sent, err := s.deliverSMS(ctx, identifier, code)
	if err != nil {
		return nil, err
	}
	return &domain.OTPDispatchResult{Record: record, Sent: sent}, nil
}

func (s *OTPServiceImpl) deliverSMS(ctx context.Context, phone, code string) (bool, error) {
	message := fmt.Sprintf("Your DriveOn verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))

	sendCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	defer cancel()

	result, err := s.sms.Send(sendCtx, phone, message)
	if err != nil {
		if s.tolerateFailure(phone) {
			s.logger.Warn().Err(err).Str("phone", phone).Msg("sms send failed, tolerated for demo number")
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", domain.ErrSMSDeliveryFailed, err)
	}

	if !result.Sent {
		if s.tolerateFailure(phone) {
			s.logger.Warn().Str("phone", phone).Str("provider_error", result.ProviderError).Msg("sms rejected, tolerated for demo number")
			return false, nil
		}
		return false, fmt.Errorf("%w: %s", domain.ErrSMSDeliveryFailed, result.ProviderError)
	}

	if result.TestBypass {
		s.logger.Info().Str("phone", phone).Msg("otp delivery bypassed in test mode")
	}
	return true, nil
}

// tolerateFailure reports whether a delivery failure for this number should
// be swallowed: allow-listed demo numbers outside production keep demos
// working when the SMS provider is unreachable.
func (s *OTPServiceImpl) tolerateFailure(phone string) bool {
	if s.config.Production {
		return false
	}
	for _, n := range s.config.DemoNumbers {
		if n == phone {
			return true
		}
	}
	return false
}

func (s *OTPServiceImpl) canResend(ctx context.Context, identifier string) (bool, int64, error) {
	ttl, err := s.redisClient.TTL(ctx, resendKey(identifier)).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl <= 0 {
		return true, 0, nil
	}
	return false, int64(ttl.Seconds()), nil
}

func resendKey(identifier string) string {
	return "otp:res:" + identifier
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func (s *OTPServiceImpl) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
