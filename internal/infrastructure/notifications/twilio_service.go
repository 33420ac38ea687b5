package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/ajaypanchal761/driveon-auth/domain"
)

// countryPrefix converts stored 10-digit mobile numbers to E.164 for Twilio.
const countryPrefix = "+91"

// TwilioServiceImpl implements domain.SMSGateway. Numbers on the demo
// allow-list are reported as sent without a real network send, so demo
// accounts work without an SMS budget.
type TwilioServiceImpl struct {
	client      *twilio.RestClient
	fromNumber  string
	demoNumbers map[string]struct{}
	logger      zerolog.Logger
}

// NewTwilioService creates a new Twilio SMS gateway. sendTimeout bounds each
// delivery attempt; there is no retry.
func NewTwilioService(accountSID, authToken, fromNumber string, demoNumbers []string, sendTimeout time.Duration, logger zerolog.Logger) domain.SMSGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	client.SetTimeout(sendTimeout)

	demo := make(map[string]struct{}, len(demoNumbers))
	for _, n := range demoNumbers {
		demo[n] = struct{}{}
	}

	return &TwilioServiceImpl{
		client:      client,
		fromNumber:  fromNumber,
		demoNumbers: demo,
		logger:      logger,
	}
}

// Send implements domain.SMSGateway
func (t *TwilioServiceImpl) Send(ctx context.Context, to, message string) (*domain.DeliveryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, ok := t.demoNumbers[to]; ok {
		t.logger.Info().Str("to", to).Msg("sms test-mode bypass for demo number")
		return &domain.DeliveryResult{Sent: true, TestBypass: true}, nil
	}

	// Unconfigured credentials: log the message instead of sending. Useful
	// for local development, reported as sent like the demo bypass.
	if t.fromNumber == "" {
		t.logger.Warn().Str("to", to).Msg("twilio not configured, logging sms instead of sending")
		return &domain.DeliveryResult{Sent: true, TestBypass: true}, nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(countryPrefix + to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.ErrorCode != nil {
		detail := ""
		if resp.ErrorMessage != nil {
			detail = *resp.ErrorMessage
		}
		return &domain.DeliveryResult{Sent: false, ProviderError: fmt.Sprintf("twilio error %d: %s", *resp.ErrorCode, detail)}, nil
	}

	return &domain.DeliveryResult{Sent: true}, nil
}
