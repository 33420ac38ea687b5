package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTwilioService_Send_DemoBypass(t *testing.T) {
	svc := NewTwilioService("AC000", "token", "+15550006789", []string{"9999999901"}, time.Second, zerolog.Nop())

	result, err := svc.Send(context.Background(), "9999999901", "code 123456")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !result.Sent || !result.TestBypass {
		t.Errorf("demo number should bypass as sent, got %+v", result)
	}
}

func TestTwilioService_Send_UnconfiguredLogsInstead(t *testing.T) {
	svc := NewTwilioService("", "", "", nil, time.Second, zerolog.Nop())

	result, err := svc.Send(context.Background(), "9812345678", "code 123456")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !result.Sent || !result.TestBypass {
		t.Errorf("unconfigured gateway should report bypass, got %+v", result)
	}
}

func TestTwilioService_Send_CancelledContext(t *testing.T) {
	svc := NewTwilioService("AC000", "token", "+15550006789", nil, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Send(ctx, "9812345678", "code 123456"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
