package domain

import "time"

// ReferralEventType identifies the kind of referral event.
type ReferralEventType string

const (
	// SignupReferralEvent is emitted once, when a referred user completes
	// their first successful verification.
	SignupReferralEvent ReferralEventType = "SIGNUP_REFERRAL"
)

// ReferralEvent is the payload handed to the referral dispatcher. Delivery
// is best-effort and at-most-once: the verification flow fires it from a
// detached goroutine and only logs failures.
type ReferralEvent struct {
	EventType  ReferralEventType `json:"event_type"`
	ReferrerID uint              `json:"referrer_id"`
	ReferredID uint              `json:"referred_id"`
	Phone      string            `json:"phone,omitempty"`
	Email      string            `json:"email,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewSignupReferralEvent creates a referral event with common fields populated.
func NewSignupReferralEvent(referrerID uint, referred *User) *ReferralEvent {
	return &ReferralEvent{
		EventType:  SignupReferralEvent,
		ReferrerID: referrerID,
		ReferredID: referred.ID,
		Phone:      referred.Phone,
		Email:      referred.Email,
		OccurredAt: time.Now().UTC(),
	}
}
