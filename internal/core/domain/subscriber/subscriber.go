package subscriber

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rivo/uniseg"
)

var validate = validator.New()

// maxNameGraphemes limits names to 256 user-perceived characters, counted
// as grapheme clusters rather than bytes.
const maxNameGraphemes = 256

const forbiddenNameChars = `/()"<>\{}`

// Email is a subscriber email address that passed validation. The zero
// value is invalid; ParseEmail is the only way to obtain one.
type Email struct {
	value string
}

// ParseEmail validates raw against the standard address grammar.
func ParseEmail(raw string) (Email, error) {
	if err := validate.Var(raw, "required,email"); err != nil {
		return Email{}, &ValidationError{Field: "email", Reason: fmt.Sprintf("%q is not a valid email address", raw)}
	}
	return Email{value: raw}, nil
}

func (e Email) String() string {
	return e.value
}

// Name is a subscriber display name that passed validation. The zero value
// is invalid; ParseName is the only way to obtain one.
type Name struct {
	value string
}

// ParseName rejects names that are empty after trimming, longer than 256
// grapheme clusters, or that contain any forbidden character.
func ParseName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return Name{}, &ValidationError{Field: "name", Reason: "must not be empty or whitespace"}
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return Name{}, &ValidationError{Field: "name", Reason: fmt.Sprintf("must not be longer than %d characters", maxNameGraphemes)}
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return Name{}, &ValidationError{Field: "name", Reason: "contains forbidden characters"}
	}
	return Name{value: raw}, nil
}

func (n Name) String() string {
	return n.value
}

// NewSubscriber is a validated signup request that has not been persisted
// yet and therefore has no identity.
type NewSubscriber struct {
	Email Email
	Name  Name
}

// NewSubscriberFromForm parses both raw form fields, failing on the first
// invalid one.
func NewSubscriberFromForm(email, name string) (*NewSubscriber, error) {
	parsedEmail, err := ParseEmail(email)
	if err != nil {
		return nil, err
	}
	parsedName, err := ParseName(name)
	if err != nil {
		return nil, err
	}
	return &NewSubscriber{Email: parsedEmail, Name: parsedName}, nil
}

type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusConfirmed:
		return true
	default:
		return false
	}
}

// Subscriber is a persisted list member. Email and Name hold the raw stored
// strings and are not re-validated on read.
type Subscriber struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	SubscribedAt time.Time `json:"subscribed_at" db:"subscribed_at"`
	Status       Status    `json:"status" db:"status"`
}

// IsConfirmed reports whether the subscriber redeemed a confirmation token.
func (s *Subscriber) IsConfirmed() bool {
	return s.Status == StatusConfirmed
}

// SubscriptionToken links a one-time confirmation secret to its subscriber.
// Rows are written once, atomically with the subscriber, and never change.
type SubscriptionToken struct {
	Token        string    `json:"subscription_token" db:"subscription_token"`
	SubscriberID uuid.UUID `json:"subscriber_id" db:"subscriber_id"`
}
