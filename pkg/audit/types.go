package audit

import (
	"fmt"
	"time"
)

// Category classifies the security-relevant action being recorded.
type Category string

const (
	CategoryEnrollment   Category = "enrollment"
	CategoryVerification Category = "verification"
	CategoryFailure      Category = "failure"
	CategoryDisablement  Category = "disablement"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Risk grades how security-relevant an event is. Routine successes are LOW,
// setup activity MEDIUM, lockouts/failures/disablement HIGH, and integrity
// incidents CRITICAL.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Event is a single audit log entry. Metadata must never contain plaintext
// secrets or codes; destinations are recorded masked.
type Event struct {
	ID        string         `json:"id"`
	Category  Category       `json:"category"`
	Action    string         `json:"action"`
	Result    Result         `json:"result"`
	Risk      Risk           `json:"risk"`
	UserID    string         `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Method    string         `json:"method,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks that the event carries the fields every entry requires.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	if e.Category == "" {
		return fmt.Errorf("%w: category is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithUser sets the acting user's id and email.
func WithUser(id, email string) EventOption {
	return func(e *Event) {
		e.UserID = id
		e.Email = email
	}
}

// WithMethod records the MFA method the event concerns.
func WithMethod(method string) EventOption {
	return func(e *Event) {
		e.Method = method
	}
}

// WithRisk overrides the default risk level.
func WithRisk(risk Risk) EventOption {
	return func(e *Event) {
		e.Risk = risk
	}
}

// WithMetadata adds a metadata entry to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithError records the error behind a failed action.
func WithError(err error) EventOption {
	return func(e *Event) {
		if err != nil {
			e.Error = err.Error()
		}
	}
}
