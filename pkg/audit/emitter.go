package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage is the external append-only audit sink. Implementations must be
// safe for concurrent use.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Emitter shapes security events and forwards them to the audit sink.
// Emission is fire-and-forget: a sink failure is surfaced to operational
// logging but never aborts the operation that produced the event.
type Emitter struct {
	storage Storage
	log     *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLogger sets the operational logger used when the sink rejects an event.
func WithLogger(log *slog.Logger) Option {
	return func(e *Emitter) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEmitter creates an audit emitter backed by the given sink.
func NewEmitter(storage Storage, opts ...Option) *Emitter {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	e := &Emitter{
		storage: storage,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Success records a successful action at LOW risk unless overridden.
func (e *Emitter) Success(ctx context.Context, category Category, action string, opts ...EventOption) {
	e.emit(ctx, category, action, ResultSuccess, RiskLow, opts...)
}

// Failure records a failed action at HIGH risk unless overridden.
func (e *Emitter) Failure(ctx context.Context, category Category, action string, opts ...EventOption) {
	e.emit(ctx, category, action, ResultFailure, RiskHigh, opts...)
}

func (e *Emitter) emit(ctx context.Context, category Category, action string, result Result, risk Risk, opts ...EventOption) {
	event := Event{
		ID:        uuid.New().String(),
		Category:  category,
		Action:    action,
		Result:    result,
		Risk:      risk,
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		e.log.ErrorContext(ctx, "audit event rejected", slog.Any("error", err), slog.String("action", action))
		return
	}

	if err := e.storage.Store(ctx, event); err != nil {
		e.log.ErrorContext(ctx, "audit sink unavailable",
			slog.Any("error", err),
			slog.String("action", action),
			slog.String("category", string(category)),
		)
	}
}
