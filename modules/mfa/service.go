package mfa

import (
	"time"

	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/devicetrust"
	"github.com/dmitrymomot/mfakit/pkg/vault"
)

const (
	defaultIssuer       = "MindWell"
	defaultChallengeTTL = 5 * time.Minute
	defaultQRCodeSize   = 256
)

// Service drives MFA enrollment and steady-state verification. It is
// request-scoped and stateless between calls: all durable state lives in the
// Store, challenge codes in the ChallengeStore, and the audit trail in the
// emitter's sink.
type Service struct {
	store      Store
	vault      *vault.Vault
	audit      *audit.Emitter
	challenges ChallengeStore
	delivery   Delivery
	trust      *devicetrust.Issuer

	policy          LockoutPolicy
	issuer          string
	backupCodeCount int
	challengeTTL    time.Duration
	qrCodeSize      int
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithChallengeStore wires the short-lived challenge-code store required for
// the SMS and EMAIL methods.
func WithChallengeStore(store ChallengeStore) Option {
	return func(s *Service) { s.challenges = store }
}

// WithDelivery wires the out-of-band delivery collaborator required for the
// SMS and EMAIL methods.
func WithDelivery(delivery Delivery) Option {
	return func(s *Service) { s.delivery = delivery }
}

// WithDeviceTrust enables minting device-trust tokens on successful
// verification.
func WithDeviceTrust(issuer *devicetrust.Issuer) Option {
	return func(s *Service) { s.trust = issuer }
}

// WithLockoutPolicy overrides the default 5-attempt / 15-minute policy.
func WithLockoutPolicy(policy LockoutPolicy) Option {
	return func(s *Service) {
		if policy.MaxAttempts > 0 && policy.Cooldown > 0 {
			s.policy = policy
		}
	}
}

// WithIssuer sets the issuer name shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithBackupCodeCount overrides the default batch size of 10.
func WithBackupCodeCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.backupCodeCount = count
		}
	}
}

// WithChallengeTTL overrides the default 5-minute challenge-code lifetime.
func WithChallengeTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.challengeTTL = ttl
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates the MFA service. Store, vault and audit emitter are the
// non-negotiable collaborators; construction panics without them so a
// miswired process fails at startup, not on first request.
func New(store Store, v *vault.Vault, emitter *audit.Emitter, opts ...Option) *Service {
	if store == nil {
		panic("mfa: store cannot be nil")
	}
	if v == nil {
		panic("mfa: vault cannot be nil")
	}
	if emitter == nil {
		panic("mfa: audit emitter cannot be nil")
	}

	s := &Service{
		store:           store,
		vault:           v,
		audit:           emitter,
		policy:          DefaultLockoutPolicy(),
		issuer:          defaultIssuer,
		backupCodeCount: 10,
		challengeTTL:    defaultChallengeTTL,
		qrCodeSize:      defaultQRCodeSize,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
