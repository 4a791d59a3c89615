package mfa

import (
	"context"
	"time"
)

// Method identifies a secondary authentication factor.
type Method string

const (
	MethodTOTP       Method = "TOTP"
	MethodSMS        Method = "SMS"
	MethodEmail      Method = "EMAIL"
	MethodBackupCode Method = "BACKUP_CODE"
)

// Valid reports whether the method is one of the supported factors.
func (m Method) Valid() bool {
	switch m {
	case MethodTOTP, MethodSMS, MethodEmail, MethodBackupCode:
		return true
	}
	return false
}

// Status is the lifecycle state of a (user, method) setting.
type Status string

const (
	StatusDisabled            Status = "DISABLED"
	StatusPendingSetup        Status = "PENDING_SETUP"
	StatusEnabled             Status = "ENABLED"
	StatusTemporarilyDisabled Status = "TEMPORARILY_DISABLED"
)

// Role is the caller's role as established by primary authentication. Roles
// with access to clinical records require MFA and refuse self-service
// disablement.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleTherapist Role = "THERAPIST"
	RoleClinician Role = "CLINICIAN"
	RolePatient   Role = "PATIENT"
)

var mfaRequiredRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleTherapist: true,
	RoleClinician: true,
}

// RequiresMFA reports whether the role mandates an enabled second factor.
func RequiresMFA(role Role) bool {
	return mfaRequiredRoles[role]
}

// Factor carries the method-specific payload of a setting. Using a variant
// per method, instead of one row type with nullable columns, makes the
// "secret present iff TOTP, phone present iff SMS" invariants structural.
type Factor interface {
	factorMethod() Method
}

// TOTPFactor holds the vault ciphertext of the Base32 TOTP seed.
type TOTPFactor struct {
	Secret string
}

func (TOTPFactor) factorMethod() Method { return MethodTOTP }

// SMSFactor holds the vault ciphertext of the enrolled E.164 phone number.
type SMSFactor struct {
	Phone string
}

func (SMSFactor) factorMethod() Method { return MethodSMS }

// EmailFactor holds the enrolled delivery address.
type EmailFactor struct {
	Address string
}

func (EmailFactor) factorMethod() Method { return MethodEmail }

// BackupCodesFactor holds the remaining recovery codes, each an individual
// vault ciphertext. The set strictly shrinks as codes are consumed, until
// regenerated.
type BackupCodesFactor struct {
	Codes []string
}

func (BackupCodesFactor) factorMethod() Method { return MethodBackupCode }

// Setting is one durable row per (user, method).
type Setting struct {
	ID             string
	UserID         string
	Method         Method
	Status         Status
	Factor         Factor
	FailedAttempts int
	LockedUntil    *time.Time
	LastUsed       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store is the persistence collaborator. Implementations must provide
// read-modify-write atomicity per (user, method) row; in particular
// RecordFailure must be a single conditional update so parallel wrong-code
// attempts cannot race past the lockout threshold.
type Store interface {
	// FindOne returns the setting for (userID, method) or ErrNotFound.
	FindOne(ctx context.Context, userID string, method Method) (*Setting, error)
	// FindByUser returns all settings for the user, any status.
	FindByUser(ctx context.Context, userID string) ([]*Setting, error)
	// Upsert creates or replaces the row keyed by (UserID, Method).
	Upsert(ctx context.Context, setting *Setting) error
	// RecordFailure atomically increments the failure counter and, when the
	// new count reaches maxAttempts, stamps lockedUntil. Returns the updated
	// setting.
	RecordFailure(ctx context.Context, userID string, method Method, maxAttempts int, lockedUntil time.Time) (*Setting, error)
	// RecordSuccess atomically resets the failure counter, clears any
	// lockout and stamps the last successful use.
	RecordSuccess(ctx context.Context, userID string, method Method, usedAt time.Time) (*Setting, error)
}

// ChallengeStore holds short-lived delivered challenge codes. Expiry is the
// store's own TTL; this subsystem owns no timers.
type ChallengeStore interface {
	Save(ctx context.Context, userID string, method Method, code string, ttl time.Duration) error
	// Get returns the pending code for (userID, method) or ErrChallengeNotFound.
	Get(ctx context.Context, userID string, method Method) (string, error)
	Delete(ctx context.Context, userID string, method Method) error
}

// Delivery is the out-of-band transport collaborator. The core decides that
// a code must be delivered and to which destination; transport is external.
type Delivery interface {
	SendSMS(ctx context.Context, phoneNumber, code string) error
	SendEmail(ctx context.Context, address, code string) error
}

// TOTPSetup is returned by SetupTOTP. Secret and BackupCodes are plaintext,
// surfaced exactly once at generation time and never retrievable again.
type TOTPSetup struct {
	Secret      string
	URI         string
	QRCode      string // data: URI with a PNG rendering of URI
	BackupCodes []string
}

// SMSSetup is returned by SetupSMS.
type SMSSetup struct {
	MaskedPhone string
	BackupCodes []string
}

// EmailSetup is returned by SetupEmail.
type EmailSetup struct {
	MaskedEmail string
	BackupCodes []string
}

// SetupVerification is the outcome of a VerifySetup attempt. A wrong code is
// an expected outcome (Verified=false), not an error.
type SetupVerification struct {
	Verified bool
	// BackupCodes are re-decrypted for final display on success only.
	BackupCodes []string
}

// Verification is the outcome of a VerifyMFA attempt.
type Verification struct {
	Verified bool
	// TrustToken is set when the caller requested device trust and
	// verification succeeded.
	TrustToken string
}

// StatusReport summarizes a user's MFA posture.
type StatusReport struct {
	Enabled              bool
	Methods              []Method
	BackupCodesRemaining int
}
