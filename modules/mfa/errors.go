package mfa

import "errors"

var (
	// ErrNotFound indicates no pending or enabled setting exists for the
	// requested (user, method) operation.
	ErrNotFound = errors.New("mfa setting not found")

	// ErrLocked indicates the lockout window is active. The code is never
	// evaluated while locked.
	ErrLocked = errors.New("mfa verification temporarily locked")

	// ErrInvalidPhone indicates the phone number is not valid E.164.
	ErrInvalidPhone = errors.New("invalid phone number, must be E.164 format")

	// ErrInvalidInput indicates a missing or malformed caller argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyEnabled indicates setup was requested for a method that is
	// already enabled; there is no setup transition out of ENABLED.
	ErrAlreadyEnabled = errors.New("mfa method already enabled")

	// ErrUnsupportedMethod indicates the operation is not valid for the
	// method, e.g. a challenge send for TOTP.
	ErrUnsupportedMethod = errors.New("operation not supported for method")

	// ErrPermissionDenied indicates self-service disablement was attempted
	// for a role that requires MFA.
	ErrPermissionDenied = errors.New("mfa disablement requires an administrator for this role")

	// ErrChallengeNotFound indicates no pending challenge code exists (never
	// sent, already consumed, or expired by the store's TTL).
	ErrChallengeNotFound = errors.New("challenge code not found")

	// ErrNotConfigured indicates a collaborator required by the operation
	// (challenge store, delivery, device trust) was not wired in.
	ErrNotConfigured = errors.New("required collaborator not configured")
)
