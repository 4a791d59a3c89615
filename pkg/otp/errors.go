package otp

import "errors"

var (
	ErrMissingSecret          = errors.New("missing secret")
	ErrInvalidSecret          = errors.New("invalid secret")
	ErrMissingAccountName     = errors.New("missing account name")
	ErrMissingIssuer          = errors.New("missing issuer")
	ErrInvalidCodeFormat      = errors.New("invalid code format")
	ErrFailedToGenerateSecret = errors.New("failed to generate secret key")
	ErrFailedToGenerateCode   = errors.New("failed to generate code")
	ErrInvalidBackupCodeCount = errors.New("invalid backup code count, must be greater than 0")
)
