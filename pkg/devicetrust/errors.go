package devicetrust

import "errors"

var (
	ErrMissingSecret = errors.New("device trust signing secret not set")
	ErrMissingUserID = errors.New("missing user id")
	ErrSigningFailed = errors.New("failed to sign device trust token")
	ErrInvalidToken  = errors.New("invalid device trust token")
)
