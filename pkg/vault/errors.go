package vault

import "errors"

var (
	// ErrIntegrity signals an authentication-tag failure on decrypt. Callers
	// must treat it as a security incident, never as a wrong user code.
	ErrIntegrity = errors.New("ciphertext integrity check failed")

	ErrInvalidKey        = errors.New("invalid encryption key")
	ErrKeyNotSet         = errors.New("encryption key not set")
	ErrInvalidKeyLength  = errors.New("encryption key must be 32 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	ErrUnknownKeyID      = errors.New("unknown key id")
	ErrEncryptionFailed  = errors.New("encryption failed")
)
