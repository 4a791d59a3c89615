package devicetrust

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config holds device-trust token settings. The signing secret is required;
// TTL bounds how long a recognized device may skip MFA.
type Config struct {
	SigningSecret string        `env:"DEVICE_TRUST_SECRET,required"`
	TTL           time.Duration `env:"DEVICE_TRUST_TTL" envDefault:"720h"` // 30 days
}

// Issuer mints and verifies opaque device-trust tokens. A token binds a user
// id to a bounded validity window under an HMAC-SHA256 signature, so a
// recognized device can skip MFA until the token expires.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// New creates an Issuer from configuration.
func New(cfg Config) (*Issuer, error) {
	if cfg.SigningSecret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(cfg.SigningSecret), ttl: ttl}, nil
}

// Issue mints a signed token for the given user.
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return token, nil
}

// Verify checks the token signature and expiry and returns the user id it
// was issued for.
func (i *Issuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
