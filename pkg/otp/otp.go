package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// Digits is the length of generated TOTP and challenge codes.
	Digits = 6
	// Period is the TOTP time-step size in seconds (RFC 6238 standard).
	Period = 30
	// skew is the number of time steps accepted on each side of the
	// current one to absorb clock drift between client and server.
	skew = 1
)

var (
	// secretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding.
	secretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")
	codeRegex      = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, Digits))
)

// ProvisioningParams contains the parameters for otpauth URI generation.
type ProvisioningParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
}

// Validate ensures all required provisioning parameters are present and valid.
func (p ProvisioningParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !secretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GenerateSecretKey generates a new Base32-encoded 160-bit secret key for TOTP
// (RFC 4226 recommended secret size).
func GenerateSecretKey() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecret, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}

// ProvisioningURI builds the otpauth:// URI consumed by authenticator apps.
// The format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func ProvisioningURI(params ProvisioningParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("digits", fmt.Sprintf("%d", Digits))
	query.Set("period", fmt.Sprintf("%d", Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// GenerateTOTP generates a time-based one-time password for the current
// 30-second window. The secret must be a valid Base32-encoded string.
func GenerateTOTP(secret string) (string, error) {
	return GenerateTOTPAt(secret, time.Now())
}

// GenerateTOTPAt generates a TOTP code for the time window containing t.
// Useful for tests and for generating codes for specific moments.
func GenerateTOTPAt(secret string, t time.Time) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateCode, err)
	}

	code := hotp(key, t.Unix()/Period, Digits)
	return fmt.Sprintf("%0*d", Digits, code), nil
}

// ValidateTOTP validates the TOTP code provided by the user against the
// current time window.
func ValidateTOTP(secret, code string) (bool, error) {
	return ValidateTOTPAt(secret, code, time.Now())
}

// ValidateTOTPAt validates a TOTP code against the time window containing t.
// Codes from the previous and next window are accepted to handle clock drift;
// anything further off is rejected.
func ValidateTOTPAt(secret, code string, t time.Time) (bool, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidCodeFormat
	}

	counter := t.Unix() / Period
	for i := -skew; i <= skew; i++ {
		candidate := fmt.Sprintf("%0*d", Digits, hotp(key, counter+int64(i), Digits))
		if Equal(candidate, code) {
			return true, nil
		}
	}

	return false, nil
}

// hotp implements the RFC 4226 HMAC-based One-Time Password algorithm,
// converting a counter value into a numeric code using HMAC-SHA1.
func hotp(key []byte, counter int64, digits int) int {
	// Counter goes on the wire as a big-endian 8-byte value (RFC 4226).
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes)
	hash := mac.Sum(nil)

	// Dynamic truncation (RFC 4226): last 4 bits select the offset,
	// the MSB of the extracted word is cleared to keep it positive.
	offset := hash[len(hash)-1] & 0x0f
	code := (int(hash[offset]&0x7f) << 24) |
		(int(hash[offset+1]&0xff) << 16) |
		(int(hash[offset+2]&0xff) << 8) |
		(int(hash[offset+3] & 0xff))

	return code % int(math.Pow10(digits))
}

// Equal compares two codes in constant time to avoid leaking match position
// through response timing.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !secretKeyRegex.MatchString(secret) {
		return nil, ErrInvalidSecret
	}

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.TrimRight(secret, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}
