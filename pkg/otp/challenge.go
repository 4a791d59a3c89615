package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const challengeCodeMax = 1000000 // 10^Digits

// GenerateChallengeCode returns a uniformly random 6-digit decimal code,
// zero-padded, for SMS/email delivery.
func GenerateChallengeCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(challengeCodeMax))
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateCode, err)
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}
