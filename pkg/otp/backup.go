package otp

import (
	"crypto/rand"
	"errors"
)

const (
	// BackupCodeLength is the length of each backup-recovery code.
	BackupCodeLength = 8
	// DefaultBackupCodeCount is the batch size issued at enrollment.
	DefaultBackupCodeCount = 10

	backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateBackupCodes creates a batch of single-use recovery codes from a
// cryptographically secure random source. Each code is 8 uppercase
// alphanumeric characters.
func GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidBackupCodeCount
	}

	codes := make([]string, count)
	buf := make([]byte, BackupCodeLength)
	for i := 0; i < count; i++ {
		if _, err := rand.Read(buf); err != nil {
			return nil, errors.Join(ErrFailedToGenerateCode, err)
		}
		code := make([]byte, BackupCodeLength)
		for j, b := range buf {
			code[j] = backupCodeAlphabet[int(b)%len(backupCodeAlphabet)]
		}
		codes[i] = string(code)
	}
	return codes, nil
}
