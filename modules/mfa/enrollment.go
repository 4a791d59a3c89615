package mfa

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/qrcode"

	"github.com/google/uuid"
)

// e164Regex matches the E.164 international phone number format.
var e164Regex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// SetupTOTP starts TOTP enrollment: generates a fresh seed and backup-code
// batch, persists both as PENDING_SETUP (replacing any prior pending attempt
// for the method) and returns the provisioning material. The plaintext
// secret, URI, QR code and backup codes are surfaced exactly once, here;
// they are never retrievable again.
func (s *Service) SetupTOTP(ctx context.Context, userID, email string) (*TOTPSetup, error) {
	if userID == "" || email == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if err := s.checkSetupAllowed(ctx, userID, MethodTOTP); err != nil {
		return nil, err
	}

	secret, err := otp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}
	encSecret, err := s.vault.Encrypt(secret)
	if err != nil {
		return nil, err
	}

	uri, err := otp.ProvisioningURI(otp.ProvisioningParams{
		Secret:      secret,
		AccountName: email,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, err
	}
	qr, err := qrcode.DataURI(uri, s.qrCodeSize)
	if err != nil {
		return nil, err
	}

	backupCodes, err := s.generateBackupBatch(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.persistPending(ctx, userID, MethodTOTP, TOTPFactor{Secret: encSecret}); err != nil {
		return nil, err
	}

	s.audit.Success(ctx, audit.CategoryEnrollment, "mfa.setup.totp.initiated",
		audit.WithUser(userID, email),
		audit.WithMethod(string(MethodTOTP)),
		audit.WithRisk(audit.RiskMedium),
	)

	return &TOTPSetup{
		Secret:      secret,
		URI:         uri,
		QRCode:      qr,
		BackupCodes: backupCodes,
	}, nil
}

// SetupSMS starts SMS enrollment: validates the phone number, persists the
// pending setting and delivers a verification challenge to the phone.
func (s *Service) SetupSMS(ctx context.Context, userID, email, phoneNumber string) (*SMSSetup, error) {
	if userID == "" || email == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if !e164Regex.MatchString(phoneNumber) {
		return nil, ErrInvalidPhone
	}
	if s.challenges == nil || s.delivery == nil {
		return nil, fmt.Errorf("%w: challenge store and delivery are required for SMS", ErrNotConfigured)
	}
	if err := s.checkSetupAllowed(ctx, userID, MethodSMS); err != nil {
		return nil, err
	}

	encPhone, err := s.vault.Encrypt(phoneNumber)
	if err != nil {
		return nil, err
	}

	backupCodes, err := s.generateBackupBatch(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.persistPending(ctx, userID, MethodSMS, SMSFactor{Phone: encPhone}); err != nil {
		return nil, err
	}

	if err := s.dispatchChallenge(ctx, userID, MethodSMS, phoneNumber); err != nil {
		return nil, err
	}

	s.audit.Success(ctx, audit.CategoryEnrollment, "mfa.setup.sms.initiated",
		audit.WithUser(userID, email),
		audit.WithMethod(string(MethodSMS)),
		audit.WithRisk(audit.RiskMedium),
		audit.WithMetadata("masked_phone", maskPhone(phoneNumber)),
	)

	return &SMSSetup{
		MaskedPhone: maskPhone(phoneNumber),
		BackupCodes: backupCodes,
	}, nil
}

// SetupEmail starts email enrollment using the account's own address as the
// challenge destination.
func (s *Service) SetupEmail(ctx context.Context, userID, email string) (*EmailSetup, error) {
	if userID == "" || email == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if s.challenges == nil || s.delivery == nil {
		return nil, fmt.Errorf("%w: challenge store and delivery are required for EMAIL", ErrNotConfigured)
	}
	if err := s.checkSetupAllowed(ctx, userID, MethodEmail); err != nil {
		return nil, err
	}

	backupCodes, err := s.generateBackupBatch(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.persistPending(ctx, userID, MethodEmail, EmailFactor{Address: email}); err != nil {
		return nil, err
	}

	if err := s.dispatchChallenge(ctx, userID, MethodEmail, email); err != nil {
		return nil, err
	}

	s.audit.Success(ctx, audit.CategoryEnrollment, "mfa.setup.email.initiated",
		audit.WithUser(userID, email),
		audit.WithMethod(string(MethodEmail)),
		audit.WithRisk(audit.RiskMedium),
		audit.WithMetadata("masked_email", maskEmail(email)),
	)

	return &EmailSetup{
		MaskedEmail: maskEmail(email),
		BackupCodes: backupCodes,
	}, nil
}

// VerifySetup completes enrollment. The caller proves possession of the
// factor with a correct code; only then does the setting transition from
// PENDING_SETUP to ENABLED. A wrong code increments the shared failure
// counter and is an expected outcome, not an error.
func (s *Service) VerifySetup(ctx context.Context, userID, email string, method Method, code string) (*SetupVerification, error) {
	switch method {
	case MethodTOTP, MethodSMS, MethodEmail:
	default:
		return nil, fmt.Errorf("%w: cannot verify setup for %q", ErrUnsupportedMethod, method)
	}

	setting, err := s.store.FindOne(ctx, userID, method)
	if err != nil {
		return nil, err
	}
	if setting.Status != StatusPendingSetup {
		return nil, fmt.Errorf("%w: no pending setup for %s", ErrNotFound, method)
	}

	now := s.now()
	if s.policy.Locked(setting.LockedUntil, now) {
		s.auditLockout(ctx, audit.CategoryEnrollment, "mfa.setup.verify", userID, email, method)
		return nil, ErrLocked
	}

	verified, err := s.checkCode(ctx, setting, code)
	if err != nil {
		s.auditIntegrity(ctx, "mfa.setup.verify", userID, email, method, err)
		return nil, err
	}

	if !verified {
		s.recordFailure(ctx, audit.CategoryEnrollment, "mfa.setup.verify", userID, email, method, now)
		return &SetupVerification{Verified: false}, nil
	}

	setting.Status = StatusEnabled
	setting.FailedAttempts = 0
	setting.LockedUntil = nil
	setting.LastUsed = &now
	setting.UpdatedAt = now
	if err := s.store.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	if err := s.enableBackupCodes(ctx, userID); err != nil {
		return nil, err
	}

	backupCodes, err := s.decryptBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.audit.Success(ctx, audit.CategoryEnrollment, "mfa.setup.verified",
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithRisk(audit.RiskMedium),
	)

	return &SetupVerification{Verified: true, BackupCodes: backupCodes}, nil
}

// RegenerateBackupCodes replaces the stored backup-code batch for a user
// with at least one enabled method and returns the fresh plaintext codes.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID, email string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	status, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.Enabled {
		return nil, fmt.Errorf("%w: no enabled method to back up", ErrNotFound)
	}

	codes, err := s.generateBackupBatch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.enableBackupCodes(ctx, userID); err != nil {
		return nil, err
	}

	s.audit.Success(ctx, audit.CategoryEnrollment, "mfa.backup_codes.regenerated",
		audit.WithUser(userID, email),
		audit.WithMethod(string(MethodBackupCode)),
		audit.WithRisk(audit.RiskMedium),
	)

	return codes, nil
}

// checkSetupAllowed enforces the enrollment state machine: setup may start
// from absence, DISABLED or an earlier PENDING_SETUP, but not from ENABLED,
// and not while a pending attempt is locked out.
func (s *Service) checkSetupAllowed(ctx context.Context, userID string, method Method) error {
	existing, err := s.store.FindOne(ctx, userID, method)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Status == StatusEnabled {
		return fmt.Errorf("%w: %s", ErrAlreadyEnabled, method)
	}
	if s.policy.Locked(existing.LockedUntil, s.now()) {
		return ErrLocked
	}
	return nil
}

// persistPending writes the method row as PENDING_SETUP, replacing any prior
// attempt and resetting its counters.
func (s *Service) persistPending(ctx context.Context, userID string, method Method, factor Factor) error {
	now := s.now()
	return s.store.Upsert(ctx, &Setting{
		ID:        uuid.New().String(),
		UserID:    userID,
		Method:    method,
		Status:    StatusPendingSetup,
		Factor:    factor,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// generateBackupBatch creates a fresh batch, encrypts each code individually
// and stores the batch on the user's BACKUP_CODE row. The row starts
// PENDING_SETUP and is enabled together with the method being verified.
func (s *Service) generateBackupBatch(ctx context.Context, userID string) ([]string, error) {
	codes, err := otp.GenerateBackupCodes(s.backupCodeCount)
	if err != nil {
		return nil, err
	}

	encrypted := make([]string, len(codes))
	for i, code := range codes {
		if encrypted[i], err = s.vault.Encrypt(code); err != nil {
			return nil, err
		}
	}

	if err := s.persistPending(ctx, userID, MethodBackupCode, BackupCodesFactor{Codes: encrypted}); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *Service) enableBackupCodes(ctx context.Context, userID string) error {
	setting, err := s.store.FindOne(ctx, userID, MethodBackupCode)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	now := s.now()
	setting.Status = StatusEnabled
	setting.FailedAttempts = 0
	setting.LockedUntil = nil
	setting.UpdatedAt = now
	return s.store.Upsert(ctx, setting)
}

func (s *Service) decryptBackupCodes(ctx context.Context, userID string) ([]string, error) {
	setting, err := s.store.FindOne(ctx, userID, MethodBackupCode)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	factor, ok := setting.Factor.(BackupCodesFactor)
	if !ok {
		return nil, nil
	}

	codes := make([]string, len(factor.Codes))
	for i, ciphertext := range factor.Codes {
		if codes[i], err = s.vault.Decrypt(ciphertext); err != nil {
			return nil, err
		}
	}
	return codes, nil
}
