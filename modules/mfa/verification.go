package mfa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/vault"
)

// VerifyMFA performs login-time verification against an enabled setting. The
// lockout window is checked before any code comparison. On success the
// failure counter resets, the lockout clears, last use is stamped and, when
// requested, a device-trust token is minted. A wrong code is an expected
// outcome: the counter advances and Verified is false.
func (s *Service) VerifyMFA(ctx context.Context, userID, email string, method Method, code string, trustDevice bool) (*Verification, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	setting, err := s.store.FindOne(ctx, userID, method)
	if err != nil {
		return nil, err
	}
	if setting.Status != StatusEnabled {
		return nil, fmt.Errorf("%w: %s is not enabled", ErrNotFound, method)
	}

	now := s.now()
	if s.policy.Locked(setting.LockedUntil, now) {
		s.auditLockout(ctx, audit.CategoryVerification, "mfa.verify", userID, email, method)
		return nil, ErrLocked
	}

	verified, err := s.checkCode(ctx, setting, code)
	if err != nil {
		s.auditIntegrity(ctx, "mfa.verify", userID, email, method, err)
		return nil, err
	}

	if !verified {
		s.recordFailure(ctx, audit.CategoryVerification, "mfa.verify", userID, email, method, now)
		return &Verification{Verified: false}, nil
	}

	if _, err := s.store.RecordSuccess(ctx, userID, method, now); err != nil {
		return nil, err
	}

	result := &Verification{Verified: true}
	if trustDevice && s.trust != nil {
		token, err := s.trust.Issue(userID)
		if err != nil {
			return nil, err
		}
		result.TrustToken = token
	}

	s.audit.Success(ctx, audit.CategoryVerification, "mfa.verify",
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithMetadata("device_trusted", result.TrustToken != ""),
	)

	return result, nil
}

// SendChallenge generates and delivers a fresh challenge code for the SMS
// and EMAIL methods. TOTP codes are time-derived, not server-issued, so the
// call is a no-op for TOTP. Any other method is a contract violation.
func (s *Service) SendChallenge(ctx context.Context, userID, email string, method Method) error {
	switch method {
	case MethodTOTP:
		return nil
	case MethodSMS, MethodEmail:
	default:
		return fmt.Errorf("%w: cannot send challenge for %q", ErrUnsupportedMethod, method)
	}
	if s.challenges == nil || s.delivery == nil {
		return fmt.Errorf("%w: challenge store and delivery are required for %s", ErrNotConfigured, method)
	}

	setting, err := s.store.FindOne(ctx, userID, method)
	if err != nil {
		return err
	}
	if setting.Status != StatusEnabled {
		return fmt.Errorf("%w: %s is not enabled", ErrNotFound, method)
	}

	destination, err := s.challengeDestination(setting)
	if err != nil {
		s.auditIntegrity(ctx, "mfa.challenge.send", userID, email, method, err)
		return err
	}

	if err := s.dispatchChallenge(ctx, userID, method, destination); err != nil {
		return err
	}

	masked := maskPhone(destination)
	if method == MethodEmail {
		masked = maskEmail(destination)
	}
	s.audit.Success(ctx, audit.CategoryVerification, "mfa.challenge.sent",
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithMetadata("masked_destination", masked),
	)

	return nil
}

// DisableMFA turns a method off. Users whose role requires MFA cannot
// disable it themselves; an acting administrator id is mandatory for those
// roles. Disablement is always audited at HIGH risk.
func (s *Service) DisableMFA(ctx context.Context, userID, email string, role Role, method Method, actingAdminID string) error {
	setting, err := s.store.FindOne(ctx, userID, method)
	if err != nil {
		return err
	}

	if RequiresMFA(role) && actingAdminID == "" {
		s.audit.Failure(ctx, audit.CategoryDisablement, "mfa.disable",
			audit.WithUser(userID, email),
			audit.WithMethod(string(method)),
			audit.WithError(ErrPermissionDenied),
			audit.WithMetadata("role", string(role)),
		)
		return ErrPermissionDenied
	}

	now := s.now()
	setting.Status = StatusDisabled
	setting.UpdatedAt = now
	if err := s.store.Upsert(ctx, setting); err != nil {
		return err
	}

	// Backup codes cannot outlive the last enabled factor.
	if err := s.disableOrphanedBackupCodes(ctx, userID); err != nil {
		return err
	}

	s.audit.Success(ctx, audit.CategoryDisablement, "mfa.disable",
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithRisk(audit.RiskHigh),
		audit.WithMetadata("by_admin", actingAdminID != ""),
		audit.WithMetadata("acting_admin_id", actingAdminID),
	)

	return nil
}

// Status reports the user's MFA posture: whether any factor is enabled,
// which ones, and how many backup codes remain.
func (s *Service) Status(ctx context.Context, userID string) (*StatusReport, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	settings, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{}
	for _, setting := range settings {
		if setting.Status != StatusEnabled {
			continue
		}
		if setting.Method == MethodBackupCode {
			if factor, ok := setting.Factor.(BackupCodesFactor); ok {
				report.BackupCodesRemaining = len(factor.Codes)
			}
			continue
		}
		report.Enabled = true
		report.Methods = append(report.Methods, setting.Method)
	}
	return report, nil
}

// checkCode dispatches to the code-check strategy for the setting's method.
// It returns (false, nil) for a wrong code; errors are reserved for true
// failures such as a vault integrity violation, which must abort the
// operation instead of advancing the counter.
func (s *Service) checkCode(ctx context.Context, setting *Setting, code string) (bool, error) {
	switch factor := setting.Factor.(type) {
	case TOTPFactor:
		secret, err := s.vault.Decrypt(factor.Secret)
		if err != nil {
			return false, err
		}
		ok, err := otp.ValidateTOTPAt(secret, code, s.now())
		if errors.Is(err, otp.ErrInvalidCodeFormat) {
			// Malformed input can never match; treat as a wrong code.
			return false, nil
		}
		return ok, err
	case SMSFactor, EmailFactor:
		return s.checkChallengeCode(ctx, setting.UserID, setting.Method, code)
	case BackupCodesFactor:
		return s.consumeBackupCode(ctx, setting, factor, code)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedMethod, setting.Method)
	}
}

// checkChallengeCode compares the submitted code with the pending challenge.
// An absent challenge (never sent, consumed, or expired by the store's TTL)
// verifies as false. The challenge is consumed on success only.
func (s *Service) checkChallengeCode(ctx context.Context, userID string, method Method, code string) (bool, error) {
	if s.challenges == nil {
		return false, fmt.Errorf("%w: challenge store is required for %s", ErrNotConfigured, method)
	}

	expected, err := s.challenges.Get(ctx, userID, method)
	if errors.Is(err, ErrChallengeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !otp.Equal(expected, code) {
		return false, nil
	}
	if err := s.challenges.Delete(ctx, userID, method); err != nil {
		return false, err
	}
	return true, nil
}

// consumeBackupCode matches the code against the remaining set and removes
// it on success: each backup code is usable exactly once.
func (s *Service) consumeBackupCode(ctx context.Context, setting *Setting, factor BackupCodesFactor, code string) (bool, error) {
	for i, ciphertext := range factor.Codes {
		plaintext, err := s.vault.Decrypt(ciphertext)
		if err != nil {
			return false, err
		}
		if !otp.Equal(plaintext, code) {
			continue
		}

		setting.Factor = BackupCodesFactor{
			Codes: append(factor.Codes[:i:i], factor.Codes[i+1:]...),
		}
		setting.UpdatedAt = s.now()
		if err := s.store.Upsert(ctx, setting); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// dispatchChallenge generates a fresh code, stores it under the challenge
// TTL and hands it to the delivery collaborator.
func (s *Service) dispatchChallenge(ctx context.Context, userID string, method Method, destination string) error {
	code, err := otp.GenerateChallengeCode()
	if err != nil {
		return err
	}
	if err := s.challenges.Save(ctx, userID, method, code, s.challengeTTL); err != nil {
		return err
	}

	if method == MethodEmail {
		return s.delivery.SendEmail(ctx, destination, code)
	}
	return s.delivery.SendSMS(ctx, destination, code)
}

// challengeDestination resolves the enrolled delivery destination for a
// challenge-code method.
func (s *Service) challengeDestination(setting *Setting) (string, error) {
	switch factor := setting.Factor.(type) {
	case SMSFactor:
		return s.vault.Decrypt(factor.Phone)
	case EmailFactor:
		return factor.Address, nil
	default:
		return "", fmt.Errorf("%w: no challenge destination for %q", ErrUnsupportedMethod, setting.Method)
	}
}

// disableOrphanedBackupCodes disables the BACKUP_CODE row once no other
// enabled method remains.
func (s *Service) disableOrphanedBackupCodes(ctx context.Context, userID string) error {
	settings, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	var backup *Setting
	for _, setting := range settings {
		if setting.Method == MethodBackupCode {
			backup = setting
			continue
		}
		if setting.Status == StatusEnabled {
			return nil
		}
	}
	if backup == nil || backup.Status != StatusEnabled {
		return nil
	}

	backup.Status = StatusDisabled
	backup.UpdatedAt = s.now()
	return s.store.Upsert(ctx, backup)
}

// recordFailure applies the shared lockout policy through the store's atomic
// counter update and audits the attempt. Both managers funnel through here so
// setup-time and login-time lockout behavior can never diverge.
func (s *Service) recordFailure(ctx context.Context, category audit.Category, action, userID, email string, method Method, now time.Time) {
	opts := []audit.EventOption{
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
	}

	updated, err := s.store.RecordFailure(ctx, userID, method, s.policy.MaxAttempts, s.policy.LockExpiry(now))
	if err != nil {
		opts = append(opts, audit.WithError(err))
	} else {
		opts = append(opts,
			audit.WithMetadata("failed_attempts", updated.FailedAttempts),
			audit.WithMetadata("locked", s.policy.Locked(updated.LockedUntil, now)),
		)
	}

	s.audit.Failure(ctx, category, action, opts...)
}

// auditLockout records a rejected attempt during an active lockout window.
func (s *Service) auditLockout(ctx context.Context, category audit.Category, action, userID, email string, method Method) {
	s.audit.Failure(ctx, category, action,
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithError(ErrLocked),
		audit.WithMetadata("locked", true),
	)
}

// auditIntegrity records a decryption/authentication failure as a security
// incident. The verbatim error is kept out of user responses; it lands in
// the audit trail and operational logs only.
func (s *Service) auditIntegrity(ctx context.Context, action, userID, email string, method Method, err error) {
	if !errors.Is(err, vault.ErrIntegrity) {
		return
	}
	s.audit.Failure(ctx, audit.CategoryFailure, action,
		audit.WithUser(userID, email),
		audit.WithMethod(string(method)),
		audit.WithRisk(audit.RiskCritical),
		audit.WithError(vault.ErrIntegrity),
	)
}
