package mfa_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/mfakit/modules/mfa"
	"github.com/dmitrymomot/mfakit/pkg/audit"
	"github.com/dmitrymomot/mfakit/pkg/devicetrust"
	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditSink captures emitted events for assertions.
type auditSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *auditSink) Store(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *auditSink) last() audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return audit.Event{}
	}
	return s.events[len(s.events)-1]
}

// fakeChallenges is an in-memory ChallengeStore; TTL expiry is exercised by
// deleting entries explicitly.
type fakeChallenges struct {
	mu    sync.Mutex
	codes map[string]string
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{codes: make(map[string]string)}
}

func (f *fakeChallenges) Save(_ context.Context, userID string, method mfa.Method, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[userID+"/"+string(method)] = code
	return nil
}

func (f *fakeChallenges) Get(_ context.Context, userID string, method mfa.Method) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[userID+"/"+string(method)]
	if !ok {
		return "", mfa.ErrChallengeNotFound
	}
	return code, nil
}

func (f *fakeChallenges) Delete(_ context.Context, userID string, method mfa.Method) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.codes, userID+"/"+string(method))
	return nil
}

// fakeDelivery records what would have gone out of band.
type fakeDelivery struct {
	mu         sync.Mutex
	smsTo      []string
	emailTo    []string
	lastCode   string
	lastTarget string
}

func (f *fakeDelivery) SendSMS(_ context.Context, phoneNumber, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.smsTo = append(f.smsTo, phoneNumber)
	f.lastCode = code
	f.lastTarget = phoneNumber
	return nil
}

func (f *fakeDelivery) SendEmail(_ context.Context, address, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emailTo = append(f.emailTo, address)
	f.lastCode = code
	f.lastTarget = address
	return nil
}

type testEnv struct {
	service    *mfa.Service
	store      *mfa.MemoryStore
	sink       *auditSink
	challenges *fakeChallenges
	delivery   *fakeDelivery
	now        *time.Time
}

func newTestEnv(t *testing.T, opts ...mfa.Option) *testEnv {
	t.Helper()

	key, err := vault.GenerateEncodedKey()
	require.NoError(t, err)
	v, err := vault.New(vault.Config{EncryptionKey: key})
	require.NoError(t, err)

	env := &testEnv{
		store:      mfa.NewMemoryStore(),
		sink:       &auditSink{},
		challenges: newFakeChallenges(),
		delivery:   &fakeDelivery{},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.now = &now

	base := []mfa.Option{
		mfa.WithChallengeStore(env.challenges),
		mfa.WithDelivery(env.delivery),
		mfa.WithClock(func() time.Time { return *env.now }),
	}
	env.service = mfa.New(env.store, v, audit.NewEmitter(env.sink), append(base, opts...)...)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	*e.now = e.now.Add(d)
}

func enrollTOTP(t *testing.T, env *testEnv, userID, email string) string {
	t.Helper()
	ctx := context.Background()

	setup, err := env.service.SetupTOTP(ctx, userID, email)
	require.NoError(t, err)

	code, err := otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)

	result, err := env.service.VerifySetup(ctx, userID, email, mfa.MethodTOTP, code)
	require.NoError(t, err)
	require.True(t, result.Verified)
	return setup.Secret
}

func TestSetupTOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("returns provisioning material once", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		setup, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
		require.NoError(t, err)

		assert.NotEmpty(t, setup.Secret)
		assert.Contains(t, setup.URI, "otpauth://totp/")
		assert.Contains(t, setup.URI, "u1@x.com")
		assert.Contains(t, setup.URI, "digits=6")
		assert.Contains(t, setup.URI, "period=30")
		assert.Contains(t, setup.QRCode, "data:image/png;base64,")
		assert.Len(t, setup.BackupCodes, 10)
		for _, code := range setup.BackupCodes {
			assert.Regexp(t, `^[A-Z0-9]{8}$`, code)
		}

		// Setup alone never enables the factor.
		status, err := env.service.Status(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, status.Enabled)
		assert.Empty(t, status.Methods)
	})

	t.Run("replaces a prior pending attempt", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		first, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
		require.NoError(t, err)
		second, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
		require.NoError(t, err)
		assert.NotEqual(t, first.Secret, second.Secret)

		// The superseded secret no longer verifies.
		staleCode, err := otp.GenerateTOTPAt(first.Secret, *env.now)
		require.NoError(t, err)
		result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, staleCode)
		require.NoError(t, err)
		assert.False(t, result.Verified)
	})

	t.Run("rejects when already enabled", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		enrollTOTP(t, env, "u1", "u1@x.com")

		_, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
		assert.ErrorIs(t, err, mfa.ErrAlreadyEnabled)
	})

	t.Run("rejects missing input", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, err := env.service.SetupTOTP(ctx, "", "u1@x.com")
		assert.ErrorIs(t, err, mfa.ErrInvalidInput)
	})
}

func TestVerifySetup_EndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	setup, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
	require.NoError(t, err)

	code, err := otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)

	result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.ElementsMatch(t, setup.BackupCodes, result.BackupCodes)

	status, err := env.service.Status(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.Equal(t, []mfa.Method{mfa.MethodTOTP}, status.Methods)
	assert.Equal(t, 10, status.BackupCodesRemaining)
}

func TestVerifySetup_NoPending(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	_, err := env.service.VerifySetup(context.Background(), "ghost", "g@x.com", mfa.MethodTOTP, "123456")
	assert.ErrorIs(t, err, mfa.ErrNotFound)
}

func TestVerifySetup_WrongCodeCountsFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	setup, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
	require.NoError(t, err)

	for i := 0; i < mfa.DefaultMaxAttempts; i++ {
		result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, "000000")
		require.NoError(t, err)
		assert.False(t, result.Verified)
	}

	// Locked now: even the objectively correct code is rejected unseen.
	code, err := otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)
	_, err = env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code)
	assert.ErrorIs(t, err, mfa.ErrLocked)

	// Setup is not retryable during the cooldown either.
	_, err = env.service.SetupTOTP(ctx, "u1", "u1@x.com")
	assert.ErrorIs(t, err, mfa.ErrLocked)

	// After the cooldown a correct code completes enrollment.
	env.advance(mfa.DefaultCooldown + time.Second)
	code, err = otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)
	result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code)
	require.NoError(t, err)
	assert.True(t, result.Verified)
}

func TestSetupSMS(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects malformed phone", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		for _, phone := range []string{"", "5551234567", "+0123", "+1 555 123", "not-a-phone"} {
			_, err := env.service.SetupSMS(ctx, "u1", "u1@x.com", phone)
			assert.ErrorIs(t, err, mfa.ErrInvalidPhone, "phone %q", phone)
		}
	})

	t.Run("delivers challenge and enables on verification", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		setup, err := env.service.SetupSMS(ctx, "u1", "u1@x.com", "+15551234567")
		require.NoError(t, err)
		assert.Equal(t, "********4567", setup.MaskedPhone)
		assert.Len(t, setup.BackupCodes, 10)

		// The challenge went to the real number, not the masked one.
		require.Equal(t, []string{"+15551234567"}, env.delivery.smsTo)
		require.Regexp(t, `^\d{6}$`, env.delivery.lastCode)

		result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodSMS, env.delivery.lastCode)
		require.NoError(t, err)
		assert.True(t, result.Verified)

		status, err := env.service.Status(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []mfa.Method{mfa.MethodSMS}, status.Methods)
	})

	t.Run("challenge is single use", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.service.SetupSMS(ctx, "u1", "u1@x.com", "+15551234567")
		require.NoError(t, err)
		code := env.delivery.lastCode

		result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodSMS, code)
		require.NoError(t, err)
		require.True(t, result.Verified)

		// Consumed challenge cannot verify again.
		verify, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodSMS, code, false)
		require.NoError(t, err)
		assert.False(t, verify.Verified)
	})
}

func TestVerifyMFA_TOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	secret := enrollTOTP(t, env, "u1", "u1@x.com")

	t.Run("correct code verifies", func(t *testing.T) {
		code, err := otp.GenerateTOTPAt(secret, *env.now)
		require.NoError(t, err)

		result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code, false)
		require.NoError(t, err)
		assert.True(t, result.Verified)
		assert.Empty(t, result.TrustToken)
	})

	t.Run("wrong code is a result, not an error", func(t *testing.T) {
		result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, "000000", false)
		require.NoError(t, err)
		assert.False(t, result.Verified)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.service.VerifyMFA(ctx, "ghost", "g@x.com", mfa.MethodTOTP, "123456", false)
		assert.ErrorIs(t, err, mfa.ErrNotFound)
	})
}

func TestVerifyMFA_Lockout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	secret := enrollTOTP(t, env, "u1", "u1@x.com")

	for i := 0; i < mfa.DefaultMaxAttempts; i++ {
		result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, "000000", false)
		require.NoError(t, err, "attempt %d", i+1)
		assert.False(t, result.Verified)
	}

	// Sixth attempt is rejected before the code is evaluated.
	code, err := otp.GenerateTOTPAt(secret, *env.now)
	require.NoError(t, err)
	_, err = env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code, false)
	assert.ErrorIs(t, err, mfa.ErrLocked)

	// The lockout rejection itself is audited at high risk.
	last := env.sink.last()
	assert.Equal(t, audit.ResultFailure, last.Result)
	assert.Equal(t, audit.RiskHigh, last.Risk)

	// Cooldown elapses: a correct code succeeds and resets the counter.
	env.advance(mfa.DefaultCooldown + time.Second)
	code, err = otp.GenerateTOTPAt(secret, *env.now)
	require.NoError(t, err)
	result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code, false)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	// Counter is back to zero: a single failure does not re-lock.
	fail, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, "000000", false)
	require.NoError(t, err)
	assert.False(t, fail.Verified)
	code, err = otp.GenerateTOTPAt(secret, *env.now)
	require.NoError(t, err)
	result, err = env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code, false)
	require.NoError(t, err)
	assert.True(t, result.Verified)
}

func TestVerifyMFA_BackupCodesSingleUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	setup, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
	require.NoError(t, err)
	code, err := otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)
	verified, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code)
	require.NoError(t, err)
	require.True(t, verified.Verified)

	first, second := setup.BackupCodes[0], setup.BackupCodes[1]

	result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodBackupCode, first, false)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	// The same code no longer verifies even though it was valid moments ago.
	result, err = env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodBackupCode, first, false)
	require.NoError(t, err)
	assert.False(t, result.Verified)

	// A different, unused code from the same batch still verifies.
	result, err = env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodBackupCode, second, false)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	status, err := env.service.Status(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 8, status.BackupCodesRemaining)
}

func TestVerifyMFA_DeviceTrust(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	issuer, err := devicetrust.New(devicetrust.Config{SigningSecret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	env := newTestEnv(t, mfa.WithDeviceTrust(issuer))
	secret := enrollTOTP(t, env, "u1", "u1@x.com")

	code, err := otp.GenerateTOTPAt(secret, *env.now)
	require.NoError(t, err)
	result, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code, true)
	require.NoError(t, err)
	require.True(t, result.Verified)
	require.NotEmpty(t, result.TrustToken)

	userID, err := issuer.Verify(result.TrustToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestVerifyMFA_IntegrityIncident(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	enrollTOTP(t, env, "u1", "u1@x.com")

	// Corrupt the stored ciphertext behind the service's back.
	setting, err := env.store.FindOne(ctx, "u1", mfa.MethodTOTP)
	require.NoError(t, err)
	garbage := base64.StdEncoding.EncodeToString(append([]byte{0x01}, make([]byte, 44)...))
	setting.Factor = mfa.TOTPFactor{Secret: garbage}
	require.NoError(t, env.store.Upsert(ctx, setting))

	_, err = env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodTOTP, "123456", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, vault.ErrIntegrity)

	// Integrity incidents are audited at critical risk.
	last := env.sink.last()
	assert.Equal(t, audit.RiskCritical, last.Risk)
}

func TestSendChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no-op for TOTP", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		require.NoError(t, env.service.SendChallenge(ctx, "u1", "u1@x.com", mfa.MethodTOTP))
		assert.Empty(t, env.delivery.smsTo)
	})

	t.Run("contract violation for backup codes", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		err := env.service.SendChallenge(ctx, "u1", "u1@x.com", mfa.MethodBackupCode)
		assert.ErrorIs(t, err, mfa.ErrUnsupportedMethod)
	})

	t.Run("fresh code per challenge for enabled SMS", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		_, err := env.service.SetupSMS(ctx, "u1", "u1@x.com", "+15551234567")
		require.NoError(t, err)
		result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodSMS, env.delivery.lastCode)
		require.NoError(t, err)
		require.True(t, result.Verified)

		require.NoError(t, env.service.SendChallenge(ctx, "u1", "u1@x.com", mfa.MethodSMS))
		require.Len(t, env.delivery.smsTo, 2)
		assert.Equal(t, "+15551234567", env.delivery.lastTarget)

		verify, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodSMS, env.delivery.lastCode, false)
		require.NoError(t, err)
		assert.True(t, verify.Verified)
	})

	t.Run("requires an enabled setting", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		err := env.service.SendChallenge(ctx, "ghost", "g@x.com", mfa.MethodSMS)
		assert.ErrorIs(t, err, mfa.ErrNotFound)
	})
}

func TestDisableMFA(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("self-service refused for MFA-required roles", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		enrollTOTP(t, env, "clinician1", "c1@x.com")

		err := env.service.DisableMFA(ctx, "clinician1", "c1@x.com", mfa.RoleTherapist, mfa.MethodTOTP, "")
		assert.ErrorIs(t, err, mfa.ErrPermissionDenied)

		status, err := env.service.Status(ctx, "clinician1")
		require.NoError(t, err)
		assert.True(t, status.Enabled)
	})

	t.Run("admin can disable on someone's behalf", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		enrollTOTP(t, env, "clinician1", "c1@x.com")

		err := env.service.DisableMFA(ctx, "clinician1", "c1@x.com", mfa.RoleTherapist, mfa.MethodTOTP, "admin1")
		require.NoError(t, err)

		status, err := env.service.Status(ctx, "clinician1")
		require.NoError(t, err)
		assert.False(t, status.Enabled)
		// Backup codes do not outlive the last enabled factor.
		assert.Zero(t, status.BackupCodesRemaining)

		last := env.sink.last()
		assert.Equal(t, audit.CategoryDisablement, last.Category)
		assert.Equal(t, audit.RiskHigh, last.Risk)
		assert.Equal(t, true, last.Metadata["by_admin"])
	})

	t.Run("patients may self-disable", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		enrollTOTP(t, env, "p1", "p1@x.com")

		err := env.service.DisableMFA(ctx, "p1", "p1@x.com", mfa.RolePatient, mfa.MethodTOTP, "")
		require.NoError(t, err)

		status, err := env.service.Status(ctx, "p1")
		require.NoError(t, err)
		assert.False(t, status.Enabled)
	})

	t.Run("unknown setting", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		err := env.service.DisableMFA(ctx, "ghost", "g@x.com", mfa.RolePatient, mfa.MethodTOTP, "")
		assert.ErrorIs(t, err, mfa.ErrNotFound)
	})
}

func TestRegenerateBackupCodes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.service.RegenerateBackupCodes(ctx, "u1", "u1@x.com")
	assert.ErrorIs(t, err, mfa.ErrNotFound)

	setup, err := env.service.SetupTOTP(ctx, "u1", "u1@x.com")
	require.NoError(t, err)
	code, err := otp.GenerateTOTPAt(setup.Secret, *env.now)
	require.NoError(t, err)
	result, err := env.service.VerifySetup(ctx, "u1", "u1@x.com", mfa.MethodTOTP, code)
	require.NoError(t, err)
	require.True(t, result.Verified)

	fresh, err := env.service.RegenerateBackupCodes(ctx, "u1", "u1@x.com")
	require.NoError(t, err)
	require.Len(t, fresh, 10)
	assert.NotElementsMatch(t, setup.BackupCodes, fresh)

	// Old batch is gone; a new code verifies.
	old, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodBackupCode, setup.BackupCodes[0], false)
	require.NoError(t, err)
	assert.False(t, old.Verified)

	verify, err := env.service.VerifyMFA(ctx, "u1", "u1@x.com", mfa.MethodBackupCode, fresh[0], false)
	require.NoError(t, err)
	assert.True(t, verify.Verified)
}

func TestMemoryStore_RecordFailureIsAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := mfa.NewMemoryStore()
	require.NoError(t, store.Upsert(ctx, &mfa.Setting{
		ID:     "s1",
		UserID: "u1",
		Method: mfa.MethodTOTP,
		Status: mfa.StatusEnabled,
		Factor: mfa.TOTPFactor{Secret: "irrelevant"},
	}))

	const attempts = 20
	lockAt := time.Now().Add(15 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.RecordFailure(ctx, "u1", mfa.MethodTOTP, 5, lockAt)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	setting, err := store.FindOne(ctx, "u1", mfa.MethodTOTP)
	require.NoError(t, err)
	assert.Equal(t, attempts, setting.FailedAttempts)
	require.NotNil(t, setting.LockedUntil)
	assert.True(t, setting.LockedUntil.Equal(lockAt), fmt.Sprintf("got %v", setting.LockedUntil))
}
