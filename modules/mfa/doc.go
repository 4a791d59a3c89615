// Package mfa implements multi-factor authentication for users whose role
// requires elevated assurance: enrollment, login-time verification and
// revocation of TOTP authenticators, SMS/email challenge codes and single-use
// backup-recovery codes.
//
// The Service is request-scoped and stateless between calls. Durable state
// lives behind the Store interface (one row per user and method), pending
// challenge codes behind ChallengeStore (expired by the store's own TTL) and
// out-of-band transport behind Delivery. Every security-relevant operation is
// reported through the audit emitter before the call returns.
//
// Enrollment is a two-step state machine per (user, method):
//
//	absent/DISABLED --SetupTOTP/SetupSMS/SetupEmail--> PENDING_SETUP
//	PENDING_SETUP   --VerifySetup with correct code--> ENABLED
//
// A setting never reaches ENABLED without the caller proving possession of
// the factor. Repeated wrong codes trip a shared lockout policy (5 attempts,
// 15 minutes) that is identical for setup-time and login-time verification.
//
// Wrong codes are expected outcomes returned as Verified=false results;
// errors are reserved for true failures: missing settings, active lockouts,
// permission violations and vault integrity incidents.
package mfa
