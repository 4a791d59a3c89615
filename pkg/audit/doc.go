// Package audit shapes and forwards the security events the MFA subsystem
// must record: setup initiated, setup verified, verification success and
// failure, challenge delivery, lockouts and disablement.
//
// The append-only sink itself is an external collaborator behind the Storage
// interface. Emission is fire-and-forget: sink failures go to operational
// logging and never abort the primary operation.
//
// Events carry a category, outcome, risk level, acting user id/email and
// method-specific metadata. Metadata must only ever contain masked
// destinations, never plaintext secrets or codes.
package audit
