// Package vault encrypts the long-lived secrets the MFA subsystem persists:
// TOTP seeds, enrolled phone numbers and backup-recovery codes.
//
// Encryption is AES-256-GCM with a fresh random nonce per call. The working
// key is derived from a single process-wide master key (MFA_ENCRYPTION_KEY,
// base64, 32 bytes) via HKDF-SHA256 with a versioned domain-separation label.
// Ciphertexts are base64 strings carrying a one-byte key id, the nonce and
// the sealed payload, so Decrypt needs no out-of-band state.
//
// Decrypt returns ErrIntegrity when the authentication tag does not verify.
// That is a tamper or wrong-key signal, not a user error, and must abort the
// calling operation.
package vault
