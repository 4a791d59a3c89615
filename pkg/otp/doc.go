// Package otp implements the one-time-code families used by the MFA
// subsystem: RFC 4226/6238 HOTP/TOTP codes derived from a shared secret,
// randomly generated challenge codes for SMS/email delivery, and batches of
// single-use backup-recovery codes.
//
// The package is self-contained: secret generation, otpauth:// provisioning
// URI construction, code generation and windowed validation all live here so
// services do not depend on third-party TOTP libraries.
//
// TOTP validation accepts codes from the previous, current and next 30-second
// window to absorb clock drift. All code comparisons are constant time.
//
// # Usage
//
//	secret, _ := otp.GenerateSecretKey()
//	uri, _ := otp.ProvisioningURI(otp.ProvisioningParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//	// render uri as a QR code, then later:
//	ok, _ := otp.ValidateTOTP(secret, "123456")
//
// Errors are package-level sentinels inspectable with errors.Is.
//
// See RFC 4226 (HOTP) and RFC 6238 (TOTP).
package otp
