// Package devicetrust mints the opaque tokens behind the "remember this
// device" flow: after a successful MFA verification a device may receive a
// signed, time-bounded token and skip MFA until it expires.
//
// Tokens are JWTs signed with HMAC-SHA256 under a server-side secret.
package devicetrust
