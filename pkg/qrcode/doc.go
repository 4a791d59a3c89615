// Package qrcode renders TOTP provisioning URIs (and any other short string)
// as QR code PNG images for display during authenticator enrollment.
//
// PNG returns raw image bytes; DataURI wraps them as a base64 data: URI for
// direct embedding in HTML.
package qrcode
