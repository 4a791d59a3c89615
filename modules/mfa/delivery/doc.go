// Package delivery sends MFA challenge codes out of band. The production
// Sender pairs Postmark transactional email with a pluggable SMS gateway;
// DevSender logs codes locally so the full flow works without provider
// credentials.
package delivery
