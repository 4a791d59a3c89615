package delivery

import (
	"context"
	"log/slog"
)

// DevSender logs challenge codes instead of sending them. For local
// development only; codes end up in plaintext logs.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a sender that writes codes to the given logger.
func NewDevSender(log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

func (d *DevSender) SendSMS(ctx context.Context, phoneNumber, code string) error {
	d.log.InfoContext(ctx, "mfa challenge code (sms)",
		slog.String("phone_number", phoneNumber),
		slog.String("code", code),
	)
	return nil
}

func (d *DevSender) SendEmail(ctx context.Context, address, code string) error {
	d.log.InfoContext(ctx, "mfa challenge code (email)",
		slog.String("email", address),
		slog.String("code", code),
	)
	return nil
}
