package delivery

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/mrz1836/postmark"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SMSGateway abstracts the SMS provider. Implementations wrap whatever
// carrier API the deployment uses.
type SMSGateway interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// Sender delivers challenge codes over Postmark email and an SMS gateway.
// It implements the mfa.Delivery interface.
type Sender struct {
	client *postmark.Client
	sms    SMSGateway
	config Config
}

// New creates a Postmark-backed Sender. Both Postmark tokens are required
// here so a misconfigured deployment fails at startup, not on the first
// challenge. The SMS gateway may be nil when the SMS method is not offered;
// SendSMS then returns ErrNoSMSGateway.
func New(cfg Config, sms SMSGateway) (*Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &Sender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		sms:    sms,
		config: cfg,
	}, nil
}

// SendSMS forwards the code to the configured gateway as a short message.
func (s *Sender) SendSMS(ctx context.Context, phoneNumber, code string) error {
	if s.sms == nil {
		return ErrNoSMSGateway
	}
	message := fmt.Sprintf("%s verification code: %s", s.config.ProductName, code)
	if err := s.sms.Send(ctx, phoneNumber, message); err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	return nil
}

// SendEmail sends the code through Postmark's transactional API. Link
// tracking stays off; a verification email carries no links worth tracking.
func (s *Sender) SendEmail(ctx context.Context, address, code string) error {
	if !emailRegex.MatchString(address) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, address)
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.config.SenderEmail,
		To:       address,
		Subject:  fmt.Sprintf("%s verification code", s.config.ProductName),
		Tag:      "mfa-challenge",
		TextBody: fmt.Sprintf("Your %s verification code is %s. It expires in a few minutes.", s.config.ProductName, code),
	})
	if err != nil {
		return errors.Join(ErrFailedToSend, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSend,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
