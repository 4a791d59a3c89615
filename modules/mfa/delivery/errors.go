package delivery

import "errors"

var (
	ErrInvalidConfig    = errors.New("delivery.errors.invalid_config")
	ErrFailedToSend     = errors.New("delivery.errors.failed_to_send")
	ErrNoSMSGateway     = errors.New("delivery.errors.no_sms_gateway")
	ErrInvalidRecipient = errors.New("delivery.errors.invalid_recipient")
)
