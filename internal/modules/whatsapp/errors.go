package whatsapp

import "errors"

var (
	ErrInternal             = errors.New("internal server error")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrNotRegistered        = errors.New("no phone number registered")
	ErrNotVerified          = errors.New("phone number is not verified")
	ErrGatewayNotConfigured = errors.New("whatsapp service is not configured")
	ErrGatewaySendFailed    = errors.New("failed to send whatsapp message")
)
