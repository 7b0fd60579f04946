package notification

import "errors"

var (
	ErrInternal     = errors.New("internal server error")
	ErrTypeNotFound = errors.New("notification type not found")
)
