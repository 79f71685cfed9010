package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrInvalidToken      = errors.New("invalid or expired refresh token")
	ErrInitDataInvalid   = errors.New("invalid telegram init data")
	ErrInitDataExpired   = errors.New("telegram init data expired")
	ErrAuthNotConfigured = errors.New("telegram bot token not configured")
)

// Clock returns the current time; services take one so tests can pin "today".
type Clock func() time.Time

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func insufficient(reason string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, reason)
}
