package domain

import (
	"errors"
	"fmt"
)

// Error kinds for pipeline failures. None of them is recovered locally:
// a step that hits one terminates with a non-zero exit and the scheduler
// surfaces the failed run.
var (
	ErrNetwork           = errors.New("network error")
	ErrAuth              = errors.New("authentication error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrStore             = errors.New("store error")
	ErrMail              = errors.New("mail error")
)

func NetworkError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, cause)
}

func AuthError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrAuth, cause)
}

func MalformedResponseError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrMalformedResponse, cause)
}

func StoreError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, cause)
}

func MailError(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrMail, cause)
}
