package model

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable covers missing files, failed syscalls and
	// subprocesses that could not run.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrToolMissing is an ErrSourceUnavailable for an external tool that is
	// not installed.
	ErrToolMissing = fmt.Errorf("%w: tool not found", ErrSourceUnavailable)
	// ErrParse is returned for malformed or short input.
	ErrParse = errors.New("parse error")
	// ErrDegenerate is returned when a value would need a division by zero.
	ErrDegenerate = errors.New("degenerate reading")
	// ErrNotReady marks a rate metric that has only one data point so far.
	ErrNotReady = errors.New("not enough samples")
)

// Unavailablef wraps cause as ErrSourceUnavailable.
func Unavailablef(cause error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, fmt.Sprintf(format, args...), cause)
}

// Parsef builds an ErrParse with context.
func Parsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// Degenerate builds an ErrDegenerate with context.
func Degenerate(msg string) error {
	return fmt.Errorf("%w: %s", ErrDegenerate, msg)
}

// StatusFor maps a pipeline error onto a slot status. A nil error is Ready.
func StatusFor(err error) Status {
	switch {
	case err == nil:
		return Status{State: Ready}
	case errors.Is(err, ErrNotReady):
		return Status{State: Pending, Reason: err.Error(), Err: err}
	default:
		return Status{State: Unavailable, Reason: err.Error(), Err: err}
	}
}
