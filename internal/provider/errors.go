package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks an expected miss: the provider has nothing for
	// this title. Match it with errors.Is.
	ErrNotFound = errors.New("not found")

	ErrDuplicateID   = errors.New("duplicate provider id")
	ErrDuplicateRank = errors.New("duplicate provider rank")
)

// NotFoundError carries the reason a provider came up empty.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason == "" {
		return ErrNotFound.Error()
	}
	return e.Reason
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a not-found error with a reason.
func NotFound(format string, args ...any) error {
	return &NotFoundError{Reason: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Reason returns the not-found reason for err, or its message.
func Reason(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return err.Error()
}
