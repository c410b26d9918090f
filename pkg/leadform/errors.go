package leadform

import (
	"errors"
	"fmt"
)

// ErrNotOpen is returned by Submit when the form has not been opened.
var ErrNotOpen = errors.New("lead form is not open")

// ErrorKind classifies why a submission did not go through.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindInvalidName      ErrorKind = "invalid_name"
	KindInvalidPhone     ErrorKind = "invalid_phone"
	KindSubmissionFailed ErrorKind = "submission_failed"
)

// Error is a recoverable lead form error. Message is what the visitor sees.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("lead form: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("lead form: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is a lead form error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
