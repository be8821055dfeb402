package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrReadOnly     = errors.New("read-only resource")
)

type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string { return e.msg }
func (e *detailError) Unwrap() error { return e.kind }

// Detail returns an error whose message is shown to API clients as is,
// while errors.Is still matches the given kind.
func Detail(kind error, msg string) error {
	return &detailError{kind: kind, msg: msg}
}
