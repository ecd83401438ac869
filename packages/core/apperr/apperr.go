package apperr

import (
	"errors"
	"fmt"
)

// Kinds d'erreurs métier. Les handlers les traduisent en statuts HTTP
// via errors.Is, les services ne manipulent jamais de codes HTTP.
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflict           = errors.New("conflict")
)

// Error associe un kind à un message lisible. Error() ne retourne que le
// message, le kind reste accessible via errors.Is/Unwrap.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) error {
	return newError(ErrInvalidArgument, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func PreconditionFailed(format string, args ...interface{}) error {
	return newError(ErrPreconditionFailed, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// IsBusinessError indique si l'erreur correspond à un kind métier connu.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrConflict)
}
