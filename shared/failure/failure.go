package failure

import (
	"errors"
	"net/http"

	"hotel/shared/constant"

	"github.com/lib/pq"
)

// Failure carries an HTTP status code next to a client facing message.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest wraps err as a 400 failure. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusBadRequest, Message: err.Error()}
}

// BadRequestFromString is the validation failure used for malformed input,
// inverted date ranges and illegal status transitions.
func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) error {
	return &Failure{Code: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

// Conflict is returned when a write would break a uniqueness rule, such as a
// second active booking on one room or a duplicate room number.
func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// InternalError wraps err as a 500 failure. A nil err stays nil.
func InternalError(err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: http.StatusInternalServerError, Message: err.Error()}
}

// GetCode returns the status code carried by err, 500 for anything else.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// Is reports whether err carries the given status code.
func Is(err error, code int) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Code == code
}

// IsUniqueViolation reports whether err came from a postgres unique index.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}

// FromUniqueViolation turns a unique index violation into a Conflict with msg,
// and returns every other error untouched.
func FromUniqueViolation(err error, msg string) error {
	if IsUniqueViolation(err) {
		return Conflict(msg)
	}

	return err
}
