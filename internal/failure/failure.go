package failure

import (
	"errors"
	"net/http"
)

// Failure is an error carrying the HTTP status code it should be reported with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error returns the message.
func (e *Failure) Error() string {
	return e.Message
}

// Validation returns a Failure for input that was rejected before touching any data.
func Validation(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

// Conflict returns a Failure for a write that collides with existing data.
func Conflict(msg string) error {
	return &Failure{Code: http.StatusConflict, Message: msg}
}

// NotFound returns a Failure for a missing entity.
func NotFound(msg string) error {
	return &Failure{Code: http.StatusNotFound, Message: msg}
}

// GetCode returns the HTTP status code of err, 500 for errors that are not a Failure.
func GetCode(err error) int {
	var f *Failure
	if errors.As(err, &f) {
		return f.Code
	}
	return http.StatusInternalServerError
}

func IsValidation(err error) bool { return err != nil && GetCode(err) == http.StatusBadRequest }
func IsConflict(err error) bool   { return err != nil && GetCode(err) == http.StatusConflict }
func IsNotFound(err error) bool   { return err != nil && GetCode(err) == http.StatusNotFound }
