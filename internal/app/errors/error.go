package errors

import (
	stderrors "errors"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Message    string
	// RetryAfter is sent back as the Retry-After header when set.
	RetryAfter int
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewTooManyRequestsError(message string, retryAfterSeconds int) *AppError {
	if retryAfterSeconds < 0 {
		retryAfterSeconds = 0
	}
	return &AppError{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		RetryAfter: retryAfterSeconds,
	}
}

func NewBadGatewayError(originalError error, message string) *AppError {
	logrus.Warnf("[%s] %s", typeName(originalError), originalError)
	return NewAppError(http.StatusBadGateway, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", typeName(originalError), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}

// IsStatus reports whether err is an AppError carrying statusCode.
func IsStatus(err error, statusCode int) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.StatusCode == statusCode
}

func typeName(err error) string {
	if err == nil {
		return "<nil>"
	}
	return reflect.TypeOf(err).String()
}
