package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeEquipmentUnavailable = "EQUIPMENT_UNAVAILABLE"
	CodeStaleSession         = "STALE_SESSION"
	CodeDoubleDecision       = "DOUBLE_DECISION"
	CodePersistence          = "PERSISTENCE_ERROR"
	CodeDeliveryFailure      = "DELIVERY_FAILURE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// InvalidConfiguration is fatal at load time; it carries a 500 status only
// so it has a sane rendering if it ever leaks to a response.
func InvalidConfiguration(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidConfiguration,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func EquipmentUnavailable(name string) *AppError {
	return &AppError{
		Code:       CodeEquipmentUnavailable,
		Message:    fmt.Sprintf("equipment %q is under maintenance and cannot be reserved", name),
		HTTPStatus: http.StatusConflict,
	}
}

// StaleSession maps to 410: the control the caller used refers to a booking
// session that no longer exists.
func StaleSession(userID string) *AppError {
	return &AppError{
		Code:       CodeStaleSession,
		Message:    "no booking session in progress",
		HTTPStatus: http.StatusGone,
		Details: map[string]any{
			"user_id": userID,
		},
	}
}

func DoubleDecision(reservationID, status string) *AppError {
	return &AppError{
		Code:       CodeDoubleDecision,
		Message:    "reservation has already been decided",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"reservation_id": reservationID,
			"status":         status,
		},
	}
}

func Persistence(message string, err error) *AppError {
	return &AppError{
		Code:       CodePersistence,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
