package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is malformed or missing required fields.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput is returned when a field holds a value outside its allowed range or set.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserAlreadyExists is returned when an email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists, please try logging in")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated is returned when a request carries no valid session token.
	ErrUnauthenticated = errors.New("not authorized to access this route")
	// ErrEmployeeNotFound is returned when an employee does not exist or belongs to another user.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeConflict is returned when an employee email or code is already taken.
	ErrEmployeeConflict = errors.New("employee with this email or employee ID already exists")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Validation errors keep their wrapped detail in the message; internal failures never do.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrEmployeeConflict):
		return NewHTTPError(http.StatusBadRequest, ErrEmployeeConflict.Error(), "EMPLOYEE_CONFLICT")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrEmployeeNotFound):
		return NewHTTPError(http.StatusNotFound, ErrEmployeeNotFound.Error(), "EMPLOYEE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
