package errors

import (
	"errors"
	"net/http"
)

// Input validation errors. Messages are shown to the user verbatim.
var (
	ErrTitleRequired    = errors.New("Title is required.")
	ErrAssigneeNotFound = errors.New("Assigned user does not exist.")
	ErrInvalidDueDate   = errors.New("Due date must be a valid date (YYYY-MM-DD).")
	ErrDueDateNotFuture = errors.New("Due date must be in the future!")
	ErrStatusRequired   = errors.New("Status is required.")
	ErrUsernameRequired = errors.New("Username is required.")
	ErrInvalidRole      = errors.New("Role must be either admin or user.")
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid username or password.")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("Username already exists.")
	// ErrTaskNotFound is returned when a task id does not exist.
	ErrTaskNotFound = errors.New("Task not found.")
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("User not found.")
)

var validationErrors = []error{
	ErrTitleRequired,
	ErrAssigneeNotFound,
	ErrInvalidDueDate,
	ErrDueDateNotFuture,
	ErrStatusRequired,
	ErrUsernameRequired,
	ErrInvalidRole,
}

// AuthorizationError is a policy denial. It carries the message shown to the
// user and where the client should be sent next.
type AuthorizationError struct {
	Message       string
	Redirect      string
	Authenticated bool
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Redirect   string
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
		Error:    e.Message,
		Code:     e.Code,
		Redirect: e.Redirect,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised is
// treated as a store failure and hidden behind a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	var authErr *AuthorizationError
	if errors.As(err, &authErr) {
		httpErr := NewHTTPError(http.StatusForbidden, authErr.Message, "FORBIDDEN")
		if !authErr.Authenticated {
			httpErr = NewHTTPError(http.StatusUnauthorized, authErr.Message, "UNAUTHENTICATED")
		}
		httpErr.Redirect = authErr.Redirect
		return httpErr
	}

	switch {
	case IsValidation(err):
		return NewHTTPError(http.StatusBadRequest, validationMessage(err), "VALIDATION_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateUsername):
		return NewHTTPError(http.StatusConflict, ErrDuplicateUsername.Error(), "DUPLICATE_USERNAME")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTaskNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Something went wrong, please try again.", "INTERNAL_ERROR")
	}
}

// validationMessage strips any wrapping context so only the user-facing
// sentence is returned.
func validationMessage(err error) string {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
