package errs

import (
	"fmt"
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError. code defaults to
// "BAD_REQUEST" when nil.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError. code defaults to
// "NOT_FOUND" when nil.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewResourceNotFoundError is the NotFound error for id-scoped lookups:
// code "<RESOURCE>_NOT_FOUND", message "<Resource> not found with id: <id>".
func NewResourceNotFoundError(resource, id string) *HTTPError {
	code := MakeUpperCaseWithUnderscores(resource) + "_NOT_FOUND"
	return NewNotFoundError(fmt.Sprintf("%s not found with id: %s", resource, id), true, &code)
}

// NewInternalServerError creates the generic 500. The message is the plain
// status text; the real cause is only logged.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
