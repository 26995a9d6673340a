package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceNotFoundError(t *testing.T) {
	err := NewResourceNotFoundError("Employee", "abc-123")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", err.Code)
	assert.Equal(t, "Employee not found with id: abc-123", err.Error())
	assert.True(t, err.Override)
}

func TestNewInternalServerError(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.False(t, err.Override)
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "EMPLOYEE_INVALID"
	err := NewBadRequestError("bad", true, &code, []FieldError{{Field: "email", Error: "is required"}}, nil)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, code, err.Code)
	assert.Len(t, err.Errors, 1)

	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("bad", false, nil, nil, nil).Code)
}

func TestHTTPError_ErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("Route not found", false, nil))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
}

func TestHTTPError_WithMessage(t *testing.T) {
	base := NewNotFoundError("first", false, nil)
	copied := base.WithMessage("second")

	assert.Equal(t, "first", base.Message)
	assert.Equal(t, "second", copied.Message)
	assert.Equal(t, base.Code, copied.Code)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores("Not Found"))
}
