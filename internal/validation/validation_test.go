package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/employee-registry/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ID   string `param:"id" json:"-" validate:"required"`
	Name string `json:"name" validate:"max=5"`
}

func (r *sampleRequest) Validate() error {
	return validator.New().Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "skills", Message: "must not repeat"}}
}

func newContext(method, body string, id string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/items/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/items/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestBindAndValidate_Success(t *testing.T) {
	var req sampleRequest
	c := newContext(http.MethodPut, `{"name":"abc"}`, "42")

	require.NoError(t, BindAndValidate(c, &req))
	assert.Equal(t, "42", req.ID)
	assert.Equal(t, "abc", req.Name)
}

func TestBindAndValidate_MalformedBodyIsNotHTTPError(t *testing.T) {
	var req sampleRequest
	c := newContext(http.MethodPut, `{"name":`, "42")

	err := BindAndValidate(c, &req)
	require.Error(t, err)
	assert.False(t, errors.Is(err, &errs.HTTPError{}))
}

func TestBindAndValidate_TagFailure(t *testing.T) {
	var req sampleRequest
	c := newContext(http.MethodPut, `{"name":"too long"}`, "42")

	err := BindAndValidate(c, &req)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "name", Error: "must not exceed 5 characters"}, httpErr.Errors[0])
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newContext(http.MethodGet, "", "42")

	err := BindAndValidate(c, &customRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, []errs.FieldError{{Field: "skills", Error: "must not repeat"}}, httpErr.Errors)
}
