package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/employee-registry/internal/config"
	"github.com/deppfellow/employee-registry/internal/errs"
	"github.com/deppfellow/employee-registry/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGlobal() *GlobalMiddlewares {
	logger := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{
		Config: &config.Config{
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	})
}

func handleError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, map[string]interface{}, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/api/employees/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	c.Set(LoggerKey, &logger)

	newTestGlobal().GlobalErrorHandler(err, c)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body, logs.String()
}

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "http error is sent as is",
			err:         errs.NewResourceNotFoundError("Employee", "42"),
			wantStatus:  http.StatusNotFound,
			wantCode:    "EMPLOYEE_NOT_FOUND",
			wantMessage: "Employee not found with id: 42",
		},
		{
			name:        "wrapped http error is unwrapped",
			err:         fmt.Errorf("get employee: %w", errs.NewResourceNotFoundError("Employee", "42")),
			wantStatus:  http.StatusNotFound,
			wantCode:    "EMPLOYEE_NOT_FOUND",
			wantMessage: "Employee not found with id: 42",
		},
		{
			name:        "echo route 404",
			err:         echo.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Route not found",
		},
		{
			name:        "echo method not allowed keeps its status",
			err:         echo.ErrMethodNotAllowed,
			wantStatus:  http.StatusMethodNotAllowed,
			wantCode:    "METHOD_NOT_ALLOWED",
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "missing row",
			err:         fmt.Errorf("scan: %w", pgx.ErrNoRows),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Resource not found",
		},
		{
			name:        "unique violation is a generic 500",
			err:         &pgconn.PgError{Code: "23505", TableName: "employees", ConstraintName: "employees_email_key"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
		{
			name:        "plain error is a generic 500",
			err:         errors.New("connection reset by peer"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body, _ := handleError(t, http.MethodGet, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.EqualValues(t, tt.wantStatus, body["status"])
		})
	}
}

func TestGlobalErrorHandler_LogsDatabaseClassification(t *testing.T) {
	err := fmt.Errorf("pool.Exec: %w", &pgconn.PgError{
		Code:           "23505",
		TableName:      "employees",
		ConstraintName: "employees_email_key",
	})

	_, _, logs := handleError(t, http.MethodPost, err)

	assert.Contains(t, logs, `"level":"error"`)
	assert.Contains(t, logs, `"db_sqlstate":"23505"`)
	assert.Contains(t, logs, `"db_constraint":"employees_email_key"`)
	assert.Contains(t, logs, `"db_error_code":"EMPLOYEE_ALREADY_EXISTS"`)
}

func TestGlobalErrorHandler_ClientErrorsLogAsWarn(t *testing.T) {
	_, _, logs := handleError(t, http.MethodGet, errs.NewResourceNotFoundError("Employee", "42"))

	assert.Contains(t, logs, `"level":"warn"`)
	assert.NotContains(t, logs, "db_sqlstate")
}

func TestGlobalErrorHandler_HeadHasNoBody(t *testing.T) {
	rec, body, _ := handleError(t, http.MethodHead, errs.NewResourceNotFoundError("Employee", "42"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, body)
}

func TestGlobalErrorHandler_CommittedResponseIsLeftAlone(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/employees/export", nil), rec)

	c.Response().WriteHeader(http.StatusOK)
	_, _ = c.Response().Write([]byte("FullName,Email\n"))

	newTestGlobal().GlobalErrorHandler(errors.New("stream interrupted"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FullName,Email\n", rec.Body.String())
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFromError(errs.NewResourceNotFoundError("Employee", "1")))
	assert.Equal(t, http.StatusMethodNotAllowed, statusFromError(echo.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusNotFound, statusFromError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("boom")))
}
