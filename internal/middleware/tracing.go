package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/employee-registry/internal/server"
)

// TracingMiddleware owns the New Relic echo middleware. nrApp is nil when
// New Relic is disabled.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware starts a transaction per request, or passes requests
// through untouched without a New Relic application.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds request attributes to the current transaction and
// notices handler errors. It must run after NewRelicMiddleware.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			for key, value := range tm.requestAttributes(c, err) {
				txn.AddAttribute(key, value)
			}

			return err
		}
	}
}

// requestAttributes describes a finished request. The global error handler
// has not written the response yet when err is set, so the status is the one
// it is going to answer with.
func (tm *TracingMiddleware) requestAttributes(c echo.Context, err error) map[string]interface{} {
	status := c.Response().Status
	if err != nil {
		status = statusFromError(err)
	}

	attrs := map[string]interface{}{
		"service.name":     tm.server.Config.Observability.ServiceName,
		"http.route":       c.Path(),
		"http.real_ip":     c.RealIP(),
		"http.user_agent":  c.Request().UserAgent(),
		"http.status_code": status,
	}

	if requestID := GetRequestID(c); requestID != "" {
		attrs["request.id"] = requestID
	}

	if employeeID := c.Param("id"); employeeID != "" {
		attrs["employee.id"] = employeeID
		attrs["employee.found"] = status != http.StatusNotFound
	}

	return attrs
}
