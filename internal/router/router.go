// Package router builds the echo instance: global middleware, the error
// handler and every route group.
package router

import (
	"github.com/deppfellow/employee-registry/internal/handler"
	"github.com/deppfellow/employee-registry/internal/middleware"
	"github.com/deppfellow/employee-registry/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware in this order: request id, New Relic
// transaction, tracing attributes, request logger context, CORS, access log,
// secure headers, panic recovery.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Secure(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerEmployeeRoutes(api, h)

	return router
}
