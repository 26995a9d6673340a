package router

import (
	"github.com/deppfellow/employee-registry/internal/handler"
	"github.com/deppfellow/employee-registry/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints outside the business API: the
// health check, the docs UI and the assets it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
