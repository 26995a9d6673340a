package router

import (
	"net/http"

	"github.com/deppfellow/employee-registry/internal/handler"
	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/labstack/echo/v4"
)

func registerEmployeeRoutes(api *echo.Group, h *handler.Handlers) {
	eh := h.Employee
	employees := api.Group("/employees")

	employees.GET("", handler.Handle(eh.Handler, eh.ListEmployees, http.StatusOK, &employee.ListEmployeesRequest{}))
	employees.POST("", handler.Handle(eh.Handler, eh.CreateEmployee, http.StatusOK, &employee.CreateEmployeeRequest{}))

	// Static segments take precedence over :id in echo's router.
	employees.GET("/export", handler.HandleStream(
		eh.Handler,
		eh.ExportEmployees,
		http.StatusOK,
		&employee.ExportEmployeesRequest{},
		handler.ExportFilename,
		handler.ExportContentType,
	))
	employees.GET("/stats", handler.Handle(eh.Handler, eh.EmployeeStats, http.StatusOK, &employee.EmployeeStatsRequest{}))

	employees.GET("/:id", handler.Handle(eh.Handler, eh.GetEmployee, http.StatusOK, &employee.GetEmployeeRequest{}))
	employees.PUT("/:id", handler.Handle(eh.Handler, eh.UpdateEmployee, http.StatusOK, &employee.UpdateEmployeeRequest{}))
	employees.DELETE("/:id", handler.Handle(eh.Handler, eh.DeleteEmployee, http.StatusOK, &employee.DeleteEmployeeRequest{}))
}
