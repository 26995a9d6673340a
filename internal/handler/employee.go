package handler

import (
	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/deppfellow/employee-registry/internal/server"
	"github.com/deppfellow/employee-registry/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	ExportFilename    = "employees_registry.csv"
	ExportContentType = "text/csv"
)

// EmployeeHandler maps the /api/employees endpoints onto EmployeeService.
type EmployeeHandler struct {
	Handler
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(s *server.Server, employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		Handler:         NewHandler(s),
		employeeService: employeeService,
	}
}

func (h *EmployeeHandler) ListEmployees(c echo.Context, _ *employee.ListEmployeesRequest) ([]employee.Employee, error) {
	return h.employeeService.List(c.Request().Context())
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context, req *employee.CreateEmployeeRequest) (*employee.Employee, error) {
	return h.employeeService.Create(c.Request().Context(), req.Profile)
}

func (h *EmployeeHandler) GetEmployee(c echo.Context, req *employee.GetEmployeeRequest) (*employee.Employee, error) {
	return h.employeeService.GetByID(c.Request().Context(), req.ID)
}

func (h *EmployeeHandler) UpdateEmployee(c echo.Context, req *employee.UpdateEmployeeRequest) (*employee.Employee, error) {
	return h.employeeService.Update(c.Request().Context(), req.ID, req.Profile)
}

func (h *EmployeeHandler) DeleteEmployee(c echo.Context, req *employee.DeleteEmployeeRequest) (*employee.DeleteEmployeeResponse, error) {
	if err := h.employeeService.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, err
	}
	return &employee.DeleteEmployeeResponse{Deleted: true}, nil
}

// ExportEmployees loads the registry before any header is written, so a
// store failure still produces a regular error response.
func (h *EmployeeHandler) ExportEmployees(c echo.Context, _ *employee.ExportEmployeesRequest) (StreamFunc, error) {
	write, err := h.employeeService.Export(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return StreamFunc(write), nil
}

func (h *EmployeeHandler) EmployeeStats(c echo.Context, _ *employee.EmployeeStatsRequest) (*employee.Stats, error) {
	return h.employeeService.Stats(c.Request().Context())
}
