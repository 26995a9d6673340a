// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package,
// calls the service layer and writes the result back to the client.
package handler

import (
	"github.com/deppfellow/employee-registry/internal/server"
	"github.com/deppfellow/employee-registry/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Employee *EmployeeHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Employee: NewEmployeeHandler(s, services.Employee),
	}
}
