package employee

import (
	"github.com/go-playground/validator/v10"
)

// ------------------------------------------------------------

type ListEmployeesRequest struct{}

func (r *ListEmployeesRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

// CreateEmployeeRequest carries the payload of POST /employees. Any id or
// submittedAt in the body is ignored.
type CreateEmployeeRequest struct {
	Profile
}

func (r *CreateEmployeeRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type GetEmployeeRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *GetEmployeeRequest) Validate() error {
	return validator.New().Struct(r)
}

// ------------------------------------------------------------

// UpdateEmployeeRequest replaces every mutable field of the employee ID.
type UpdateEmployeeRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
	Profile
}

func (r *UpdateEmployeeRequest) Validate() error {
	return validator.New().Struct(r)
}

// ------------------------------------------------------------

type DeleteEmployeeRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *DeleteEmployeeRequest) Validate() error {
	return validator.New().Struct(r)
}

type DeleteEmployeeResponse struct {
	Deleted bool `json:"deleted"`
}

// ------------------------------------------------------------

type ExportEmployeesRequest struct{}

func (r *ExportEmployeesRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type EmployeeStatsRequest struct{}

func (r *EmployeeStatsRequest) Validate() error {
	return nil
}
