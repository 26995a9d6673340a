// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/employee-registry/internal/lib/job"
	"github.com/deppfellow/employee-registry/internal/repository"
	"github.com/deppfellow/employee-registry/internal/server"
)

type Services struct {
	Employee *EmployeeService
	Job      *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *job.JobService stored in the interface would not compare equal to nil.
	var notifier RegistrationNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Employee: NewEmployeeService(repos.Employee, notifier, s.Logger),
		Job:      s.Job,
	}, nil
}
