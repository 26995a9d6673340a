package service

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/deppfellow/employee-registry/internal/errs"
	"github.com/deppfellow/employee-registry/internal/lib/job"
	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ExportHeader is the first line of the CSV export.
const ExportHeader = "FullName,Email,Phone,Department,JobTitle,College,Degree,GraduationYear,LinkedIn,SubmittedAt"

// EmployeeStore persists employee records. *repository.EmployeeRepository is
// the production implementation.
type EmployeeStore interface {
	List(ctx context.Context) ([]employee.Employee, error)
	GetByID(ctx context.Context, id string) (*employee.Employee, error)
	Create(ctx context.Context, e employee.Employee) error
	Update(ctx context.Context, id string, p employee.Profile) (*employee.Employee, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationNotifier is told about every newly created employee.
type RegistrationNotifier interface {
	EnqueueEmployeeRegistered(ctx context.Context, p job.EmployeeRegisteredPayload) error
}

type EmployeeService struct {
	store    EmployeeStore
	notifier RegistrationNotifier
	logger   *zerolog.Logger
	now      func() time.Time
}

// NewEmployeeService builds the service. notifier may be nil.
func NewEmployeeService(store EmployeeStore, notifier RegistrationNotifier, logger *zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *EmployeeService) List(ctx context.Context) ([]employee.Employee, error) {
	return s.store.List(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

// Create assigns a fresh id and submission time and stores the profile.
func (s *EmployeeService) Create(ctx context.Context, p employee.Profile) (*employee.Employee, error) {
	p.Normalize()

	e := employee.Employee{
		ID:          uuid.NewString(),
		Profile:     p,
		SubmittedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.store.Create(ctx, e); err != nil {
		return nil, err
	}

	s.notifyRegistered(ctx, e)

	return &e, nil
}

// Update replaces every mutable field of the employee id with p.
func (s *EmployeeService) Update(ctx context.Context, id string, p employee.Profile) (*employee.Employee, error) {
	p.Normalize()

	e, err := s.store.Update(ctx, id, p)
	if err != nil {
		return nil, notFound(err, id)
	}
	return e, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	return notFound(s.store.Delete(ctx, id), id)
}

// Export loads every employee and returns a function writing them as CSV.
// Values are joined with commas as they are, without quoting.
func (s *EmployeeService) Export(ctx context.Context) (func(w io.Writer) error, error) {
	employees, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	return func(w io.Writer) error {
		bw := bufio.NewWriter(w)

		if _, err := bw.WriteString(ExportHeader + "\n"); err != nil {
			return err
		}
		for _, e := range employees {
			if _, err := bw.WriteString(ExportLine(e) + "\n"); err != nil {
				return err
			}
		}

		return bw.Flush()
	}, nil
}

// ExportLine renders one employee in ExportHeader column order. Absent
// values are written as empty fields rather than the literal "null", and
// SubmittedAt is written as RFC 3339 UTC with whole seconds.
func ExportLine(e employee.Employee) string {
	submittedAt := ""
	if !e.SubmittedAt.IsZero() {
		submittedAt = e.SubmittedAt.Format(time.RFC3339)
	}

	return strings.Join([]string{
		e.FullName,
		e.Email,
		e.Phone,
		e.Department,
		e.JobTitle,
		e.College,
		e.Degree,
		e.GraduationYear,
		e.LinkedIn,
		submittedAt,
	}, ",")
}

func (s *EmployeeService) Stats(ctx context.Context) (*employee.Stats, error) {
	employees, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := employee.ComputeStats(employees)
	return &stats, nil
}

func (s *EmployeeService) notifyRegistered(ctx context.Context, e employee.Employee) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.EnqueueEmployeeRegistered(ctx, job.EmployeeRegisteredPayload{
		EmployeeID: e.ID,
		To:         e.Email,
		FullName:   e.FullName,
		Department: e.Department,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("employee_id", e.ID).
			Msg("failed to enqueue registration email")
	}
}

// notFound turns a missing-row error into the EMPLOYEE_NOT_FOUND error.
func notFound(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewResourceNotFoundError("Employee", id)
	}
	return err
}
