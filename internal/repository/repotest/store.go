// Package repotest provides an in-memory employee store that reproduces the
// Postgres behaviour the service layer relies on: unique and not-null
// violations come back as *pgconn.PgError and missing ids as pgx.ErrNoRows.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Store struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee

	// Err, when set, is returned by every call.
	Err error
}

func NewStore() *Store {
	return &Store{employees: map[string]employee.Employee{}}
}

func (s *Store) List(ctx context.Context) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, clone(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})

	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return nil, s.Err
	}

	e, ok := s.employees[id]
	if !ok {
		return nil, fmt.Errorf("row.Scan: %w", pgx.ErrNoRows)
	}

	out := clone(e)
	return &out, nil
}

func (s *Store) Create(ctx context.Context, e employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if err := s.checkConstraints(e.ID, e.Profile); err != nil {
		return err
	}

	s.employees[e.ID] = clone(e)
	return nil
}

func (s *Store) Update(ctx context.Context, id string, p employee.Profile) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	existing, ok := s.employees[id]
	if !ok {
		return nil, fmt.Errorf("tx.QueryRow update employee: %w", pgx.ErrNoRows)
	}
	if err := s.checkConstraints(id, p); err != nil {
		return nil, err
	}

	updated := clone(employee.Employee{ID: id, Profile: p, SubmittedAt: existing.SubmittedAt})
	s.employees[id] = updated

	out := clone(updated)
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.employees[id]; !ok {
		return fmt.Errorf("delete employee %s: %w", id, pgx.ErrNoRows)
	}

	delete(s.employees, id)
	return nil
}

// Len reports how many employees are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees)
}

func (s *Store) checkConstraints(id string, p employee.Profile) error {
	switch {
	case p.FullName == "":
		return notNullViolation("full_name")
	case p.Email == "":
		return notNullViolation("email")
	}

	for otherID, other := range s.employees {
		if otherID != id && other.Email == p.Email {
			return &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23505",
				Message:        `duplicate key value violates unique constraint "employees_email_key"`,
				TableName:      "employees",
				ConstraintName: "employees_email_key",
			}
		}
	}

	return nil
}

func notNullViolation(column string) error {
	return &pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23502",
		Message:    fmt.Sprintf(`null value in column "%s" of relation "employees" violates not-null constraint`, column),
		TableName:  "employees",
		ColumnName: column,
	}
}

func clone(e employee.Employee) employee.Employee {
	e.Skills = append([]string{}, e.Skills...)
	if e.Dob != nil {
		d := *e.Dob
		e.Dob = &d
	}
	if e.JoiningDate != nil {
		d := *e.JoiningDate
		e.JoiningDate = &d
	}
	e.Normalize()
	return e
}
