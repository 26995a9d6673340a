package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/employee-registry/internal/errs"
	"github.com/deppfellow/employee-registry/internal/lib/job"
	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/deppfellow/employee-registry/internal/repository/repotest"
	"github.com/deppfellow/employee-registry/internal/sqlerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	payloads []job.EmployeeRegisteredPayload
	err      error
}

func (n *recordingNotifier) EnqueueEmployeeRegistered(ctx context.Context, p job.EmployeeRegisteredPayload) error {
	n.payloads = append(n.payloads, p)
	return n.err
}

func newTestService(t *testing.T, notifier RegistrationNotifier) (*EmployeeService, *repotest.Store) {
	t.Helper()

	store := repotest.NewStore()
	logger := zerolog.Nop()
	svc := NewEmployeeService(store, notifier, &logger)

	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return svc, store
}

func profile(name, email string) employee.Profile {
	return employee.Profile{FullName: name, Email: email}
}

func requireNotFound(t *testing.T, err error, id string) {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "EMPLOYEE_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Employee not found with id: "+id, httpErr.Message)
}

func TestEmployeeService_CreateThenGet(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p := profile("Jane Doe", "jane@example.com")
	p.Skills = []string{"go", "sql"}
	p.Department = "Engineering"

	created, err := svc.Create(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.SubmittedAt.IsZero())

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestEmployeeService_CreateAssignsDistinctIDs(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, profile("A", "a@example.com"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, profile("B", "b@example.com"))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestEmployeeService_CreateDuplicateEmailFails(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, profile("Jane", "jane@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, profile("Other Jane", "jane@example.com"))
	require.Error(t, err)
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))
	assert.Equal(t, 1, store.Len())
}

func TestEmployeeService_NotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "missing")
	requireNotFound(t, err, "missing")

	_, err = svc.Update(ctx, "missing", profile("X", "x@example.com"))
	requireNotFound(t, err, "missing")

	requireNotFound(t, svc.Delete(ctx, "missing"), "missing")
}

func TestEmployeeService_UpdateIsFullReplace(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p := profile("Jane", "jane@example.com")
	p.Phone = "555-0100"
	p.Skills = []string{"go"}
	created, err := svc.Create(ctx, p)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, profile("Jane Smith", "jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.SubmittedAt, updated.SubmittedAt)
	assert.Equal(t, "Jane Smith", updated.FullName)
	assert.Empty(t, updated.Phone)
	assert.Empty(t, updated.Skills)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
}

func TestEmployeeService_DeleteThenGet(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, profile("Jane", "jane@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	requireNotFound(t, err, created.ID)
}

func TestEmployeeService_ListAfterDelete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	r1, err := svc.Create(ctx, profile("R1", "r1@example.com"))
	require.NoError(t, err)
	r2, err := svc.Create(ctx, profile("R2", "r2@example.com"))
	require.NoError(t, err)
	r3, err := svc.Create(ctx, profile("R3", "r3@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r2.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, r1.ID, list[0].ID)
	assert.Equal(t, r3.ID, list[1].ID)
}

func TestEmployeeService_Export(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	t.Run("empty registry writes only the header", func(t *testing.T) {
		write, err := svc.Export(ctx)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, write(&buf))
		assert.Equal(t, ExportHeader+"\n", buf.String())
	})

	p := profile("Jane Doe", "jane@example.com")
	p.Phone = "555-0100"
	p.Department = "Engineering"
	p.JobTitle = "Developer"
	p.College = "MIT"
	p.Degree = "BSc"
	p.GraduationYear = "2012"
	p.LinkedIn = "linkedin.com/in/jane"
	jane, err := svc.Create(ctx, p)
	require.NoError(t, err)

	_, err = svc.Create(ctx, profile("John", "john@example.com"))
	require.NoError(t, err)

	t.Run("one line per employee", func(t *testing.T) {
		write, err := svc.Export(ctx)
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, write(&buf))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, ExportHeader, lines[0])
		assert.Equal(t,
			"Jane Doe,jane@example.com,555-0100,Engineering,Developer,MIT,BSc,2012,linkedin.com/in/jane,"+
				jane.SubmittedAt.Format(time.RFC3339),
			lines[1])

		for _, line := range lines[1:] {
			assert.Len(t, strings.Split(line, ","), 10)
		}
	})
}

func TestExportLine_DoesNotEscape(t *testing.T) {
	line := ExportLine(employee.Employee{Profile: employee.Profile{FullName: "Doe, Jane", Email: `"q"@example.com`}})

	assert.True(t, strings.HasPrefix(line, `Doe, Jane,"q"@example.com,`))
	assert.True(t, strings.HasSuffix(line, ","))
}

func TestEmployeeService_Stats(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for i, dept := range []string{"Engineering", "Engineering", "Sales"} {
		p := profile("E", string(rune('a'+i))+"@example.com")
		p.Department = dept
		p.Skills = []string{"go"}
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"Engineering": 2, "Sales": 1}, stats.Departments)
	assert.Equal(t, map[string]int{"go": 3}, stats.Skills)
}

func TestEmployeeService_StoreFailurePropagates(t *testing.T) {
	svc, store := newTestService(t, nil)
	store.Err = errors.New("connection refused")

	_, err := svc.List(context.Background())
	assert.EqualError(t, err, "connection refused")

	_, err = svc.Export(context.Background())
	assert.Error(t, err)

	_, err = svc.GetByID(context.Background(), "x")
	assert.EqualError(t, err, "connection refused")
}

func TestEmployeeService_NotifiesOnCreate(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(t, notifier)

	created, err := svc.Create(context.Background(), profile("Jane", "jane@example.com"))
	require.NoError(t, err)

	require.Len(t, notifier.payloads, 1)
	assert.Equal(t, created.ID, notifier.payloads[0].EmployeeID)
	assert.Equal(t, "jane@example.com", notifier.payloads[0].To)
}

func TestEmployeeService_NotifierFailureDoesNotFailCreate(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("redis down")}
	svc, store := newTestService(t, notifier)

	_, err := svc.Create(context.Background(), profile("Jane", "jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestEmployeeService_FailedCreateDoesNotNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(t, notifier)

	_, err := svc.Create(context.Background(), profile("", "jane@example.com"))
	require.Error(t, err)
	assert.Empty(t, notifier.payloads)
}

func TestExportLine_AbsentValuesAndTimestamp(t *testing.T) {
	submittedAt := time.Date(2024, 6, 1, 9, 30, 15, 123456000, time.UTC)

	line := ExportLine(employee.Employee{
		Profile:     employee.Profile{FullName: "Jane", Email: "jane@example.com"},
		SubmittedAt: submittedAt,
	})

	assert.Equal(t, "Jane,jane@example.com,,,,,,,,2024-06-01T09:30:15Z", line)
	assert.NotContains(t, line, "null")
}
