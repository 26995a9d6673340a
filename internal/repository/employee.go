package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/employee-registry/internal/model"
	"github.com/deppfellow/employee-registry/internal/model/employee"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const employeeColumns = `
  e.id,
  e.full_name,
  coalesce(e.company_name, ''),
  e.email,
  coalesce(e.phone, ''),
  coalesce(e.parent_phone, ''),
  to_char(e.dob, 'YYYY-MM-DD'),
  coalesce(e.address, ''),
  coalesce(e.district, ''),
  coalesce(e.country, ''),
  coalesce(e.pincode, ''),
  coalesce(e.department, ''),
  coalesce(e.job_title, ''),
  to_char(e.joining_date, 'YYYY-MM-DD'),
  coalesce(array_agg(s.skill order by s.position) filter (where s.skill is not null), '{}'),
  coalesce(e.bio, ''),
  coalesce(e.school, ''),
  coalesce(e.college, ''),
  coalesce(e.degree, ''),
  coalesce(e.major, ''),
  coalesce(e.graduation_year, ''),
  coalesce(e.linkedin, ''),
  coalesce(e.leetcode, ''),
  coalesce(e.hackerrank, ''),
  coalesce(e.resume_name, ''),
  e.submitted_at`

const employeeFrom = `
from employees e
left join employee_skills s on s.employee_id = e.id`

const profileAssignments = `
  full_name       = nullif(@full_name, ''),
  company_name    = nullif(@company_name, ''),
  email           = nullif(@email, ''),
  phone           = nullif(@phone, ''),
  parent_phone    = nullif(@parent_phone, ''),
  dob             = nullif(@dob, '')::date,
  address         = nullif(@address, ''),
  district        = nullif(@district, ''),
  country         = nullif(@country, ''),
  pincode         = nullif(@pincode, ''),
  department      = nullif(@department, ''),
  job_title       = nullif(@job_title, ''),
  joining_date    = nullif(@joining_date, '')::date,
  bio             = nullif(@bio, ''),
  school          = nullif(@school, ''),
  college         = nullif(@college, ''),
  degree          = nullif(@degree, ''),
  major           = nullif(@major, ''),
  graduation_year = nullif(@graduation_year, ''),
  linkedin        = nullif(@linkedin, ''),
  leetcode        = nullif(@leetcode, ''),
  hackerrank      = nullif(@hackerrank, ''),
  resume_name     = nullif(@resume_name, '')`

const insertSkills = `
insert into employee_skills (employee_id, position, skill)
select @employee_id, s.ord, s.skill
from unnest(@skills::text[]) with ordinality as s(skill, ord)`

// EmployeeRepository stores employees and their ordered skills in Postgres.
//
// Empty text fields are written as NULL and read back as "". Missing rows
// surface as pgx.ErrNoRows wrapped with the failing call.
type EmployeeRepository struct {
	pool PgxPool
}

func NewEmployeeRepository(pool PgxPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	query := `select` + employeeColumns + employeeFrom + `
group by e.id
order by e.submitted_at, e.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	query := `select` + employeeColumns + employeeFrom + `
where e.id = @id
group by e.id`

	e, err := scanEmployee(r.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return e, nil
}

// Create inserts e, whose ID and SubmittedAt are already assigned, together
// with its skills in one transaction.
func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
insert into employees (
  id, full_name, company_name, email, phone, parent_phone, dob, address, district, country,
  pincode, department, job_title, joining_date, bio, school, college, degree, major,
  graduation_year, linkedin, leetcode, hackerrank, resume_name, submitted_at
) values (
  @id, nullif(@full_name, ''), nullif(@company_name, ''), nullif(@email, ''), nullif(@phone, ''),
  nullif(@parent_phone, ''), nullif(@dob, '')::date, nullif(@address, ''), nullif(@district, ''),
  nullif(@country, ''), nullif(@pincode, ''), nullif(@department, ''), nullif(@job_title, ''),
  nullif(@joining_date, '')::date, nullif(@bio, ''), nullif(@school, ''), nullif(@college, ''),
  nullif(@degree, ''), nullif(@major, ''), nullif(@graduation_year, ''), nullif(@linkedin, ''),
  nullif(@leetcode, ''), nullif(@hackerrank, ''), nullif(@resume_name, ''), @submitted_at
)`

	args := profileArgs(e.Profile)
	args["id"] = e.ID
	args["submitted_at"] = e.SubmittedAt

	if _, err = tx.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("tx.Exec insert employee: %w", err)
	}

	if err = replaceSkills(ctx, tx, e.ID, e.Skills, false); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of the employee id and replaces its
// skills. submitted_at is never touched.
func (r *EmployeeRepository) Update(ctx context.Context, id string, p employee.Profile) (_ *employee.Employee, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pool.Begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `update employees set` + profileAssignments + `
where id = @id
returning submitted_at`

	args := profileArgs(p)
	args["id"] = id

	out := employee.Employee{ID: id, Profile: p}
	if err = tx.QueryRow(ctx, query, args).Scan(&out.SubmittedAt); err != nil {
		return nil, fmt.Errorf("tx.QueryRow update employee: %w", err)
	}

	if err = replaceSkills(ctx, tx, id, p.Skills, true); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("tx.Commit: %w", err)
	}

	out.SubmittedAt = out.SubmittedAt.UTC()
	out.Normalize()
	return &out, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	query := `delete from employees where id = @id`

	tag, err := r.pool.Exec(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete employee %s: %w", id, pgx.ErrNoRows)
	}

	return nil
}

func replaceSkills(ctx context.Context, tx pgx.Tx, id string, skills []string, existing bool) error {
	if existing {
		if _, err := tx.Exec(ctx, `delete from employee_skills where employee_id = @employee_id`, pgx.NamedArgs{"employee_id": id}); err != nil {
			return fmt.Errorf("tx.Exec delete skills: %w", err)
		}
	}

	if skills == nil {
		skills = []string{}
	}

	args := pgx.NamedArgs{"employee_id": id, "skills": skills}
	if _, err := tx.Exec(ctx, insertSkills, args); err != nil {
		return fmt.Errorf("tx.Exec insert skills: %w", err)
	}

	return nil
}

func profileArgs(p employee.Profile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"full_name":       p.FullName,
		"company_name":    p.CompanyName,
		"email":           p.Email,
		"phone":           p.Phone,
		"parent_phone":    p.ParentPhone,
		"dob":             dateArg(p.Dob),
		"address":         p.Address,
		"district":        p.District,
		"country":         p.Country,
		"pincode":         p.Pincode,
		"department":      p.Department,
		"job_title":       p.JobTitle,
		"joining_date":    dateArg(p.JoiningDate),
		"bio":             p.Bio,
		"school":          p.School,
		"college":         p.College,
		"degree":          p.Degree,
		"major":           p.Major,
		"graduation_year": p.GraduationYear,
		"linkedin":        p.LinkedIn,
		"leetcode":        p.LeetCode,
		"hackerrank":      p.HackerRank,
		"resume_name":     p.ResumeName,
	}
}

func dateArg(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		out              employee.Employee
		dob, joiningDate pgtype.Text
	)

	err := row.Scan(
		&out.ID,
		&out.FullName,
		&out.CompanyName,
		&out.Email,
		&out.Phone,
		&out.ParentPhone,
		&dob,
		&out.Address,
		&out.District,
		&out.Country,
		&out.Pincode,
		&out.Department,
		&out.JobTitle,
		&joiningDate,
		&out.Skills,
		&out.Bio,
		&out.School,
		&out.College,
		&out.Degree,
		&out.Major,
		&out.GraduationYear,
		&out.LinkedIn,
		&out.LeetCode,
		&out.HackerRank,
		&out.ResumeName,
		&out.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	if out.Dob, err = parseDate(dob); err != nil {
		return nil, err
	}
	if out.JoiningDate, err = parseDate(joiningDate); err != nil {
		return nil, err
	}

	out.SubmittedAt = out.SubmittedAt.UTC()
	out.Normalize()
	return &out, nil
}

func parseDate(t pgtype.Text) (*model.Date, error) {
	if !t.Valid || t.String == "" {
		return nil, nil
	}
	d, err := model.ParseDate(t.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
