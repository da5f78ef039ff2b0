package directory

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
)

// Employee is one directory employee row joined with its department name.
type Employee struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	Position       string
	HireDate       string
	Salary         float64
	DepartmentID   int64
	DepartmentName string
}

// Department is one department row with its employee head count.
type Department struct {
	ID            int64
	Name          string
	Location      string
	Budget        float64
	EmployeeCount int
}

// Project is one project row joined with its department name.
type Project struct {
	ID             int64
	Name           string
	Description    string
	StartDate      string
	EndDate        *string
	Budget         float64
	DepartmentName string
}

// EmployeeFilter narrows employee queries. Zero values mean no filtering.
type EmployeeFilter struct {
	SearchTerm   string
	Position     string
	DepartmentID *int64
}

// Store runs the directory queries against SQLite.
type Store struct {
	sb squirrel.StatementBuilderType
}

// NewStore creates a new Store.
func NewStore(br squirrel.BaseRunner) Store {
	return Store{
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question).RunWith(br),
	}
}

// QueryEmployees returns employees matching the filter. The search term
// matches first or last name, position matches as a substring.
func (s Store) QueryEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	qry := s.sb.
		Select(
			"e.id", "e.first_name", "e.last_name", "e.email", "e.position",
			"e.hire_date", "e.salary", "e.department_id", "d.name AS department_name",
		).
		From("employees e").
		Join("departments d ON e.department_id = d.id").
		OrderBy("e.id")

	if filter.SearchTerm != "" {
		pattern := "%" + filter.SearchTerm + "%"
		qry = qry.Where(squirrel.Or{
			squirrel.Like{"e.first_name": pattern},
			squirrel.Like{"e.last_name": pattern},
		})
	}
	if filter.DepartmentID != nil {
		qry = qry.Where(squirrel.Eq{"e.department_id": *filter.DepartmentID})
	}
	if filter.Position != "" {
		qry = qry.Where(squirrel.Like{"e.position": "%" + filter.Position + "%"})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Position,
			&emp.HireDate, &emp.Salary, &emp.DepartmentID, &emp.DepartmentName,
		); telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return employees, nil
}

// QueryDepartments returns all departments, or just the one with the given
// ID, each with its employee count.
func (s Store) QueryDepartments(ctx context.Context, departmentID *int64) ([]Department, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	qry := s.sb.
		Select(
			"d.id", "d.name", "COALESCE(d.location, '')", "COALESCE(d.budget, 0)",
			"COUNT(e.id) AS employee_count",
		).
		From("departments d").
		LeftJoin("employees e ON d.id = e.department_id").
		GroupBy("d.id").
		OrderBy("d.id")

	if departmentID != nil {
		qry = qry.Where(squirrel.Eq{"d.id": *departmentID})
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var departments []Department
	for rows.Next() {
		var dept Department
		if err := rows.Scan(
			&dept.ID, &dept.Name, &dept.Location, &dept.Budget, &dept.EmployeeCount,
		); telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		departments = append(departments, dept)
	}
	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return departments, nil
}

// QueryProjects returns projects, optionally filtered by department and
// restricted to projects that have not ended yet.
func (s Store) QueryProjects(ctx context.Context, departmentID *int64, activeOnly bool) ([]Project, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	qry := s.sb.
		Select(
			"p.id", "p.name", "COALESCE(p.description, '')", "p.start_date",
			"p.end_date", "COALESCE(p.budget, 0)", "d.name AS department_name",
		).
		From("projects p").
		Join("departments d ON p.department_id = d.id").
		OrderBy("p.id")

	if departmentID != nil {
		qry = qry.Where(squirrel.Eq{"p.department_id": *departmentID})
	}
	if activeOnly {
		qry = qry.Where("(p.end_date >= date('now') OR p.end_date IS NULL)")
	}

	rows, err := qry.QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var projects []Project
	for rows.Next() {
		var proj Project
		if err := rows.Scan(
			&proj.ID, &proj.Name, &proj.Description, &proj.StartDate,
			&proj.EndDate, &proj.Budget, &proj.DepartmentName,
		); telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	return projects, nil
}

// DepartmentExists reports whether a department with the given ID exists.
func (s Store) DepartmentExists(ctx context.Context, departmentID int64) (bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var id int64
	err := s.sb.
		Select("id").
		From("departments").
		Where(squirrel.Eq{"id": departmentID}).
		QueryRowContext(spanCtx).
		Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if telemetry.RecordErrorAndStatus(span, err) {
		return false, err
	}
	return true, nil
}

// EmailExists reports whether an employee with the given email exists.
func (s Store) EmailExists(ctx context.Context, email string) (bool, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	var id int64
	err := s.sb.
		Select("id").
		From("employees").
		Where(squirrel.Eq{"email": email}).
		QueryRowContext(spanCtx).
		Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if telemetry.RecordErrorAndStatus(span, err) {
		return false, err
	}
	return true, nil
}

// AddEmployee inserts a new employee and returns the generated ID.
func (s Store) AddEmployee(ctx context.Context, emp Employee) (int64, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	result, err := s.sb.
		Insert("employees").
		Columns("first_name", "last_name", "email", "hire_date", "department_id", "position", "salary").
		Values(emp.FirstName, emp.LastName, emp.Email, emp.HireDate, emp.DepartmentID, emp.Position, emp.Salary).
		ExecContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return 0, err
	}

	id, err := result.LastInsertId()
	if telemetry.RecordErrorAndStatus(span, err) {
		return 0, err
	}
	return id, nil
}

// InitStore initializes the directory store dependency.
type InitStore struct {
	DB *sql.DB `resolve:""`
}

// Initialize registers the store.
func (i InitStore) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register(NewStore(i.DB))
	return ctx, nil
}
