package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server hosts the company-directory MCP server over stdio.
type Server struct {
	Logger       *log.Logger                `resolve:""`
	Store        Store                      `resolve:""`
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

// Run serves MCP requests on stdin/stdout until the context is done.
func (s Server) Run(ctx context.Context) error {
	s.Logger.Println("DirectoryServer: serving on stdio")
	return s.buildServer().Run(ctx, &mcpsdk.StdioTransport{})
}

func (s Server) buildServer() *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "company_directory",
		Version: "1.0.0",
	}, nil)

	server.AddTool(&mcpsdk.Tool{
		Name:        "query_employees",
		Description: "Search for employees by name, department or position.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"search_term":   map[string]any{"type": "string", "description": "Search in first_name or last_name (optional)"},
				"department_id": map[string]any{"type": "integer", "description": "Filter by department ID (optional)"},
				"position":      map[string]any{"type": "string", "description": "Filter by job position (optional)"},
			},
		},
	}, s.queryEmployees)

	server.AddTool(&mcpsdk.Tool{
		Name:        "query_departments",
		Description: "Get information about departments.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"department_id": map[string]any{"type": "integer", "description": "Specific department ID to query (optional)"},
			},
		},
	}, s.queryDepartments)

	server.AddTool(&mcpsdk.Tool{
		Name:        "query_projects",
		Description: "Get information about projects.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"department_id": map[string]any{"type": "integer", "description": "Filter by department ID (optional)"},
				"active_only":   map[string]any{"type": "boolean", "description": "If true, show only active projects (optional)"},
			},
		},
	}, s.queryProjects)

	server.AddTool(&mcpsdk.Tool{
		Name:        "add_employee",
		Description: "Add a new employee to the database.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"first_name":    map[string]any{"type": "string", "description": "Employee's first name"},
				"last_name":     map[string]any{"type": "string", "description": "Employee's last name"},
				"email":         map[string]any{"type": "string", "description": "Employee's email address"},
				"department_id": map[string]any{"type": "integer", "description": "Department ID (must exist)"},
				"position":      map[string]any{"type": "string", "description": "Job position/title"},
				"salary":        map[string]any{"type": "number", "description": "Annual salary"},
				"hire_date":     map[string]any{"type": "string", "description": "Date of hire, defaults to today"},
			},
			"required": []any{"first_name", "last_name", "email", "department_id", "position", "salary"},
		},
	}, s.addEmployee)

	return server
}

type queryEmployeesArgs struct {
	SearchTerm   string `json:"search_term"`
	DepartmentID *int64 `json:"department_id"`
	Position     string `json:"position"`
}

func (s Server) queryEmployees(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	args := queryEmployeesArgs{}
	if err := unmarshalArgs(req, &args); err != nil {
		return nil, err
	}

	employees, err := s.Store.QueryEmployees(ctx, EmployeeFilter{
		SearchTerm:   args.SearchTerm,
		Position:     args.Position,
		DepartmentID: args.DepartmentID,
	})
	if err != nil {
		return nil, err
	}

	if len(employees) == 0 {
		return textResult("No employees found matching the criteria."), nil
	}

	blocks := make([]string, 0, len(employees))
	for _, emp := range employees {
		blocks = append(blocks, fmt.Sprintf(
			"\nID: %d\nName: %s %s\nEmail: %s\nPosition: %s\nDepartment: %s\nHire Date: %s\nSalary: %s\n",
			emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Position,
			emp.DepartmentName, emp.HireDate, formatMoney(emp.Salary),
		))
	}
	return textResult(strings.Join(blocks, "\n---\n")), nil
}

type queryDepartmentsArgs struct {
	DepartmentID *int64 `json:"department_id"`
}

func (s Server) queryDepartments(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	args := queryDepartmentsArgs{}
	if err := unmarshalArgs(req, &args); err != nil {
		return nil, err
	}

	departments, err := s.Store.QueryDepartments(ctx, args.DepartmentID)
	if err != nil {
		return nil, err
	}

	if len(departments) == 0 {
		return textResult("No departments found."), nil
	}

	blocks := make([]string, 0, len(departments))
	for _, dept := range departments {
		blocks = append(blocks, fmt.Sprintf(
			"\nID: %d\nName: %s\nLocation: %s\nBudget: %s\nNumber of Employees: %d\n",
			dept.ID, dept.Name, dept.Location, formatMoney(dept.Budget), dept.EmployeeCount,
		))
	}
	return textResult(strings.Join(blocks, "\n---\n")), nil
}

type queryProjectsArgs struct {
	DepartmentID *int64 `json:"department_id"`
	ActiveOnly   bool   `json:"active_only"`
}

func (s Server) queryProjects(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	args := queryProjectsArgs{}
	if err := unmarshalArgs(req, &args); err != nil {
		return nil, err
	}

	projects, err := s.Store.QueryProjects(ctx, args.DepartmentID, args.ActiveOnly)
	if err != nil {
		return nil, err
	}

	if len(projects) == 0 {
		return textResult("No projects found matching the criteria."), nil
	}

	blocks := make([]string, 0, len(projects))
	for _, proj := range projects {
		endDate := "None"
		if proj.EndDate != nil {
			endDate = *proj.EndDate
		}
		blocks = append(blocks, fmt.Sprintf(
			"\nID: %d\nName: %s\nDescription: %s\nDepartment: %s\nTimeline: %s to %s\nBudget: %s\n",
			proj.ID, proj.Name, proj.Description, proj.DepartmentName,
			proj.StartDate, endDate, formatMoney(proj.Budget),
		))
	}
	return textResult(strings.Join(blocks, "\n---\n")), nil
}

type addEmployeeArgs struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	DepartmentID int64   `json:"department_id"`
	Position     string  `json:"position"`
	Salary       float64 `json:"salary"`
	HireDate     string  `json:"hire_date"`
}

func (s Server) addEmployee(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	args := addEmployeeArgs{}
	if err := unmarshalArgs(req, &args); err != nil {
		return nil, err
	}

	hireDate := s.TimeProvider.Now().Format(time.DateOnly)
	if args.HireDate != "" {
		parsed, err := dateparse.ParseAny(args.HireDate)
		if err != nil {
			return textResult(fmt.Sprintf("Error: Could not parse hire date %q.", args.HireDate)), nil
		}
		hireDate = parsed.Format(time.DateOnly)
	}

	exists, err := s.Store.DepartmentExists(ctx, args.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return textResult(fmt.Sprintf("Error: Department ID %d does not exist.", args.DepartmentID)), nil
	}

	emailTaken, err := s.Store.EmailExists(ctx, args.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return textResult(fmt.Sprintf("Error: An employee with email %s already exists.", args.Email)), nil
	}

	employeeID, err := s.Store.AddEmployee(ctx, Employee{
		FirstName:    args.FirstName,
		LastName:     args.LastName,
		Email:        args.Email,
		HireDate:     hireDate,
		DepartmentID: args.DepartmentID,
		Position:     args.Position,
		Salary:       args.Salary,
	})
	if err != nil {
		return textResult(fmt.Sprintf("Error adding employee: %v", err)), nil
	}

	return textResult(fmt.Sprintf("Employee added successfully with ID: %d", employeeID)), nil
}

func unmarshalArgs(req *mcpsdk.CallToolRequest, dest any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, dest)
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

// formatMoney renders an amount as $1,234,567.89.
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}

	out := "$" + b.String() + "." + frac
	if negative {
		out = "-" + out
	}
	return out
}
