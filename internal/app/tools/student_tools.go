package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
)

const (
	ServerName    = "Student Management System"
	ServerVersion = "1.0.0"
)

// StudentTools exposes the record service as MCP tools
type StudentTools struct {
	studentService services.StudentRecordService
	logger         zerolog.Logger
}

// NewStudentTools creates the tool handlers
func NewStudentTools(studentService services.StudentRecordService, lgr zerolog.Logger) *StudentTools {
	return &StudentTools{
		studentService: studentService,
		logger:         lgr.With().Str("component", "mcp_tools").Logger(),
	}
}

// NewServer builds an MCP server with every student tool registered
func NewServer(studentService services.StudentRecordService, lgr zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))
	NewStudentTools(studentService, lgr).Register(s)
	return s
}

// Register adds every tool to s
func (t *StudentTools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("get_all_students",
		mcp.WithDescription("Get all student records"),
	), t.GetAllStudents)

	s.AddTool(mcp.NewTool("get_student_statistics",
		mcp.WithDescription("Get statistical information about students"),
	), t.GetStudentStatistics)

	s.AddTool(mcp.NewTool("create_student",
		mcp.WithDescription("Create a new student record"),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("roll_number", mcp.Required()),
		mcp.WithString("department", mcp.Required()),
		mcp.WithNumber("class_year", mcp.Required()),
		mcp.WithString("email", mcp.Required()),
	), t.CreateStudent)

	s.AddTool(mcp.NewTool("get_student",
		mcp.WithDescription("Get student details by ID"),
		mcp.WithNumber("id", mcp.Required()),
	), t.GetStudent)

	s.AddTool(mcp.NewTool("update_student",
		mcp.WithDescription("Update student information"),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithObject("data", mcp.Required(),
			mcp.Description("Any of name, roll_number, department, class_year, email")),
	), t.UpdateStudent)

	s.AddTool(mcp.NewTool("delete_student",
		mcp.WithDescription("Delete a student record"),
		mcp.WithNumber("id", mcp.Required()),
	), t.DeleteStudent)

	s.AddTool(mcp.NewTool("add_marks",
		mcp.WithDescription("Add marks for a student"),
		mcp.WithNumber("student_id", mcp.Required()),
		mcp.WithString("subject", mcp.Required()),
		mcp.WithNumber("marks", mcp.Required()),
		mcp.WithNumber("semester", mcp.Required()),
	), t.AddMarks)

	s.AddTool(mcp.NewTool("update_marks",
		mcp.WithDescription("Update marks for a student"),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithObject("data", mcp.Required(),
			mcp.Description("Any of subject, marks, semester")),
	), t.UpdateMarks)

	s.AddTool(mcp.NewTool("search_students_by_name",
		mcp.WithDescription("Search students by name"),
		mcp.WithString("name", mcp.Required()),
	), t.SearchStudentsByName)

	s.AddTool(mcp.NewTool("search_students_by_department",
		mcp.WithDescription("Search students by department"),
		mcp.WithString("department", mcp.Required()),
	), t.SearchStudentsByDepartment)

	s.AddTool(mcp.NewTool("search_students_by_class",
		mcp.WithDescription("Search students by class year"),
		mcp.WithNumber("class_year", mcp.Required()),
	), t.SearchStudentsByClass)

	s.AddTool(mcp.NewTool("search_students_by_marks_range",
		mcp.WithDescription("Search students by marks range"),
		mcp.WithNumber("min_marks", mcp.Required()),
		mcp.WithNumber("max_marks", mcp.Required()),
	), t.SearchStudentsByMarksRange)

	s.AddTool(mcp.NewTool("get_student_marks",
		mcp.WithDescription("Get marks for a specific student"),
		mcp.WithNumber("student_id", mcp.Required()),
	), t.GetStudentMarks)

	s.AddTool(mcp.NewTool("get_students_above_marks",
		mcp.WithDescription("Get students with marks above threshold"),
		mcp.WithNumber("marks", mcp.Required()),
	), t.GetStudentsAboveMarks)

	s.AddTool(mcp.NewTool("get_students_below_marks",
		mcp.WithDescription("Get students with marks below threshold"),
		mcp.WithNumber("marks", mcp.Required()),
	), t.GetStudentsBelowMarks)
}

// failure turns a service error into a tool error result
func (t *StudentTools) failure(tool string, err error) (*mcp.CallToolResult, error) {
	t.logger.Warn().Err(err).Str("tool", tool).Msg("Tool call failed")
	return mcp.NewToolResultError(err.Error()), nil
}

func (t *StudentTools) GetAllStudents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	students, err := t.studentService.GetAllStudents(ctx)
	if err != nil {
		return t.failure("get_all_students", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) GetStudentStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.studentService.GetStudentStatistics(ctx)
	if err != nil {
		return t.failure("get_student_statistics", err)
	}
	return jsonResult(stats)
}

func (t *StudentTools) CreateStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)

	input := &models.NewStudent{}
	var err error
	if input.Name, err = requireString(args, "name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.RollNumber, err = requireString(args, "roll_number"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.Department, err = requireString(args, "department"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.ClassYear, err = requireInt32(args, "class_year"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.Email, err = requireString(args, "email"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	student, err := t.studentService.CreateStudent(ctx, input)
	if err != nil {
		return t.failure("create_student", err)
	}
	return jsonResult(student)
}

func (t *StudentTools) GetStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(arguments(req), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	student, err := t.studentService.GetStudent(ctx, id)
	if err != nil {
		return t.failure("get_student", err)
	}
	if student == nil {
		return mcp.NewToolResultError("Student not found"), nil
	}
	return jsonResult(student)
}

func (t *StudentTools) UpdateStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	id, err := requireInt(args, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := requireObject(args, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	student, err := t.studentService.UpdateStudent(ctx, id, data)
	if err != nil {
		return t.failure("update_student", err)
	}
	if student == nil {
		return mcp.NewToolResultError("Student not found"), nil
	}
	return jsonResult(student)
}

func (t *StudentTools) DeleteStudent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireInt(arguments(req), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	student, err := t.studentService.DeleteStudent(ctx, id)
	if err != nil {
		return t.failure("delete_student", err)
	}
	if student == nil {
		return mcp.NewToolResultError("Student not found"), nil
	}
	return jsonResult(student)
}

func (t *StudentTools) AddMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)

	input := &models.NewMark{}
	var err error
	if input.StudentID, err = requireInt(args, "student_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.Subject, err = requireString(args, "subject"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.Score, err = requireFloat(args, "marks"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if input.Semester, err = requireInt32(args, "semester"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mark, err := t.studentService.AddMarks(ctx, input)
	if err != nil {
		return t.failure("add_marks", err)
	}
	return jsonResult(mark)
}

func (t *StudentTools) UpdateMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	id, err := requireInt(args, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := requireObject(args, "data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mark, err := t.studentService.UpdateMarks(ctx, id, data)
	if err != nil {
		return t.failure("update_marks", err)
	}
	if mark == nil {
		return mcp.NewToolResultError("Marks not found"), nil
	}
	return jsonResult(mark)
}

func (t *StudentTools) SearchStudentsByName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(arguments(req), "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.SearchStudentsByName(ctx, name)
	if err != nil {
		return t.failure("search_students_by_name", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) SearchStudentsByDepartment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	department, err := requireString(arguments(req), "department")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.SearchStudentsByDepartment(ctx, department)
	if err != nil {
		return t.failure("search_students_by_department", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) SearchStudentsByClass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	classYear, err := requireInt32(arguments(req), "class_year")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.SearchStudentsByClass(ctx, classYear)
	if err != nil {
		return t.failure("search_students_by_class", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) SearchStudentsByMarksRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req)
	minMarks, err := requireFloat(args, "min_marks")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxMarks, err := requireFloat(args, "max_marks")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.SearchStudentsByMarksRange(ctx, minMarks, maxMarks)
	if err != nil {
		return t.failure("search_students_by_marks_range", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) GetStudentMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	studentID, err := requireInt(arguments(req), "student_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	marks, err := t.studentService.GetStudentMarks(ctx, studentID)
	if err != nil {
		return t.failure("get_student_marks", err)
	}
	return jsonResult(marks)
}

func (t *StudentTools) GetStudentsAboveMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threshold, err := requireFloat(arguments(req), "marks")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.GetStudentsAboveMarks(ctx, threshold)
	if err != nil {
		return t.failure("get_students_above_marks", err)
	}
	return jsonResult(students)
}

func (t *StudentTools) GetStudentsBelowMarks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threshold, err := requireFloat(arguments(req), "marks")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	students, err := t.studentService.GetStudentsBelowMarks(ctx, threshold)
	if err != nil {
		return t.failure("get_students_below_marks", err)
	}
	return jsonResult(students)
}
