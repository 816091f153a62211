package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/app/services/servicetest"
)

var _ services.StudentRecordService = (*servicetest.Fake)(nil)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected a single content item, got %+v", res)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	return v
}

func newTools(t *testing.T) (*StudentTools, *servicetest.Fake) {
	t.Helper()
	fake := servicetest.NewFake()
	return NewStudentTools(fake, zerolog.Nop()), fake
}

func TestCreateAndGetStudent(t *testing.T) {
	tools, _ := newTools(t)
	ctx := context.Background()

	res, err := tools.CreateStudent(ctx, callRequest("create_student", map[string]any{
		"name":        "Ana",
		"roll_number": "R1",
		"department":  "CS",
		"class_year":  float64(2),
		"email":       "a@x.com",
	}))
	if err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}
	created := decode[map[string]any](t, res)
	if created["roll_number"] != "R1" || created["class_year"] != float64(2) {
		t.Fatalf("unexpected created student: %v", created)
	}

	res, err = tools.GetStudent(ctx, callRequest("get_student", map[string]any{"id": created["id"]}))
	if err != nil {
		t.Fatalf("GetStudent returned error: %v", err)
	}
	got := decode[models.Student](t, res)
	if got.Name != "Ana" || got.Email != "a@x.com" {
		t.Fatalf("unexpected student: %+v", got)
	}
}

func TestAbsentRecordsAreToolErrors(t *testing.T) {
	tools, _ := newTools(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		message string
	}{
		{"get_student", tools.GetStudent, map[string]any{"id": float64(999)}, "Student not found"},
		{"delete_student", tools.DeleteStudent, map[string]any{"id": float64(999)}, "Student not found"},
		{"update_student", tools.UpdateStudent, map[string]any{"id": float64(999), "data": map[string]any{"name": "X"}}, "Student not found"},
		{"update_marks", tools.UpdateMarks, map[string]any{"id": float64(999), "data": map[string]any{"marks": float64(1)}}, "Marks not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.handler(ctx, callRequest(tc.name, tc.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error result")
			}
			if msg := resultText(t, res); msg != tc.message {
				t.Fatalf("message = %q, want %q", msg, tc.message)
			}
		})
	}
}

func TestArgumentCoercionFailures(t *testing.T) {
	tools, _ := newTools(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{"missing id", tools.GetStudent, map[string]any{}},
		{"fractional id", tools.GetStudent, map[string]any{"id": 1.5}},
		{"class year as word", tools.SearchStudentsByClass, map[string]any{"class_year": "second"}},
		{"data not an object", tools.UpdateStudent, map[string]any{"id": float64(1), "data": "name=Bea"}},
		{"marks missing", tools.AddMarks, map[string]any{"student_id": float64(1), "subject": "Math", "semester": float64(1)}},
		{"name not a string", tools.SearchStudentsByName, map[string]any{"name": float64(3)}},
		{"class year beyond integer column", tools.CreateStudent, map[string]any{
			"name": "Ana", "roll_number": "R1", "department": "CS", "class_year": 3e9, "email": "a@x.com",
		}},
		{"semester beyond integer column", tools.AddMarks, map[string]any{
			"student_id": float64(1), "subject": "Math", "marks": float64(50), "semester": float64(-3e9),
		}},
		{"class year search beyond integer column", tools.SearchStudentsByClass, map[string]any{"class_year": 3e9}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.handler(ctx, callRequest("tool", tc.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("expected tool error, got %s", resultText(t, res))
			}
		})
	}
}

func TestMarksToolsAndThresholds(t *testing.T) {
	tools, fake := newTools(t)
	ctx := context.Background()

	ana, _ := fake.CreateStudent(ctx, &models.NewStudent{Name: "Ana", RollNumber: "R1", Department: "CS", ClassYear: 2, Email: "a@x.com"})
	_, _ = fake.CreateStudent(ctx, &models.NewStudent{Name: "Bob", RollNumber: "R2", Department: "EE", ClassYear: 1, Email: "b@x.com"})

	for _, score := range []float64{85, 88} {
		res, err := tools.AddMarks(ctx, callRequest("add_marks", map[string]any{
			"student_id": float64(ana.ID),
			"subject":    "Math",
			"marks":      score,
			"semester":   float64(1),
		}))
		if err != nil {
			t.Fatalf("AddMarks returned error: %v", err)
		}
		mark := decode[map[string]any](t, res)
		if mark["marks"] != score {
			t.Fatalf("expected score under key marks, got %v", mark)
		}
	}

	res, _ := tools.SearchStudentsByMarksRange(ctx, callRequest("search_students_by_marks_range", map[string]any{
		"min_marks": float64(80),
		"max_marks": float64(90),
	}))
	if students := decode[[]models.Student](t, res); len(students) != 1 || students[0].ID != ana.ID {
		t.Fatalf("expected Ana once, got %+v", students)
	}

	res, _ = tools.GetStudentsAboveMarks(ctx, callRequest("get_students_above_marks", map[string]any{"marks": float64(88)}))
	if students := decode[[]models.Student](t, res); len(students) != 0 {
		t.Fatalf("threshold is strict, got %+v", students)
	}

	res, _ = tools.GetStudentsBelowMarks(ctx, callRequest("get_students_below_marks", map[string]any{"marks": float64(86)}))
	if students := decode[[]models.Student](t, res); len(students) != 1 {
		t.Fatalf("expected Ana below 86, got %+v", students)
	}

	res, _ = tools.GetStudentMarks(ctx, callRequest("get_student_marks", map[string]any{"student_id": float64(ana.ID)}))
	if marks := decode[[]models.Mark](t, res); len(marks) != 2 {
		t.Fatalf("expected 2 marks, got %+v", marks)
	}

	res, _ = tools.GetStudentStatistics(ctx, callRequest("get_student_statistics", nil))
	stats := decode[map[string]any](t, res)
	for _, key := range []string{"byDepartmentAndClass", "byDepartment", "byClassYear", "totalStudents"} {
		if _, ok := stats[key]; !ok {
			t.Fatalf("statistics missing %s: %v", key, stats)
		}
	}
	if stats["totalStudents"] != float64(2) {
		t.Fatalf("expected 2 students, got %v", stats["totalStudents"])
	}
}

func TestServiceFailureBecomesToolError(t *testing.T) {
	tools, fake := newTools(t)
	fake.Err = errors.New("database unavailable")

	res, err := tools.GetAllStudents(context.Background(), callRequest("get_all_students", nil))
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if !res.IsError || resultText(t, res) != "database unavailable" {
		t.Fatalf("expected tool error with service message, got %+v", res)
	}
}

func TestNewServerListsEveryTool(t *testing.T) {
	s := NewServer(servicetest.NewFake(), zerolog.Nop())

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	payload, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}

	var listed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(payload, &listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	names := make(map[string]bool, len(listed.Result.Tools))
	for _, tool := range listed.Result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"get_all_students", "get_student_statistics", "create_student", "get_student",
		"update_student", "delete_student", "add_marks", "update_marks",
		"search_students_by_name", "search_students_by_department", "search_students_by_class",
		"search_students_by_marks_range", "get_student_marks", "get_students_above_marks",
		"get_students_below_marks",
	} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}
}
