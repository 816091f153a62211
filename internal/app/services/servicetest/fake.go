// Package servicetest provides an in-memory StudentRecordService for handler tests.
package servicetest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// Fake keeps students and marks in memory. Set Err to make every call fail.
// Updates are applied without type coercion; callers pass already-typed values.
type Fake struct {
	mu       sync.Mutex
	students []*models.Student
	marks    []*models.Mark
	nextID   int64

	Err error
	// LastUpdate is the data map of the most recent UpdateStudent/UpdateMarks call
	LastUpdate map[string]any
}

// NewFake creates an empty fake service
func NewFake() *Fake {
	return &Fake{nextID: 1}
}

// fail reports Err, or the context error once the caller has gone away
func (f *Fake) fail(ctx context.Context) error {
	if f.Err != nil {
		return f.Err
	}
	return ctx.Err()
}

func (f *Fake) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *Fake) findStudent(id int64) *models.Student {
	for _, s := range f.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (f *Fake) filterStudents(keep func(*models.Student) bool) []*models.Student {
	out := make([]*models.Student, 0)
	for _, s := range f.students {
		if keep(s) {
			c := *s
			out = append(out, &c)
		}
	}
	return out
}

func (f *Fake) withMark(keep func(score float64) bool) []*models.Student {
	return f.filterStudents(func(s *models.Student) bool {
		return slices.ContainsFunc(f.marks, func(m *models.Mark) bool {
			return m.StudentID == s.ID && keep(m.Score)
		})
	})
}

func (f *Fake) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.filterStudents(func(*models.Student) bool { return true }), nil
}

func (f *Fake) GetStudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}

	stats := &models.StudentStatistics{
		ByDepartmentAndClass: []models.DepartmentClassCount{},
		ByDepartment:         []models.DepartmentCount{},
		ByClassYear:          []models.ClassYearCount{},
		TotalStudents:        int64(len(f.students)),
	}
	for _, s := range f.students {
		i := slices.IndexFunc(stats.ByDepartmentAndClass, func(c models.DepartmentClassCount) bool {
			return c.Department == s.Department && c.ClassYear == s.ClassYear
		})
		if i < 0 {
			stats.ByDepartmentAndClass = append(stats.ByDepartmentAndClass, models.DepartmentClassCount{Department: s.Department, ClassYear: s.ClassYear})
			i = len(stats.ByDepartmentAndClass) - 1
		}
		stats.ByDepartmentAndClass[i].Count++

		j := slices.IndexFunc(stats.ByDepartment, func(c models.DepartmentCount) bool { return c.Department == s.Department })
		if j < 0 {
			stats.ByDepartment = append(stats.ByDepartment, models.DepartmentCount{Department: s.Department})
			j = len(stats.ByDepartment) - 1
		}
		stats.ByDepartment[j].Count++

		k := slices.IndexFunc(stats.ByClassYear, func(c models.ClassYearCount) bool { return c.ClassYear == s.ClassYear })
		if k < 0 {
			stats.ByClassYear = append(stats.ByClassYear, models.ClassYearCount{ClassYear: s.ClassYear})
			k = len(stats.ByClassYear) - 1
		}
		stats.ByClassYear[k].Count++
	}
	return stats, nil
}

func (f *Fake) CreateStudent(ctx context.Context, input *models.NewStudent) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	for _, s := range f.students {
		if s.RollNumber == input.RollNumber {
			return nil, apperrors.NewConstraintViolationError("A student with this roll number already exists")
		}
		if s.Email == input.Email {
			return nil, apperrors.NewConstraintViolationError("A student with this email already exists")
		}
	}

	s := &models.Student{
		ID:         f.id(),
		Name:       input.Name,
		RollNumber: input.RollNumber,
		Department: input.Department,
		ClassYear:  input.ClassYear,
		Email:      input.Email,
	}
	f.students = append(f.students, s)
	c := *s
	return &c, nil
}

func (f *Fake) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	s := f.findStudent(id)
	if s == nil {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (f *Fake) UpdateStudent(ctx context.Context, id int64, data map[string]any) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdate = data
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	s := f.findStudent(id)
	if s == nil {
		return nil, nil
	}
	for key, value := range data {
		switch key {
		case "name":
			s.Name, _ = value.(string)
		case "roll_number":
			s.RollNumber, _ = value.(string)
		case "department":
			s.Department, _ = value.(string)
		case "email":
			s.Email, _ = value.(string)
		case "class_year":
			if v, ok := value.(float64); ok {
				s.ClassYear = int(v)
			}
		default:
			return nil, apperrors.NewInvalidFieldError(key, "field \""+key+"\" cannot be updated")
		}
	}
	c := *s
	return &c, nil
}

func (f *Fake) DeleteStudent(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	s := f.findStudent(id)
	if s == nil {
		return nil, nil
	}
	f.students = slices.DeleteFunc(f.students, func(x *models.Student) bool { return x.ID == id })
	f.marks = slices.DeleteFunc(f.marks, func(m *models.Mark) bool { return m.StudentID == id })
	return s, nil
}

func (f *Fake) AddMarks(ctx context.Context, input *models.NewMark) (*models.Mark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	if f.findStudent(input.StudentID) == nil {
		return nil, apperrors.NewConstraintViolationError("The referenced student does not exist")
	}
	m := &models.Mark{
		ID:        f.id(),
		StudentID: input.StudentID,
		Subject:   input.Subject,
		Score:     input.Score,
		Semester:  input.Semester,
	}
	f.marks = append(f.marks, m)
	c := *m
	return &c, nil
}

func (f *Fake) UpdateMarks(ctx context.Context, id int64, data map[string]any) (*models.Mark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdate = data
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	i := slices.IndexFunc(f.marks, func(m *models.Mark) bool { return m.ID == id })
	if i < 0 {
		return nil, nil
	}
	m := f.marks[i]
	for key, value := range data {
		switch key {
		case "subject":
			m.Subject, _ = value.(string)
		case "marks":
			if v, ok := value.(float64); ok {
				m.Score = v
			}
		case "semester":
			if v, ok := value.(float64); ok {
				m.Semester = int(v)
			}
		default:
			return nil, apperrors.NewInvalidFieldError(key, "field \""+key+"\" cannot be updated")
		}
	}
	c := *m
	return &c, nil
}

func (f *Fake) SearchStudentsByName(ctx context.Context, name string) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	return f.filterStudents(func(s *models.Student) bool {
		return strings.Contains(strings.ToLower(s.Name), needle)
	}), nil
}

func (f *Fake) SearchStudentsByDepartment(ctx context.Context, department string) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.filterStudents(func(s *models.Student) bool { return s.Department == department }), nil
}

func (f *Fake) SearchStudentsByClass(ctx context.Context, classYear int) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.filterStudents(func(s *models.Student) bool { return s.ClassYear == classYear }), nil
}

func (f *Fake) SearchStudentsByMarksRange(ctx context.Context, minMarks, maxMarks float64) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.withMark(func(score float64) bool { return score >= minMarks && score <= maxMarks }), nil
}

func (f *Fake) GetStudentMarks(ctx context.Context, studentID int64) ([]*models.Mark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	out := make([]*models.Mark, 0)
	for _, m := range f.marks {
		if m.StudentID == studentID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *Fake) GetStudentsAboveMarks(ctx context.Context, threshold float64) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.withMark(func(score float64) bool { return score > threshold }), nil
}

func (f *Fake) GetStudentsBelowMarks(ctx context.Context, threshold float64) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	return f.withMark(func(score float64) bool { return score < threshold }), nil
}

func (f *Fake) GetRoster(ctx context.Context) (*models.Roster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(ctx); err != nil {
		return nil, err
	}
	marks := make([]*models.Mark, 0, len(f.marks))
	for _, m := range f.marks {
		c := *m
		marks = append(marks, &c)
	}
	return &models.Roster{
		Students: f.filterStudents(func(*models.Student) bool { return true }),
		Marks:    marks,
	}, nil
}
