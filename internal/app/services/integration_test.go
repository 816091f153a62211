package services_test

import (
	"context"
	"errors"
	"maps"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// newIntegrationService connects to STUDENTS_TEST_DATABASE_URL, migrates and
// empties the tables. The test is skipped when the variable is unset.
func newIntegrationService(t *testing.T) *services.StudentService {
	t.Helper()

	url := os.Getenv("STUDENTS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("STUDENTS_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("invalid database url: %v", err)
	}
	poolConfig.ConnConfig.RuntimeParams["search_path"] = db.SearchPath

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.NewMigrator(pool, zerolog.Nop()).MigrateEmbedded(ctx); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE student_marks, students RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}

	return services.NewStudentService(db.NewFromPool(pool, zerolog.Nop()), zerolog.Nop())
}

func TestStudentLifecycle(t *testing.T) {
	svc := newIntegrationService(t)
	ctx := context.Background()

	ana, err := svc.CreateStudent(ctx, &models.NewStudent{
		Name: "Ana", RollNumber: "R1", Department: "CS", ClassYear: 2, Email: "a@x.com",
	})
	if err != nil {
		t.Fatalf("create Ana: %v", err)
	}

	if _, err := svc.AddMarks(ctx, &models.NewMark{StudentID: ana.ID, Subject: "Math", Score: 85, Semester: 1}); err != nil {
		t.Fatalf("add Math: %v", err)
	}
	if _, err := svc.AddMarks(ctx, &models.NewMark{StudentID: ana.ID, Subject: "Physics", Score: 88, Semester: 1}); err != nil {
		t.Fatalf("add Physics: %v", err)
	}

	// Two qualifying marks, one student
	inRange, err := svc.SearchStudentsByMarksRange(ctx, 80, 90)
	if err != nil {
		t.Fatalf("marks range: %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != ana.ID {
		t.Fatalf("expected only Ana in range, got %+v", inRange)
	}

	above, err := svc.GetStudentsAboveMarks(ctx, 86)
	if err != nil {
		t.Fatalf("above marks: %v", err)
	}
	if len(above) != 1 {
		t.Fatalf("expected Ana above 86, got %+v", above)
	}

	above, err = svc.GetStudentsAboveMarks(ctx, 88)
	if err != nil {
		t.Fatalf("above marks: %v", err)
	}
	if len(above) != 0 {
		t.Fatalf("threshold must be strict, got %+v", above)
	}

	byName, err := svc.SearchStudentsByName(ctx, "an")
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(byName) != 1 {
		t.Fatalf("expected case-insensitive match on Ana, got %+v", byName)
	}

	// Duplicate roll number leaves the store unchanged
	_, err = svc.CreateStudent(ctx, &models.NewStudent{
		Name: "Bob", RollNumber: "R1", Department: "EE", ClassYear: 1, Email: "b@x.com",
	})
	if !errors.Is(err, apperrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	all, err := svc.GetAllStudents(ctx)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one student after failed insert, got %d", len(all))
	}

	updated, err := svc.UpdateStudent(ctx, ana.ID, map[string]any{"class_year": float64(3)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ClassYear != 3 || updated.Email != "a@x.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	stats, err := svc.GetStudentStatistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalStudents != 1 || len(stats.ByClassYear) != 1 || stats.ByClassYear[0].ClassYear != 3 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}

	deleted, err := svc.DeleteStudent(ctx, ana.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted == nil || deleted.Name != "Ana" {
		t.Fatalf("expected deleted Ana, got %+v", deleted)
	}

	got, err := svc.GetStudent(ctx, ana.ID)
	if err != nil || got != nil {
		t.Fatalf("expected absent student, got %+v, %v", got, err)
	}
	marks, err := svc.GetStudentMarks(ctx, ana.ID)
	if err != nil {
		t.Fatalf("marks after delete: %v", err)
	}
	if len(marks) != 0 {
		t.Fatalf("marks should cascade with the student, got %+v", marks)
	}

	again, err := svc.DeleteStudent(ctx, ana.ID)
	if err != nil || again != nil {
		t.Fatalf("second delete should be a no-op, got %+v, %v", again, err)
	}
}

func TestAddMarksForUnknownStudent(t *testing.T) {
	svc := newIntegrationService(t)

	_, err := svc.AddMarks(context.Background(), &models.NewMark{StudentID: 999, Subject: "Math", Score: 50, Semester: 1})
	if !errors.Is(err, apperrors.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func studentIDs(students []*models.Student) []int64 {
	ids := make([]int64, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	slices.Sort(ids)
	return ids
}

func TestAnaScenario(t *testing.T) {
	svc := newIntegrationService(t)
	ctx := context.Background()

	input := &models.NewStudent{Name: "Ana", RollNumber: "R1", Department: "CS", ClassYear: 2, Email: "a@x.com"}
	ana, err := svc.CreateStudent(ctx, input)
	if err != nil {
		t.Fatalf("create Ana: %v", err)
	}
	if ana.ID != 1 {
		t.Fatalf("expected identifier 1, got %d", ana.ID)
	}

	got, err := svc.GetStudent(ctx, ana.ID)
	if err != nil || got == nil || *got != *ana {
		t.Fatalf("get after create = %+v, %v; want %+v", got, err, ana)
	}

	for _, m := range []models.NewMark{
		{StudentID: 1, Subject: "Math", Score: 85, Semester: 1},
		{StudentID: 1, Subject: "Phys", Score: 40, Semester: 1},
	} {
		if _, err := svc.AddMarks(ctx, &m); err != nil {
			t.Fatalf("add %s: %v", m.Subject, err)
		}
	}
	marks, err := svc.GetStudentMarks(ctx, 1)
	if err != nil || len(marks) != 2 {
		t.Fatalf("expected two marks, got %+v, %v", marks, err)
	}

	tests := []struct {
		name  string
		query func() ([]*models.Student, error)
		want  []int64
	}{
		{"range 30..50 holds Phys 40", func() ([]*models.Student, error) { return svc.SearchStudentsByMarksRange(ctx, 30, 50) }, []int64{1}},
		{"range 80..90 holds Math 85", func() ([]*models.Student, error) { return svc.SearchStudentsByMarksRange(ctx, 80, 90) }, []int64{1}},
		{"range bounds are inclusive", func() ([]*models.Student, error) { return svc.SearchStudentsByMarksRange(ctx, 40, 40) }, []int64{1}},
		{"range 30..90 lists Ana once", func() ([]*models.Student, error) { return svc.SearchStudentsByMarksRange(ctx, 30, 90) }, []int64{1}},
		{"range with no mark", func() ([]*models.Student, error) { return svc.SearchStudentsByMarksRange(ctx, 50, 80) }, []int64{}},
		{"above 80", func() ([]*models.Student, error) { return svc.GetStudentsAboveMarks(ctx, 80) }, []int64{1}},
		{"above 85 is strict", func() ([]*models.Student, error) { return svc.GetStudentsAboveMarks(ctx, 85) }, []int64{}},
		{"below 50", func() ([]*models.Student, error) { return svc.GetStudentsBelowMarks(ctx, 50) }, []int64{1}},
		{"below 40 is strict", func() ([]*models.Student, error) { return svc.GetStudentsBelowMarks(ctx, 40) }, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, err := tt.query()
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if got := studentIDs(students); !slices.Equal(got, tt.want) {
				t.Fatalf("got students %v, want %v", got, tt.want)
			}
		})
	}

	missing, err := svc.UpdateStudent(ctx, 99, map[string]any{"name": "Zed"})
	if err != nil || missing != nil {
		t.Fatalf("update of unknown id = %+v, %v; want absent", missing, err)
	}
	if all, _ := svc.GetAllStudents(ctx); len(all) != 1 || all[0].Name != "Ana" {
		t.Fatalf("unknown-id update must not change anything, got %+v", all)
	}

	deleted, err := svc.DeleteStudent(ctx, 1)
	if err != nil || deleted == nil || *deleted != *ana {
		t.Fatalf("delete = %+v, %v; want Ana's record", deleted, err)
	}
	if got, err := svc.GetStudent(ctx, 1); err != nil || got != nil {
		t.Fatalf("expected absent after delete, got %+v, %v", got, err)
	}
}

func TestThresholdsCoverStudentsWithMarks(t *testing.T) {
	svc := newIntegrationService(t)
	ctx := context.Background()

	scores := map[string][]float64{
		"Ana": {85, 40},
		"Bob": {60, 60},
		"Cid": {70},
		"Dee": nil,
		"Eve": {90, 95},
		"Fay": {20, 60},
	}
	owner := map[int64][]float64{}
	for i, name := range slices.Sorted(maps.Keys(scores)) {
		student, err := svc.CreateStudent(ctx, &models.NewStudent{
			Name: name, RollNumber: name, Department: "CS", ClassYear: i%3 + 1, Email: name + "@x.com",
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		for _, score := range scores[name] {
			if _, err := svc.AddMarks(ctx, &models.NewMark{StudentID: student.ID, Subject: "Math", Score: score, Semester: 1}); err != nil {
				t.Fatalf("add mark for %s: %v", name, err)
			}
		}
		owner[student.ID] = scores[name]
	}

	for _, threshold := range []float64{20, 40, 60, 70, 85, 95, 100} {
		above, err := svc.GetStudentsAboveMarks(ctx, threshold)
		if err != nil {
			t.Fatalf("above %v: %v", threshold, err)
		}
		below, err := svc.GetStudentsBelowMarks(ctx, threshold)
		if err != nil {
			t.Fatalf("below %v: %v", threshold, err)
		}
		aboveIDs, belowIDs := studentIDs(above), studentIDs(below)

		var wantAbove, wantBelow, withMarks []int64
		for id, marks := range owner {
			if len(marks) == 0 {
				continue
			}
			withMarks = append(withMarks, id)
			if slices.Max(marks) > threshold {
				wantAbove = append(wantAbove, id)
			}
			if slices.Min(marks) < threshold {
				wantBelow = append(wantBelow, id)
			}
		}
		slices.Sort(wantAbove)
		slices.Sort(wantBelow)
		slices.Sort(withMarks)

		if !slices.Equal(aboveIDs, wantAbove) {
			t.Errorf("above %v = %v, want %v", threshold, aboveIDs, wantAbove)
		}
		if !slices.Equal(belowIDs, wantBelow) {
			t.Errorf("below %v = %v, want %v", threshold, belowIDs, wantBelow)
		}

		var covered []int64
		for _, id := range withMarks {
			inAbove := slices.Contains(aboveIDs, id)
			inBelow := slices.Contains(belowIDs, id)
			allEqual := !slices.ContainsFunc(owner[id], func(m float64) bool { return m != threshold })

			if inAbove || inBelow || allEqual {
				covered = append(covered, id)
			}
			if allEqual && (inAbove || inBelow) {
				t.Errorf("threshold %v: student %d has every mark equal to it but is in above/below", threshold, id)
			}
			// Overlap only for students with marks on both sides
			oneSided := slices.Min(owner[id]) >= threshold || slices.Max(owner[id]) <= threshold
			if oneSided && inAbove && inBelow {
				t.Errorf("threshold %v: student %d is in both above and below", threshold, id)
			}
		}
		if !slices.Equal(covered, withMarks) {
			t.Errorf("threshold %v covers %v, want every student with marks %v", threshold, covered, withMarks)
		}
	}

	all, err := svc.GetAllStudents(ctx)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	stats, err := svc.GetStudentStatistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalStudents != int64(len(all)) {
		t.Fatalf("statistics total %d, list has %d", stats.TotalStudents, len(all))
	}
	var byClass int64
	for _, c := range stats.ByClassYear {
		byClass += c.Count
	}
	if byClass != stats.TotalStudents {
		t.Fatalf("class year counts sum to %d, want %d", byClass, stats.TotalStudents)
	}
}
