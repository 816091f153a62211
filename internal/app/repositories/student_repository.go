package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

const studentReturning = "RETURNING id, name, roll_number, department, class_year, email"

// StudentRepository handles database operations for students
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db Querier) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// selectStudentsQuery is the common projection; callers add filters and ordering
func (r *StudentRepository) selectStudentsQuery() squirrel.SelectBuilder {
	return psql.Select("s.id", "s.name", "s.roll_number", "s.department", "s.class_year", "s.email").
		From("students s")
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var student models.Student
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&student.RollNumber,
		&student.Department,
		&student.ClassYear,
		&student.Email,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

// queryStudents runs a students projection and collects every row
func (r *StudentRepository) queryStudents(ctx context.Context, builder squirrel.Sqlizer) ([]*models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// queryOptionalStudent returns nil without error when the statement yields no row
func (r *StudentRepository) queryOptionalStudent(ctx context.Context, builder squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// GetAll retrieves all students
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	students, err := r.queryStudents(ctx, r.selectStudentsQuery().OrderBy("s.id"))
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// GetByID retrieves a student by ID, or nil when none exists
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := r.queryOptionalStudent(ctx, r.selectStudentsQuery().Where(squirrel.Eq{"s.id": id}))
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// Create inserts a student and returns it with its assigned ID
func (r *StudentRepository) Create(ctx context.Context, input *models.NewStudent) (*models.Student, error) {
	sql, args, err := psql.Insert("students").
		Columns(models.StudentColumns...).
		Values(input.Name, input.RollNumber, input.Department, input.ClassYear, input.Email).
		Suffix(studentReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building create student SQL: %w", err)
	}

	return scanStudent(r.db.QueryRow(ctx, sql, args...))
}

// Update applies already-validated column values to a student.
// Returns nil when the student does not exist.
func (r *StudentRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Student, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	builder := psql.Update("students")
	// Column order keeps the generated SQL stable
	for _, column := range models.StudentColumns {
		if value, ok := fields[column]; ok {
			builder = builder.Set(column, value)
		}
	}

	return r.queryOptionalStudent(ctx, builder.
		Where(squirrel.Eq{"id": id}).
		Suffix(studentReturning))
}

// Delete removes a student and returns the removed row, or nil when none existed.
// Marks owned by the student go with it (ON DELETE CASCADE).
func (r *StudentRepository) Delete(ctx context.Context, id int64) (*models.Student, error) {
	return r.queryOptionalStudent(ctx, psql.Delete("students").
		Where(squirrel.Eq{"id": id}).
		Suffix(studentReturning))
}

// SearchByName finds students whose name contains the given text, ignoring case
func (r *StudentRepository) SearchByName(ctx context.Context, name string) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.selectStudentsQuery().
		Where(`s.name ILIKE ? ESCAPE '\'`, helpers.ContainsPattern(name)).
		OrderBy("s.id"))
}

// GetByDepartment retrieves students of exactly the given department
func (r *StudentRepository) GetByDepartment(ctx context.Context, department string) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.selectStudentsQuery().
		Where(squirrel.Eq{"s.department": department}).
		OrderBy("s.id"))
}

// GetByClassYear retrieves students of exactly the given class year
func (r *StudentRepository) GetByClassYear(ctx context.Context, classYear int) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.selectStudentsQuery().
		Where(squirrel.Eq{"s.class_year": classYear}).
		OrderBy("s.id"))
}

// The mark-based searches filter with EXISTS rather than a join, so a student
// with several qualifying marks is still returned once.

func (r *StudentRepository) withMarkWhere(ctx context.Context, condition string, args ...any) ([]*models.Student, error) {
	return r.queryStudents(ctx, r.selectStudentsQuery().
		Where("EXISTS (SELECT 1 FROM student_marks m WHERE m.student_id = s.id AND "+condition+")", args...).
		OrderBy("s.id"))
}

// GetByMarksRange retrieves students having at least one mark in [minMarks, maxMarks]
func (r *StudentRepository) GetByMarksRange(ctx context.Context, minMarks, maxMarks float64) ([]*models.Student, error) {
	return r.withMarkWhere(ctx, "m.marks BETWEEN ? AND ?", minMarks, maxMarks)
}

// GetWithMarkAbove retrieves students having at least one mark strictly above threshold
func (r *StudentRepository) GetWithMarkAbove(ctx context.Context, threshold float64) ([]*models.Student, error) {
	return r.withMarkWhere(ctx, "m.marks > ?", threshold)
}

// GetWithMarkBelow retrieves students having at least one mark strictly below threshold
func (r *StudentRepository) GetWithMarkBelow(ctx context.Context, threshold float64) ([]*models.Student, error) {
	return r.withMarkWhere(ctx, "m.marks < ?", threshold)
}

// CountByDepartmentAndClass counts students per (department, class year)
func (r *StudentRepository) CountByDepartmentAndClass(ctx context.Context) ([]models.DepartmentClassCount, error) {
	sql, args, err := psql.Select("department", "class_year", "COUNT(id)").
		From("students").
		GroupBy("department", "class_year").
		OrderBy("department", "class_year").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.DepartmentClassCount, 0)
	for rows.Next() {
		var c models.DepartmentClassCount
		if err := rows.Scan(&c.Department, &c.ClassYear, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByDepartment counts students per department
func (r *StudentRepository) CountByDepartment(ctx context.Context) ([]models.DepartmentCount, error) {
	sql, args, err := psql.Select("department", "COUNT(id)").
		From("students").
		GroupBy("department").
		OrderBy("department").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.DepartmentCount, 0)
	for rows.Next() {
		var c models.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByClassYear counts students per class year
func (r *StudentRepository) CountByClassYear(ctx context.Context) ([]models.ClassYearCount, error) {
	sql, args, err := psql.Select("class_year", "COUNT(id)").
		From("students").
		GroupBy("class_year").
		OrderBy("class_year").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.ClassYearCount, 0)
	for rows.Next() {
		var c models.ClassYearCount
		if err := rows.Scan(&c.ClassYear, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Count returns the total number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := psql.Select("COUNT(id)").From("students").ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return total, nil
}
