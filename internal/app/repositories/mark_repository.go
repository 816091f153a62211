package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/app/models"
)

const markReturning = "RETURNING id, student_id, subject, marks, semester"

// MarkRepository handles database operations for student marks
type MarkRepository struct {
	db Querier
}

// NewMarkRepository creates a new mark repository
func NewMarkRepository(db Querier) *MarkRepository {
	return &MarkRepository{
		db: db,
	}
}

func (r *MarkRepository) selectMarksQuery() squirrel.SelectBuilder {
	return psql.Select("id", "student_id", "subject", "marks", "semester").
		From("student_marks")
}

func scanMark(row rowScanner) (*models.Mark, error) {
	var mark models.Mark
	if err := row.Scan(
		&mark.ID,
		&mark.StudentID,
		&mark.Subject,
		&mark.Score,
		&mark.Semester,
	); err != nil {
		return nil, err
	}
	return &mark, nil
}

func (r *MarkRepository) queryMarks(ctx context.Context, builder squirrel.Sqlizer) ([]*models.Mark, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building marks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := make([]*models.Mark, 0)
	for rows.Next() {
		mark, err := scanMark(rows)
		if err != nil {
			return nil, err
		}
		marks = append(marks, mark)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *MarkRepository) queryOptionalMark(ctx context.Context, builder squirrel.Sqlizer) (*models.Mark, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building mark query: %w", err)
	}

	mark, err := scanMark(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mark, nil
}

// Create records a mark for a student and returns it with its assigned ID.
// An unknown student_id fails with the foreign key violation from Postgres.
func (r *MarkRepository) Create(ctx context.Context, input *models.NewMark) (*models.Mark, error) {
	sql, args, err := psql.Insert("student_marks").
		Columns("student_id", "subject", "marks", "semester").
		Values(input.StudentID, input.Subject, input.Score, input.Semester).
		Suffix(markReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building create mark SQL: %w", err)
	}

	return scanMark(r.db.QueryRow(ctx, sql, args...))
}

// GetByID retrieves a mark by ID, or nil when none exists
func (r *MarkRepository) GetByID(ctx context.Context, id int64) (*models.Mark, error) {
	mark, err := r.queryOptionalMark(ctx, r.selectMarksQuery().Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, fmt.Errorf("error retrieving mark: %w", err)
	}
	return mark, nil
}

// Update applies already-validated column values to a mark.
// Returns nil when the mark does not exist.
func (r *MarkRepository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Mark, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	builder := psql.Update("student_marks")
	for _, column := range models.MarkColumns {
		if value, ok := fields[column]; ok {
			builder = builder.Set(column, value)
		}
	}

	return r.queryOptionalMark(ctx, builder.
		Where(squirrel.Eq{"id": id}).
		Suffix(markReturning))
}

// GetByStudentID retrieves every mark owned by a student
func (r *MarkRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Mark, error) {
	return r.queryMarks(ctx, r.selectMarksQuery().
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("id"))
}

// GetAll retrieves every mark, grouped by owning student
func (r *MarkRepository) GetAll(ctx context.Context) ([]*models.Mark, error) {
	return r.queryMarks(ctx, r.selectMarksQuery().OrderBy("student_id", "id"))
}
