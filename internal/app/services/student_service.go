package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

// StudentRecordService is the record service consumed by the REST controllers
// and the MCP tools. Lookups return a nil record, not an error, when nothing matches.
type StudentRecordService interface {
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentStatistics(ctx context.Context) (*models.StudentStatistics, error)
	CreateStudent(ctx context.Context, input *models.NewStudent) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, data map[string]any) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) (*models.Student, error)
	AddMarks(ctx context.Context, input *models.NewMark) (*models.Mark, error)
	UpdateMarks(ctx context.Context, id int64, data map[string]any) (*models.Mark, error)
	SearchStudentsByName(ctx context.Context, name string) ([]*models.Student, error)
	SearchStudentsByDepartment(ctx context.Context, department string) ([]*models.Student, error)
	SearchStudentsByClass(ctx context.Context, classYear int) ([]*models.Student, error)
	SearchStudentsByMarksRange(ctx context.Context, minMarks, maxMarks float64) ([]*models.Student, error)
	GetStudentMarks(ctx context.Context, studentID int64) ([]*models.Mark, error)
	GetStudentsAboveMarks(ctx context.Context, threshold float64) ([]*models.Student, error)
	GetStudentsBelowMarks(ctx context.Context, threshold float64) ([]*models.Student, error)
	GetRoster(ctx context.Context) (*models.Roster, error)
}

// UnitOfWork hands out one transaction-scoped session per call.
// *db.PostgresDB implements it.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
	WithReadOnlyTransaction(ctx context.Context, fn db.TransactionFn) error
}

// StudentService maps student and mark operations onto repository calls.
// It keeps no state between calls: every operation opens its own unit of work.
type StudentService struct {
	uow    UnitOfWork
	logger zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(uow UnitOfWork, lgr zerolog.Logger) *StudentService {
	return &StudentService{
		uow:    uow,
		logger: lgr.With().Str("component", "student_service").Logger(),
	}
}

type repoFn func(ctx context.Context, repos *repositories.Repositories) error

// read runs fn inside a read-only transaction
func (s *StudentService) read(ctx context.Context, fn repoFn) error {
	return s.uow.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, repositories.NewRepositories(tx))
	})
}

// write runs fn inside a read-write transaction. The transaction is already
// rolled back when an error comes out of here.
func (s *StudentService) write(ctx context.Context, operation string, fn repoFn) error {
	err := s.uow.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, repositories.NewRepositories(tx))
	})
	if err != nil {
		err = dberrors.Translate(err)
		s.logger.Warn().Err(err).Str("operation", operation).Msg("Write rolled back")
	}
	return err
}

// GetAllStudents retrieves all students
func (s *StudentService) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		students, err = repos.StudentRepository.GetAll(ctx)
		return err
	})
	return students, err
}

// GetStudentStatistics counts students by (department, class year), by department,
// by class year, and in total. All four queries share one snapshot.
func (s *StudentService) GetStudentStatistics(ctx context.Context) (*models.StudentStatistics, error) {
	stats := &models.StudentStatistics{}
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if stats.ByDepartmentAndClass, err = repos.StudentRepository.CountByDepartmentAndClass(ctx); err != nil {
			return fmt.Errorf("error counting by department and class: %w", err)
		}
		if stats.ByDepartment, err = repos.StudentRepository.CountByDepartment(ctx); err != nil {
			return fmt.Errorf("error counting by department: %w", err)
		}
		if stats.ByClassYear, err = repos.StudentRepository.CountByClassYear(ctx); err != nil {
			return fmt.Errorf("error counting by class year: %w", err)
		}
		stats.TotalStudents, err = repos.StudentRepository.Count(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CreateStudent creates a new student
func (s *StudentService) CreateStudent(ctx context.Context, input *models.NewStudent) (*models.Student, error) {
	var student *models.Student
	err := s.write(ctx, "create_student", func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		student, err = repos.StudentRepository.Create(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("rollNumber", student.RollNumber).Msg("Student created")
	return student, nil
}

// GetStudent retrieves a student by ID; nil when absent
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	var student *models.Student
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		student, err = repos.StudentRepository.GetByID(ctx, id)
		return err
	})
	return student, err
}

// UpdateStudent changes the given fields of a student; nil when absent.
// Unknown or mistyped fields fail with apperrors.ErrInvalidField before anything is written.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, data map[string]any) (*models.Student, error) {
	fields, err := coerceFields(models.StudentUpdatableFields, data)
	if err != nil {
		return nil, err
	}

	var student *models.Student
	err = s.write(ctx, "update_student", func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		student, err = repos.StudentRepository.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	if student != nil {
		s.logger.Info().Int64("studentID", id).Int("fields", len(fields)).Msg("Student updated")
	}
	return student, nil
}

// DeleteStudent removes a student together with its marks and returns the removed
// record; nil when absent.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) (*models.Student, error) {
	var student *models.Student
	err := s.write(ctx, "delete_student", func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		student, err = repos.StudentRepository.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if student != nil {
		s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	}
	return student, nil
}

// AddMarks records a mark for a student
func (s *StudentService) AddMarks(ctx context.Context, input *models.NewMark) (*models.Mark, error) {
	var mark *models.Mark
	err := s.write(ctx, "add_marks", func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		mark, err = repos.MarkRepository.Create(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("markID", mark.ID).Int64("studentID", mark.StudentID).Msg("Mark added")
	return mark, nil
}

// UpdateMarks changes the given fields of a mark; nil when absent
func (s *StudentService) UpdateMarks(ctx context.Context, id int64, data map[string]any) (*models.Mark, error) {
	fields, err := coerceFields(models.MarkUpdatableFields, data)
	if err != nil {
		return nil, err
	}

	var mark *models.Mark
	err = s.write(ctx, "update_marks", func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		mark, err = repos.MarkRepository.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return nil, err
	}

	if mark != nil {
		s.logger.Info().Int64("markID", id).Int("fields", len(fields)).Msg("Mark updated")
	}
	return mark, nil
}

// SearchStudentsByName finds students whose name contains name, case-insensitively
func (s *StudentService) SearchStudentsByName(ctx context.Context, name string) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.SearchByName(ctx, name)
	})
}

// SearchStudentsByDepartment finds students of exactly this department
func (s *StudentService) SearchStudentsByDepartment(ctx context.Context, department string) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.GetByDepartment(ctx, department)
	})
}

// SearchStudentsByClass finds students of exactly this class year
func (s *StudentService) SearchStudentsByClass(ctx context.Context, classYear int) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.GetByClassYear(ctx, classYear)
	})
}

// SearchStudentsByMarksRange finds students with at least one mark in [minMarks, maxMarks].
// Each student appears once.
func (s *StudentService) SearchStudentsByMarksRange(ctx context.Context, minMarks, maxMarks float64) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.GetByMarksRange(ctx, minMarks, maxMarks)
	})
}

// GetStudentsAboveMarks finds students with at least one mark strictly above threshold
func (s *StudentService) GetStudentsAboveMarks(ctx context.Context, threshold float64) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.GetWithMarkAbove(ctx, threshold)
	})
}

// GetStudentsBelowMarks finds students with at least one mark strictly below threshold
func (s *StudentService) GetStudentsBelowMarks(ctx context.Context, threshold float64) ([]*models.Student, error) {
	return s.readStudents(ctx, func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error) {
		return r.GetWithMarkBelow(ctx, threshold)
	})
}

// GetStudentMarks lists the marks owned by a student
func (s *StudentService) GetStudentMarks(ctx context.Context, studentID int64) ([]*models.Mark, error) {
	var marks []*models.Mark
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		marks, err = repos.MarkRepository.GetByStudentID(ctx, studentID)
		return err
	})
	return marks, err
}

// GetRoster reads all students and all marks in one read-only transaction,
// so every mark in the result belongs to a listed student.
func (s *StudentService) GetRoster(ctx context.Context) (*models.Roster, error) {
	roster := &models.Roster{}
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		if roster.Students, err = repos.StudentRepository.GetAll(ctx); err != nil {
			return err
		}
		roster.Marks, err = repos.MarkRepository.GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *StudentService) readStudents(
	ctx context.Context,
	query func(ctx context.Context, r *repositories.StudentRepository) ([]*models.Student, error),
) ([]*models.Student, error) {
	var students []*models.Student
	err := s.read(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		students, err = query(ctx, repos.StudentRepository)
		return err
	})
	return students, err
}
