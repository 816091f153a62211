package dberrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PostgreSQL SQLSTATE codes for integrity constraint violations
const (
	CodeNotNullViolation    = "23502"
	CodeForeignKeyViolation = "23503"
	CodeUniqueViolation     = "23505"
	CodeCheckViolation      = "23514"
)

// IsConstraintViolation reports whether err is any integrity constraint failure (class 23).
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23")
}

// Translate converts integrity constraint failures into apperrors.ErrConstraintViolation
// with a readable message. Any other error is returned unchanged.
func Translate(err error) error {
	if !IsConstraintViolation(err) {
		return err
	}
	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)

	entity := entityName(pgErr.TableName)
	column := columnFromConstraint(pgErr.ConstraintName, pgErr.ColumnName)

	var message string
	switch pgErr.Code {
	case CodeUniqueViolation:
		if column != "" {
			message = fmt.Sprintf("A %s with this %s already exists", entity, humanize(column))
		} else {
			message = fmt.Sprintf("A %s with these values already exists", entity)
		}
	case CodeForeignKeyViolation:
		referenced := "record"
		if strings.HasSuffix(column, "_id") {
			referenced = humanize(strings.TrimSuffix(column, "_id"))
		}
		message = fmt.Sprintf("The referenced %s does not exist", referenced)
	case CodeNotNullViolation:
		message = fmt.Sprintf("The %s is required", humanize(column))
	default:
		message = fmt.Sprintf("The %s does not meet required conditions", entity)
	}

	return apperrors.NewConstraintViolationError(message).
		WithCode(pgErr.Code).
		WithDetails(map[string]interface{}{
			"constraint": pgErr.ConstraintName,
			"table":      pgErr.TableName,
		})
}

// entityName turns a table name such as "student_marks" into "Student Mark"
func entityName(table string) string {
	if table == "" {
		return "record"
	}
	if strings.HasSuffix(table, "s") && len(table) > 1 {
		table = table[:len(table)-1]
	}
	return humanize(table)
}

// columnFromConstraint recovers the column from Postgres' default constraint names:
// students_email_key, student_marks_student_id_fkey.
func columnFromConstraint(constraint, column string) string {
	if column != "" {
		return column
	}
	for _, suffix := range []string{"_key", "_fkey"} {
		if !strings.HasSuffix(constraint, suffix) {
			continue
		}
		trimmed := strings.TrimSuffix(constraint, suffix)
		for _, table := range []string{"student_marks_", "students_"} {
			if strings.HasPrefix(trimmed, table) {
				return strings.TrimPrefix(trimmed, table)
			}
		}
	}
	return ""
}

func humanize(text string) string {
	if text == "" {
		return "field"
	}
	return cases.Lower(language.English).String(strings.ReplaceAll(text, "_", " "))
}
