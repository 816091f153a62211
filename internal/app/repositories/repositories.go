package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builds statements with Postgres $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so a repository can run
// either directly on the pool or inside a unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// rowScanner is implemented by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// Repositories holds all the repository instances bound to one Querier
type Repositories struct {
	StudentRepository *StudentRepository
	MarkRepository    *MarkRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db Querier) *Repositories {
	return &Repositories{
		StudentRepository: NewStudentRepository(db),
		MarkRepository:    NewMarkRepository(db),
	}
}
