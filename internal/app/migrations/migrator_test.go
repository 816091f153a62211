package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
)

func newMockMigrator(t *testing.T) (*Migrator, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewMigrator(mock, zerolog.Nop()), mock
}

func TestMigrateAppliesPendingFilesInOrder(t *testing.T) {
	m, mock := newMockMigrator(t)

	fsys := fstest.MapFS{
		"sql/002_marks.sql": {Data: []byte("CREATE TABLE marks_v2 (id INT);")},
		"sql/001_init.sql":  {Data: []byte("CREATE TABLE students_v1 (id INT);")},
		"sql/README.md":     {Data: []byte("not a migration")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS public.schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	// 001 already applied
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	// 002 pending
	mock.ExpectQuery("SELECT EXISTS").WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE marks_v2").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO public.schema_migrations").WithArgs("002").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := m.Migrate(context.Background(), fsys, "sql"); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrateRollsBackFailedFile(t *testing.T) {
	m, mock := newMockMigrator(t)

	fsys := fstest.MapFS{
		"sql/001_broken.sql": {Data: []byte("CREATE TABLE broken (")},
	}
	boom := errors.New("syntax error at end of input")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS public.schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(boom)
	mock.ExpectRollback()

	err := m.Migrate(context.Background(), fsys, "sql")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped migration error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	content, err := Files.ReadFile("sql/001_init.sql")
	if err != nil {
		t.Fatalf("embedded init migration missing: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("embedded init migration is empty")
	}
}
