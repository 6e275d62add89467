package seeder

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"vacancy-board/internal/database/sqldb"

	"github.com/DATA-DOG/go-sqlmock"
)

func expectSkillColumns(mock sqlmock.Sqlmock, cols ...string) {
	rows := sqlmock.NewRows([]string{"column_name"})
	for _, c := range cols {
		rows.AddRow(c)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT column_name FROM information_schema.columns`)).
		WithArgs("skills").
		WillReturnRows(rows)
}

func TestSkillsSeeder_InsertsNames(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	expectSkillColumns(mock, "id", "name", "is_active")
	mock.ExpectBegin()
	for _, name := range []string{"Go", "SQL"} {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO skills (name, is_active)`)).
			WithArgs(name).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	r := Runner{Seeders: []Seeder{SkillsSeeder{Names: []string{"Go", "SQL"}}}}
	if err := r.Run(context.Background(), sqldb.New(sqlDB)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSkillsSeeder_SchemaMismatch(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	expectSkillColumns(mock, "id", "name")

	err = SkillsSeeder{}.Run(context.Background(), sqldb.New(sqlDB))
	if err == nil {
		t.Fatalf("expected schema mismatch error")
	}
}

func TestSkillsSeeder_RollsBackOnInsertError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	expectSkillColumns(mock, "id", "name", "is_active")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO skills`)).
		WithArgs("Go").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = SkillsSeeder{Names: []string{"Go"}}.Run(context.Background(), sqldb.New(sqlDB))
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
