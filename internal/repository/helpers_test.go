package repository

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"vacancy-board/internal/database/sqldb"

	"github.com/DATA-DOG/go-sqlmock"
)

var vacancyRowColumns = []string{"id", "text", "slug", "status", "created", "user_id", "username", "likes"}

var testDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqldb.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return sqldb.New(db), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// fullSQL anchors a whole statement. sqlmock collapses whitespace in both the
// expected pattern and the executed query before matching.
func fullSQL(q string) string {
	return "^" + regexp.QuoteMeta(strings.Join(strings.Fields(q), " ")) + "$"
}

const skillUpsertSQL = `INSERT INTO skills (name, is_active) VALUES ($1, true)
	ON CONFLICT ((lower(name))) DO UPDATE SET name = skills.name
	RETURNING id`
