package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"vacancy-board/internal/database/migrations"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
	"github.com/sirupsen/logrus"
)

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is swapped in tests.
var newMigrator = func(db *sql.DB, fsys fs.FS, opts ...goose.ProviderOption) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, fsys, opts...)
}

type Runner struct {
	FS  fs.FS
	Log logrus.FieldLogger
}

// Run applies all pending migrations. A postgres advisory lock held for the
// session serializes replicas that start together.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	fsys := r.FS
	if fsys == nil {
		fsys = migrations.FS
	}

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	opts := []goose.ProviderOption{goose.WithSessionLocker(locker)}
	if r.Log != nil {
		opts = append(opts, goose.WithLogger(gooseLogger{log: r.Log}))
	}

	m, err := newMigrator(db, fsys, opts...)
	if err != nil {
		return err
	}
	results, err := m.Up(ctx)
	if err != nil {
		return err
	}
	if r.Log != nil {
		for _, res := range results {
			r.Log.WithFields(logrus.Fields{
				"component": "migration",
				"version":   res.Source.Version,
				"duration":  res.Duration.String(),
			}).Info("migration applied")
		}
		r.Log.WithField("applied", len(results)).Info("migrations up to date")
	}
	return nil
}

type gooseLogger struct {
	log logrus.FieldLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.WithField("component", "migration").Errorf(format, v...)
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.WithField("component", "migration").Infof(format, v...)
}
