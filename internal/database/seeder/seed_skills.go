package seeder

import (
	"context"
	"fmt"

	"vacancy-board/internal/database"
)

// DefaultSkills are inserted by SkillsSeeder. Existing names are left as is.
var DefaultSkills = []string{
	"Go",
	"Python",
	"JavaScript",
	"TypeScript",
	"PostgreSQL",
	"Redis",
	"Docker",
	"Kubernetes",
	"Django",
	"React",
}

type SkillsSeeder struct {
	Names []string
}

func (SkillsSeeder) Name() string { return "skills" }

func (s SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "is_active"); err != nil {
		return err
	}

	names := s.Names
	if len(names) == 0 {
		names = DefaultSkills
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, name := range names {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (name, is_active) VALUES ($1, true) ON CONFLICT ((lower(name))) DO NOTHING`,
				name,
			)
			if err != nil {
				return fmt.Errorf("insert skill %q: %w", name, err)
			}
		}
		return nil
	})
}
