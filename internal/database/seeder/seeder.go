package seeder

import (
	"context"

	"vacancy-board/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
