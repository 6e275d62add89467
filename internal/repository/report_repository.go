package repository

import (
	"context"

	"vacancy-board/internal/database"
)

type UserVacancyCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Vacancies int64  `json:"vacancies"`
}

type ReportRepository interface {
	CountUsers(ctx context.Context) (int, error)
	ListUserVacancyCounts(ctx context.Context, limit, offset int) ([]UserVacancyCount, error)
	// AverageVacancies is the mean vacancy count over all users, users
	// without vacancies included. Nil when there are no users.
	AverageVacancies(ctx context.Context) (*float64, error)
}

type PostgresReportRepository struct {
	db database.DB
}

func NewPostgresReportRepository(db database.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) CountUsers(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresReportRepository) ListUserVacancyCounts(ctx context.Context, limit, offset int) ([]UserVacancyCount, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.username, COUNT(v.id)
		 FROM users u
		 LEFT JOIN vacancies v ON v.user_id = u.id
		 GROUP BY u.id, u.username
		 ORDER BY u.id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserVacancyCount, 0)
	for rows.Next() {
		var it UserVacancyCount
		if err := rows.Scan(&it.ID, &it.Name, &it.Vacancies); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresReportRepository) AverageVacancies(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx,
		`SELECT AVG(t.cnt)::float8
		 FROM (
		   SELECT COUNT(v.id) AS cnt
		   FROM users u
		   LEFT JOIN vacancies v ON v.user_id = u.id
		   GROUP BY u.id
		 ) t`,
	).Scan(&avg)
	if err != nil {
		return nil, err
	}
	return avg, nil
}
