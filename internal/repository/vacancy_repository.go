package repository

import (
	"context"
	"time"

	"vacancy-board/internal/database"
	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/domain/vacancy"

	sq "github.com/Masterminds/squirrel"
)

type VacancyCreate struct {
	Text   string
	Slug   string
	Status vacancy.Status
	UserID int64
	Skills []string
}

// VacancyUpdate holds the fields to change. Nil fields are left untouched;
// Skills is applied only when SkillsSet is true.
type VacancyUpdate struct {
	Text      *string
	Slug      *string
	Status    *vacancy.Status
	Skills    []string
	SkillsSet bool

	UpdatePolicy skill.UpdatePolicy
	MergePolicy  skill.MergePolicy
}

type VacancyRepository interface {
	List(ctx context.Context, f vacancy.Filter, limit, offset int) ([]vacancy.Vacancy, error)
	Count(ctx context.Context, f vacancy.Filter) (int, error)
	GetByID(ctx context.Context, id int64) (vacancy.Vacancy, error)
	Create(ctx context.Context, in VacancyCreate) (vacancy.Vacancy, error)
	Update(ctx context.Context, id int64, in VacancyUpdate) (vacancy.Vacancy, error)
	Delete(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, ids []int64) ([]vacancy.Vacancy, error)
}

type PostgresVacancyRepository struct {
	db database.DB
}

func NewPostgresVacancyRepository(db database.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

func (r *PostgresVacancyRepository) List(ctx context.Context, f vacancy.Filter, limit, offset int) ([]vacancy.Vacancy, error) {
	query, args, err := listVacanciesQuery(f, limit, offset)
	if err != nil {
		return nil, err
	}
	out, err := scanVacancies(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}
	if err := attachSkills(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresVacancyRepository) Count(ctx context.Context, f vacancy.Filter) (int, error) {
	query, args, err := countVacanciesQuery(f)
	if err != nil {
		return 0, err
	}
	var c int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresVacancyRepository) GetByID(ctx context.Context, id int64) (vacancy.Vacancy, error) {
	return loadVacancy(ctx, r.db, id)
}

func (r *PostgresVacancyRepository) Create(ctx context.Context, in VacancyCreate) (vacancy.Vacancy, error) {
	var out vacancy.Vacancy
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO vacancies (text, slug, status, user_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			in.Text, in.Slug, string(in.Status), in.UserID,
		).Scan(&id)
		if err != nil {
			return err
		}

		for _, name := range skill.UniqueNames(in.Skills) {
			skillID, err := getOrCreateSkill(ctx, tx, name)
			if err != nil {
				return err
			}
			if err := attachSkill(ctx, tx, id, skillID); err != nil {
				return err
			}
		}

		out, err = loadVacancy(ctx, tx, id)
		return err
	})
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	return out, nil
}

// Update applies in atomically: a skill that cannot be resolved under the
// strict policy rolls back the field changes as well.
func (r *PostgresVacancyRepository) Update(ctx context.Context, id int64, in VacancyUpdate) (vacancy.Vacancy, error) {
	var out vacancy.Vacancy
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM vacancies WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if err != nil {
			if database.IsNoRows(err) {
				return ErrVacancyNotFound
			}
			return err
		}

		set := map[string]any{}
		if in.Text != nil {
			set["text"] = *in.Text
		}
		if in.Slug != nil {
			set["slug"] = *in.Slug
		}
		if in.Status != nil {
			set["status"] = string(*in.Status)
		}
		if len(set) > 0 {
			query, args, err := sq.Update(tVacancies).PlaceholderFormat(sq.Dollar).
				SetMap(set).
				Where(sq.Eq{"id": id}).
				ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return err
			}
		}

		if in.SkillsSet {
			if err := applySkills(ctx, tx, id, in); err != nil {
				return err
			}
		}

		out, err = loadVacancy(ctx, tx, id)
		return err
	})
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	return out, nil
}

func (r *PostgresVacancyRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVacancyNotFound
	}
	return nil
}

// IncrementLikes bumps every existing id once in a single statement and
// returns the affected vacancies ordered by id. Unknown ids are skipped.
func (r *PostgresVacancyRepository) IncrementLikes(ctx context.Context, ids []int64) ([]vacancy.Vacancy, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []vacancy.Vacancy{}, nil
	}

	query, args, err := sq.Update(tVacancies).PlaceholderFormat(sq.Dollar).
		Set("likes", sq.Expr("likes + 1")).
		Where(sq.Eq{"id": ids}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected := make([]int64, 0, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		affected = append(affected, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(affected) == 0 {
		return []vacancy.Vacancy{}, nil
	}

	query, args, err = vacanciesByIDsQuery(affected)
	if err != nil {
		return nil, err
	}
	out, err := scanVacancies(ctx, r.db, query, args...)
	if err != nil {
		return nil, err
	}
	if err := attachSkills(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

func applySkills(ctx context.Context, q database.Querier, vacancyID int64, in VacancyUpdate) error {
	names := skill.UniqueNames(in.Skills)
	skillIDs := make([]int64, 0, len(names))
	for _, name := range names {
		var (
			id  int64
			err error
		)
		if in.UpdatePolicy == skill.UpdateStrict {
			id, err = findSkillByName(ctx, q, name)
			if database.IsNoRows(err) {
				return &UnknownSkillError{Name: name}
			}
		} else {
			id, err = getOrCreateSkill(ctx, q, name)
		}
		if err != nil {
			return err
		}
		skillIDs = append(skillIDs, id)
	}

	if in.MergePolicy == skill.MergeReplace {
		query, args, err := sq.Delete(tVacancySkills).PlaceholderFormat(sq.Dollar).
			Where(sq.Eq{"vacancy_id": vacancyID}).
			Where(sq.NotEq{"skill_id": skillIDs}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return err
		}
	}

	for _, id := range skillIDs {
		if err := attachSkill(ctx, q, vacancyID, id); err != nil {
			return err
		}
	}
	return nil
}

func attachSkill(ctx context.Context, q database.Querier, vacancyID, skillID int64) error {
	_, err := q.Exec(ctx,
		`INSERT INTO vacancy_skills (vacancy_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		vacancyID, skillID,
	)
	return err
}

func loadVacancy(ctx context.Context, q database.Querier, id int64) (vacancy.Vacancy, error) {
	query, args, err := vacanciesByIDsQuery([]int64{id})
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	out, err := scanVacancies(ctx, q, query, args...)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	if len(out) == 0 {
		return vacancy.Vacancy{}, ErrVacancyNotFound
	}
	if err := attachSkills(ctx, q, out); err != nil {
		return vacancy.Vacancy{}, err
	}
	return out[0], nil
}

func scanVacancies(ctx context.Context, q database.Querier, query string, args ...any) ([]vacancy.Vacancy, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vacancy.Vacancy, 0)
	for rows.Next() {
		var (
			v       vacancy.Vacancy
			status  string
			created time.Time
		)
		if err := rows.Scan(&v.ID, &v.Text, &v.Slug, &status, &created, &v.UserID, &v.Username, &v.Likes); err != nil {
			return nil, err
		}
		v.Status = vacancy.Status(status)
		v.Created = created
		v.Skills = []string{}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// attachSkills loads the skill names of every vacancy in vs with one query.
func attachSkills(ctx context.Context, q database.Querier, vs []vacancy.Vacancy) error {
	if len(vs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(vs))
	idx := make(map[int64]int, len(vs))
	for i, v := range vs {
		ids = append(ids, v.ID)
		idx[v.ID] = i
	}

	query, args, err := skillsByVacancyIDsQuery(ids)
	if err != nil {
		return err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			vacancyID int64
			name      string
		)
		if err := rows.Scan(&vacancyID, &name); err != nil {
			return err
		}
		if i, ok := idx[vacancyID]; ok {
			vs[i].Skills = append(vs[i].Skills, name)
		}
	}
	return rows.Err()
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
