package repository

import (
	"context"

	"vacancy-board/internal/database"
	"vacancy-board/internal/domain/skill"

	sq "github.com/Masterminds/squirrel"
)

type SkillUpdate struct {
	Name     *string
	IsActive *bool
}

type SkillRepository interface {
	List(ctx context.Context, limit, offset int) ([]skill.Skill, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (skill.Skill, error)
	Create(ctx context.Context, name string, isActive bool) (skill.Skill, error)
	Update(ctx context.Context, id int64, in SkillUpdate) (skill.Skill, error)
	Delete(ctx context.Context, id int64) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) List(ctx context.Context, limit, offset int) ([]skill.Skill, error) {
	b := sq.Select("id", "name", "is_active").PlaceholderFormat(sq.Dollar).
		From(tSkills).
		OrderBy("id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) Count(ctx context.Context) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id int64) (skill.Skill, error) {
	var s skill.Skill
	err := r.db.QueryRow(ctx, `SELECT id, name, is_active FROM skills WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.IsActive)
	if err != nil {
		if database.IsNoRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Create(ctx context.Context, name string, isActive bool) (skill.Skill, error) {
	s := skill.Skill{Name: name, IsActive: isActive}
	err := r.db.QueryRow(ctx,
		`INSERT INTO skills (name, is_active) VALUES ($1, $2) RETURNING id`,
		name, isActive,
	).Scan(&s.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return skill.Skill{}, ErrSkillExists
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Update(ctx context.Context, id int64, in SkillUpdate) (skill.Skill, error) {
	set := map[string]any{}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := sq.Update(tSkills).PlaceholderFormat(sq.Dollar).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, is_active").
		ToSql()
	if err != nil {
		return skill.Skill{}, err
	}

	var s skill.Skill
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.IsActive); err != nil {
		switch {
		case database.IsNoRows(err):
			return skill.Skill{}, ErrSkillNotFound
		case database.IsUniqueViolation(err):
			return skill.Skill{}, ErrSkillExists
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSkillNotFound
	}
	return nil
}

// getOrCreateSkill resolves name case-insensitively, inserting it as active
// when missing. The upsert against the lower(name) unique index makes
// concurrent callers converge on one row.
func getOrCreateSkill(ctx context.Context, q database.Querier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx,
		`INSERT INTO skills (name, is_active) VALUES ($1, true)
		 ON CONFLICT ((lower(name))) DO UPDATE SET name = skills.name
		 RETURNING id`,
		name,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func findSkillByName(ctx context.Context, q database.Querier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM skills WHERE lower(name) = lower($1)`, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
