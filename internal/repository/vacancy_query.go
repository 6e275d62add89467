package repository

import (
	"strings"

	"vacancy-board/internal/domain/vacancy"

	sq "github.com/Masterminds/squirrel"
)

const (
	tVacancies     = "vacancies"
	tVacancySkills = "vacancy_skills"
	tSkills        = "skills"
)

var vacancyColumns = []string{
	"v.id",
	"v.text",
	"v.slug",
	"v.status",
	"v.created",
	"v.user_id",
	"u.username",
	"v.likes",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// filterConditions translates f into WHERE conditions over "vacancies v".
// Skill terms are OR-ed inside a single EXISTS so a vacancy matching
// several terms is still returned once.
func filterConditions(f vacancy.Filter) ([]sq.Sqlizer, error) {
	conds := make([]sq.Sqlizer, 0, 2)
	if f.HasText() {
		conds = append(conds, sq.ILike{"v.text": containsPattern(f.Text)})
	}
	if f.HasSkills() {
		anyOf := make(sq.Or, 0, len(f.SkillTerms))
		for _, term := range f.SkillTerms {
			anyOf = append(anyOf, sq.ILike{"s.name": containsPattern(term)})
		}
		sub, args, err := sq.Select("1").
			From(tVacancySkills + " vs").
			Join(tSkills + " s ON s.id = vs.skill_id").
			Where("vs.vacancy_id = v.id").
			Where(anyOf).
			ToSql()
		if err != nil {
			return nil, err
		}
		conds = append(conds, sq.Expr("EXISTS ("+sub+")", args...))
	}
	return conds, nil
}

func listVacanciesQuery(f vacancy.Filter, limit, offset int) (string, []any, error) {
	conds, err := filterConditions(f)
	if err != nil {
		return "", nil, err
	}
	b := sq.Select(vacancyColumns...).PlaceholderFormat(sq.Dollar).
		From(tVacancies + " v").
		LeftJoin("users u ON u.id = v.user_id")
	for _, c := range conds {
		b = b.Where(c)
	}
	b = b.OrderBy("v.id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b.ToSql()
}

func countVacanciesQuery(f vacancy.Filter) (string, []any, error) {
	conds, err := filterConditions(f)
	if err != nil {
		return "", nil, err
	}
	b := sq.Select("COUNT(*)").PlaceholderFormat(sq.Dollar).From(tVacancies + " v")
	for _, c := range conds {
		b = b.Where(c)
	}
	return b.ToSql()
}

func vacanciesByIDsQuery(ids []int64) (string, []any, error) {
	return sq.Select(vacancyColumns...).PlaceholderFormat(sq.Dollar).
		From(tVacancies + " v").
		LeftJoin("users u ON u.id = v.user_id").
		Where(sq.Eq{"v.id": ids}).
		OrderBy("v.id ASC").
		ToSql()
}

func skillsByVacancyIDsQuery(ids []int64) (string, []any, error) {
	return sq.Select("vs.vacancy_id", "s.name").PlaceholderFormat(sq.Dollar).
		From(tVacancySkills+" vs").
		Join(tSkills+" s ON s.id = vs.skill_id").
		Where(sq.Eq{"vs.vacancy_id": ids}).
		OrderBy("vs.vacancy_id ASC", "s.name ASC").
		ToSql()
}
