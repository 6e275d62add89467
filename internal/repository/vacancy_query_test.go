package repository

import (
	"testing"

	"vacancy-board/internal/domain/vacancy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
	assert.Equal(t, "%go%", containsPattern("go"))
}

func TestListVacanciesQuery_NoFilter(t *testing.T) {
	query, args, err := listVacanciesQuery(vacancy.NewFilter("", nil), 10, 0)
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "LEFT JOIN users u ON u.id = v.user_id")
	assert.Contains(t, query, "ORDER BY v.id ASC LIMIT 10")
	assert.Empty(t, args)
}

func TestListVacanciesQuery_TextAndSkills(t *testing.T) {
	f := vacancy.NewFilter("python", []string{"A", " ", "B"})
	query, args, err := listVacanciesQuery(f, 10, 20)
	require.NoError(t, err)

	assert.Contains(t, query, "v.text ILIKE $1")
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM vacancy_skills vs JOIN skills s ON s.id = vs.skill_id")
	assert.Contains(t, query, "(s.name ILIKE $2 OR s.name ILIKE $3)")
	assert.Contains(t, query, "OFFSET 20")
	assert.Equal(t, []any{"%python%", "%A%", "%B%"}, args)
}

func TestListVacanciesQuery_WhitespaceTextFilters(t *testing.T) {
	query, args, err := listVacanciesQuery(vacancy.NewFilter(" ", nil), 10, 0)
	require.NoError(t, err)
	assert.Contains(t, query, "v.text ILIKE $1")
	assert.Equal(t, []any{"% %"}, args)
}

func TestListVacanciesQuery_EscapesUserInput(t *testing.T) {
	query, args, err := listVacanciesQuery(vacancy.NewFilter("100%", nil), 10, 0)
	require.NoError(t, err)
	assert.NotContains(t, query, "100")
	assert.Equal(t, []any{`%100\%%`}, args)
}

func TestCountVacanciesQuery_SkillsOnly(t *testing.T) {
	query, args, err := countVacanciesQuery(vacancy.NewFilter("", []string{"go"}))
	require.NoError(t, err)
	assert.Contains(t, query, "SELECT COUNT(*) FROM vacancies v WHERE EXISTS")
	assert.NotContains(t, query, "LIMIT")
	assert.Equal(t, []any{"%go%"}, args)
}

func TestVacanciesByIDsQuery(t *testing.T) {
	query, args, err := vacanciesByIDsQuery([]int64{3, 1})
	require.NoError(t, err)
	assert.Contains(t, query, "v.id IN ($1,$2)")
	assert.Equal(t, []any{int64(3), int64(1)}, args)
}
