package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVacancies(t *testing.T, repo *fakeVacancyRepo) {
	t.Helper()
	uc := NewVacancyUsecase(repo, VacancyPolicies{}, nil)
	inputs := []CreateVacancyInput{
		createInput("Python developer", "py", "open", "A"),
		createInput("Go developer", "go", "open", "B"),
		createInput("Designer", "design", "open", "C"),
		createInput("Fullstack python", "full", "draft", "A", "B"),
	}
	for _, in := range inputs {
		_, err := uc.CreateVacancy(context.Background(), hrCaller, in)
		require.NoError(t, err)
	}
}

func ids(page VacancyPage) []int64 {
	out := make([]int64, 0, len(page.Items))
	for _, v := range page.Items {
		out = append(out, v.ID)
	}
	return out
}

func TestListVacancies_SkillTermsAreOred(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	uc := NewVacancyListUsecase(repo, nil, 10, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{Skills: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids(page))
	assert.Equal(t, 3, page.Page.Count)
}

func TestListVacancies_TextAndSkillsAreAnded(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	uc := NewVacancyListUsecase(repo, nil, 10, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{Text: "PYTHON", Skills: []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(page))
}

func TestListVacancies_WhitespaceTextFilters(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	uc := NewVacancyListUsecase(repo, newFakeCache(), 10, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{Text: " "})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids(page))

	page, err = uc.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
}

func TestVacancyListCacheKey_KeepsTextWhitespace(t *testing.T) {
	assert.NotEqual(t, VacancyListCacheKey(" ", nil, 1, 10), VacancyListCacheKey("", nil, 1, 10))
	assert.Equal(t, VacancyListCacheKey("Go", []string{"B", "a"}, 1, 10), VacancyListCacheKey("go", []string{"A", " b "}, 1, 10))
}

func TestListVacancies_EmptySkillListIsNoFilter(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	uc := NewVacancyListUsecase(repo, nil, 10, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{Skills: []string{}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)
}

func TestListVacancies_Pagination(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	uc := NewVacancyListUsecase(repo, nil, 3, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{Page: "2"})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(page))
	assert.Equal(t, 2, page.Page.NumPages)
	assert.True(t, page.Page.HasPrevious())
	assert.False(t, page.Page.HasNext())

	for _, raw := range []string{"3", "0", "abc"} {
		_, err := uc.ListVacancies(context.Background(), VacancyListParams{Page: raw})
		assert.ErrorIs(t, err, ErrInvalidPage, raw)
	}
}

func TestListVacancies_EmptySetHasOnePage(t *testing.T) {
	uc := NewVacancyListUsecase(newFakeVacancyRepo(), nil, 10, nil)

	page, err := uc.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page.NumPages)
	assert.Equal(t, 0, page.Page.Count)
}

func TestListVacancies_CachesPages(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	cache := newFakeCache()
	uc := NewVacancyListUsecase(repo, cache, 10, nil)

	first, err := uc.ListVacancies(context.Background(), VacancyListParams{Skills: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	calls := repo.listCalls

	second, err := uc.ListVacancies(context.Background(), VacancyListParams{Skills: []string{"b", "a"}})
	require.NoError(t, err)
	assert.Equal(t, calls, repo.listCalls)
	assert.Equal(t, ids(first), ids(second))
}

func TestListVacancies_InvalidationAfterWrite(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	cache := newFakeCache()
	list := NewVacancyListUsecase(repo, cache, 10, nil)
	vuc := NewVacancyUsecase(repo, VacancyPolicies{}, nil, WithVacancyCache(cache))

	_, err := list.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)

	require.NoError(t, vuc.DeleteVacancy(context.Background(), hrCaller, 1))

	page, err := list.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, ids(page))
}

func TestListVacancies_SkipsCacheWriteWhenLocked(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	cache := newFakeCache()
	cache.lockHeld = true
	uc := NewVacancyListUsecase(repo, cache, 10, nil)

	_, err := uc.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.sets)
}

func TestListVacancies_InvalidationDuringQuerySkipsCacheWrite(t *testing.T) {
	repo := newFakeVacancyRepo()
	seedVacancies(t, repo)
	cache := newFakeCache()
	cache.onGeneration = func() {
		_ = cache.InvalidateVacancies(context.Background())
	}
	uc := NewVacancyListUsecase(repo, cache, 10, nil)

	_, err := uc.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.sets)

	cache.onGeneration = nil
	_, err = uc.ListVacancies(context.Background(), VacancyListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestListVacancies_StorageError(t *testing.T) {
	repo := newFakeVacancyRepo()
	repo.err = errors.New("db down")
	uc := NewVacancyListUsecase(repo, nil, 10, nil)

	_, err := uc.ListVacancies(context.Background(), VacancyListParams{})
	assert.ErrorIs(t, err, ErrInternal)
}
