package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSkillRepo struct {
	nextID int64
	items  map[int64]skill.Skill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{items: map[int64]skill.Skill{}}
}

func (r *fakeSkillRepo) sorted() []skill.Skill {
	out := make([]skill.Skill, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeSkillRepo) List(_ context.Context, limit, offset int) ([]skill.Skill, error) {
	all := r.sorted()
	if offset >= len(all) {
		return []skill.Skill{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeSkillRepo) Count(context.Context) (int, error) { return len(r.items), nil }

func (r *fakeSkillRepo) GetByID(_ context.Context, id int64) (skill.Skill, error) {
	s, ok := r.items[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (r *fakeSkillRepo) taken(name string, except int64) bool {
	for id, s := range r.items {
		if id != except && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (r *fakeSkillRepo) Create(_ context.Context, name string, isActive bool) (skill.Skill, error) {
	if r.taken(name, 0) {
		return skill.Skill{}, repository.ErrSkillExists
	}
	r.nextID++
	s := skill.Skill{ID: r.nextID, Name: name, IsActive: isActive}
	r.items[s.ID] = s
	return s, nil
}

func (r *fakeSkillRepo) Update(_ context.Context, id int64, in repository.SkillUpdate) (skill.Skill, error) {
	s, ok := r.items[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	if in.Name != nil {
		if r.taken(*in.Name, id) {
			return skill.Skill{}, repository.ErrSkillExists
		}
		s.Name = *in.Name
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	r.items[id] = s
	return s, nil
}

func (r *fakeSkillRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return repository.ErrSkillNotFound
	}
	delete(r.items, id)
	return nil
}

func TestSkillUsecase_CreateDefaultsActive(t *testing.T) {
	cache := newFakeCache()
	uc := NewSkillUsecase(newFakeSkillRepo(), cache, 10, nil)

	s, err := uc.CreateSkill(context.Background(), SkillInput{Name: strPtr(" Go ")})
	require.NoError(t, err)
	assert.Equal(t, "Go", s.Name)
	assert.True(t, s.IsActive)
	assert.Equal(t, 1, cache.invalidated)
}

func TestSkillUsecase_CreateDuplicateIsValidationError(t *testing.T) {
	uc := NewSkillUsecase(newFakeSkillRepo(), nil, 10, nil)

	_, err := uc.CreateSkill(context.Background(), SkillInput{Name: strPtr("Go")})
	require.NoError(t, err)

	_, err = uc.CreateSkill(context.Background(), SkillInput{Name: strPtr("GO")})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{msgUniqueSkill}, verr.Fields["name"])
}

func TestSkillUsecase_CreateRequiresName(t *testing.T) {
	uc := NewSkillUsecase(newFakeSkillRepo(), nil, 10, nil)

	_, err := uc.CreateSkill(context.Background(), SkillInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.CreateSkill(context.Background(), SkillInput{Name: strPtr(strings.Repeat("x", skill.MaxNameLength+1))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSkillUsecase_UpdateAndDelete(t *testing.T) {
	uc := NewSkillUsecase(newFakeSkillRepo(), nil, 10, nil)

	s, err := uc.CreateSkill(context.Background(), SkillInput{Name: strPtr("Go")})
	require.NoError(t, err)

	inactive := false
	updated, err := uc.UpdateSkill(context.Background(), s.ID, SkillInput{IsActive: &inactive}, true)
	require.NoError(t, err)
	assert.Equal(t, "Go", updated.Name)
	assert.False(t, updated.IsActive)

	_, err = uc.UpdateSkill(context.Background(), s.ID, SkillInput{IsActive: &inactive}, false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, uc.DeleteSkill(context.Background(), s.ID))
	assert.ErrorIs(t, uc.DeleteSkill(context.Background(), s.ID), ErrNotFound)

	_, err = uc.GetSkill(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSkillUsecase_ListPages(t *testing.T) {
	uc := NewSkillUsecase(newFakeSkillRepo(), nil, 2, nil)
	for _, n := range []string{"a", "b", "c"} {
		_, err := uc.CreateSkill(context.Background(), SkillInput{Name: strPtr(n)})
		require.NoError(t, err)
	}

	page, err := uc.ListSkills(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Name)

	_, err = uc.ListSkills(context.Background(), "3")
	assert.ErrorIs(t, err, ErrInvalidPage)
}
