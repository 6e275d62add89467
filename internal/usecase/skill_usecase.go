package usecase

import (
	"context"
	"errors"
	"strings"

	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/repository"

	"github.com/sirupsen/logrus"
)

type SkillInput struct {
	Name     *string
	IsActive *bool
}

type SkillPage struct {
	Items []skill.Skill
	Page  pagination.Page
}

type SkillUsecase interface {
	ListSkills(ctx context.Context, rawPage string) (SkillPage, error)
	GetSkill(ctx context.Context, id int64) (skill.Skill, error)
	CreateSkill(ctx context.Context, in SkillInput) (skill.Skill, error)
	UpdateSkill(ctx context.Context, id int64, in SkillInput, partial bool) (skill.Skill, error)
	DeleteSkill(ctx context.Context, id int64) error
}

type Skill struct {
	repo    repository.SkillRepository
	cache   SearchCache
	perPage int
	logger  logrus.FieldLogger
}

func NewSkillUsecase(repo repository.SkillRepository, cache SearchCache, perPage int, logger logrus.FieldLogger) *Skill {
	if perPage <= 0 {
		perPage = 10
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Skill{repo: repo, cache: cache, perPage: perPage, logger: logger.WithField("component", "skill")}
}

func (u *Skill) ListSkills(ctx context.Context, rawPage string) (SkillPage, error) {
	number, err := pagination.ParseNumber(rawPage)
	if err != nil {
		return SkillPage{}, ErrInvalidPage
	}

	count, err := u.repo.Count(ctx)
	if err != nil {
		u.logger.WithError(err).Error("count skills failed")
		return SkillPage{}, ErrInternal
	}
	page, err := pagination.Strict(number, count, u.perPage)
	if err != nil {
		return SkillPage{}, ErrInvalidPage
	}

	items, err := u.repo.List(ctx, u.perPage, page.Offset())
	if err != nil {
		u.logger.WithError(err).Error("list skills failed")
		return SkillPage{}, ErrInternal
	}
	return SkillPage{Items: items, Page: page}, nil
}

func (u *Skill) GetSkill(ctx context.Context, id int64) (skill.Skill, error) {
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return skill.Skill{}, u.mapRepoError(err)
	}
	return s, nil
}

func (u *Skill) CreateSkill(ctx context.Context, in SkillInput) (skill.Skill, error) {
	verr := &ValidationError{}
	name := validateSkillName(verr, in.Name, true)
	if err := verr.OrNil(); err != nil {
		return skill.Skill{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	created, err := u.repo.Create(ctx, name, active)
	if err != nil {
		return skill.Skill{}, u.mapRepoError(err)
	}
	u.invalidate(ctx)
	return created, nil
}

func (u *Skill) UpdateSkill(ctx context.Context, id int64, in SkillInput, partial bool) (skill.Skill, error) {
	verr := &ValidationError{}
	upd := repository.SkillUpdate{IsActive: in.IsActive}
	if in.Name != nil || !partial {
		name := validateSkillName(verr, in.Name, true)
		upd.Name = &name
	}
	if err := verr.OrNil(); err != nil {
		return skill.Skill{}, err
	}

	updated, err := u.repo.Update(ctx, id, upd)
	if err != nil {
		return skill.Skill{}, u.mapRepoError(err)
	}
	u.invalidate(ctx)
	return updated, nil
}

func (u *Skill) DeleteSkill(ctx context.Context, id int64) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return u.mapRepoError(err)
	}
	u.invalidate(ctx)
	return nil
}

// invalidate drops cached listings, which embed skill names.
func (u *Skill) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateVacancies(ctx); err != nil {
		u.logger.WithError(err).Warn("cache invalidation failed")
	}
}

func (u *Skill) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSkillNotFound):
		return &NotFoundError{Resource: "skill"}
	case errors.Is(err, repository.ErrSkillExists):
		verr := &ValidationError{}
		verr.Add("name", msgUniqueSkill)
		return verr
	default:
		u.logger.WithError(err).Error("skill storage error")
		return ErrInternal
	}
}

func validateSkillName(verr *ValidationError, raw *string, required bool) string {
	if raw == nil {
		if required {
			verr.Add("name", msgRequired)
		}
		return ""
	}
	name := skill.NormalizeName(*raw)
	switch {
	case strings.TrimSpace(name) == "":
		verr.Add("name", msgBlank)
	case !skill.ValidName(name):
		verr.Add("name", msgMaxLength(skill.MaxNameLength))
	}
	return name
}
