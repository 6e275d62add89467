package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/domain/vacancy"
	"vacancy-board/internal/repository"

	"github.com/sirupsen/logrus"
)

// CreateVacancyInput fields are nil when absent from the request.
type CreateVacancyInput struct {
	Text   *string
	Slug   *string
	Status *string
	Skills []string
}

// UpdateVacancyInput carries only the fields present in the request.
// Owner and creation date are not part of it.
type UpdateVacancyInput struct {
	Text      *string
	Slug      *string
	Status    *string
	Skills    []string
	SkillsSet bool
}

type VacancyPolicies struct {
	SkillUpdate skill.UpdatePolicy
	SkillMerge  skill.MergePolicy
}

type VacancyUsecase interface {
	GetVacancy(ctx context.Context, id int64) (vacancy.Vacancy, error)
	CreateVacancy(ctx context.Context, caller Caller, in CreateVacancyInput) (vacancy.Vacancy, error)
	UpdateVacancy(ctx context.Context, caller Caller, id int64, in UpdateVacancyInput, partial bool) (vacancy.Vacancy, error)
	DeleteVacancy(ctx context.Context, caller Caller, id int64) error
	LikeVacancies(ctx context.Context, caller Caller, ids []int64) ([]vacancy.Vacancy, error)
}

type Vacancy struct {
	vacancies repository.VacancyRepository
	policies  VacancyPolicies
	cache     SearchCache
	events    VacancyEventPublisher
	metrics   VacancyMetrics
	logger    logrus.FieldLogger
}

type VacancyOption func(*Vacancy)

func WithVacancyCache(c SearchCache) VacancyOption {
	return func(u *Vacancy) { u.cache = c }
}

func WithVacancyEvents(p VacancyEventPublisher) VacancyOption {
	return func(u *Vacancy) { u.events = p }
}

func WithVacancyMetrics(m VacancyMetrics) VacancyOption {
	return func(u *Vacancy) { u.metrics = m }
}

func NewVacancyUsecase(vacancies repository.VacancyRepository, policies VacancyPolicies, logger logrus.FieldLogger, opts ...VacancyOption) *Vacancy {
	if policies.SkillUpdate == "" {
		policies.SkillUpdate = skill.UpdateGetOrCreate
	}
	if policies.SkillMerge == "" {
		policies.SkillMerge = skill.MergeAdditive
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	u := &Vacancy{
		vacancies: vacancies,
		policies:  policies,
		logger:    logger.WithField("component", "vacancy"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Vacancy) GetVacancy(ctx context.Context, id int64) (vacancy.Vacancy, error) {
	v, err := u.vacancies.GetByID(ctx, id)
	if err != nil {
		return vacancy.Vacancy{}, u.mapRepoError(err, id)
	}
	return v, nil
}

func (u *Vacancy) CreateVacancy(ctx context.Context, caller Caller, in CreateVacancyInput) (vacancy.Vacancy, error) {
	if !caller.Authenticated() {
		return vacancy.Vacancy{}, ErrUnauthorized
	}
	if !caller.Role.CanCreateVacancy() {
		return vacancy.Vacancy{}, ErrForbidden
	}

	verr := &ValidationError{}
	text := validateText(verr, in.Text, true)
	slug := validateSlug(verr, in.Slug, true)
	status := validateStatus(verr, in.Status)
	skills := validateSkillNames(verr, in.Skills)
	if err := verr.OrNil(); err != nil {
		return vacancy.Vacancy{}, err
	}

	created, err := u.vacancies.Create(ctx, repository.VacancyCreate{
		Text:   text,
		Slug:   slug,
		Status: status,
		UserID: caller.UserID,
		Skills: skills,
	})
	if err != nil {
		u.logger.WithError(err).Error("create vacancy failed")
		return vacancy.Vacancy{}, ErrInternal
	}

	if u.metrics != nil {
		u.metrics.VacancyCreated()
	}
	u.changed(ctx, EventCreated, created.ID)
	return created, nil
}

// UpdateVacancy applies in to the vacancy. With partial unset (full
// replacement) text and slug must be present.
func (u *Vacancy) UpdateVacancy(ctx context.Context, caller Caller, id int64, in UpdateVacancyInput, partial bool) (vacancy.Vacancy, error) {
	if !caller.Authenticated() {
		return vacancy.Vacancy{}, ErrUnauthorized
	}
	if _, err := u.vacancies.GetByID(ctx, id); err != nil {
		return vacancy.Vacancy{}, u.mapRepoError(err, id)
	}

	verr := &ValidationError{}
	upd := repository.VacancyUpdate{
		UpdatePolicy: u.policies.SkillUpdate,
		MergePolicy:  u.policies.SkillMerge,
	}
	if in.Text != nil || !partial {
		t := validateText(verr, in.Text, true)
		upd.Text = &t
	}
	if in.Slug != nil || !partial {
		s := validateSlug(verr, in.Slug, true)
		upd.Slug = &s
	}
	if in.Status != nil {
		st := validateStatus(verr, in.Status)
		upd.Status = &st
	}
	if in.SkillsSet {
		upd.Skills = validateSkillNames(verr, in.Skills)
		upd.SkillsSet = true
	}
	if err := verr.OrNil(); err != nil {
		return vacancy.Vacancy{}, err
	}

	updated, err := u.vacancies.Update(ctx, id, upd)
	if err != nil {
		return vacancy.Vacancy{}, u.mapRepoError(err, id)
	}

	u.changed(ctx, EventUpdated, id)
	return updated, nil
}

func (u *Vacancy) DeleteVacancy(ctx context.Context, caller Caller, id int64) error {
	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	if err := u.vacancies.Delete(ctx, id); err != nil {
		return u.mapRepoError(err, id)
	}
	u.changed(ctx, EventDeleted, id)
	return nil
}

// LikeVacancies increments the like counter of every existing id once and
// returns those vacancies. Unknown ids are ignored.
func (u *Vacancy) LikeVacancies(ctx context.Context, caller Caller, ids []int64) ([]vacancy.Vacancy, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthorized
	}
	liked, err := u.vacancies.IncrementLikes(ctx, ids)
	if err != nil {
		u.logger.WithError(err).Error("like vacancies failed")
		return nil, ErrInternal
	}
	if len(liked) == 0 {
		return liked, nil
	}

	if u.metrics != nil {
		u.metrics.VacanciesLiked(len(liked))
	}
	affected := make([]int64, 0, len(liked))
	for _, v := range liked {
		affected = append(affected, v.ID)
	}
	u.changed(ctx, EventLiked, affected...)
	return liked, nil
}

func (u *Vacancy) changed(ctx context.Context, action string, ids ...int64) {
	if u.cache != nil {
		if err := u.cache.InvalidateVacancies(ctx); err != nil {
			u.logger.WithError(err).Warn("cache invalidation failed")
		}
	}
	if u.events != nil {
		u.events.PublishVacancyEvent(action, ids)
	}
}

func (u *Vacancy) mapRepoError(err error, id int64) error {
	var unknown *repository.UnknownSkillError
	switch {
	case errors.As(err, &unknown):
		return &NotFoundError{Resource: "skill", Key: unknown.Name}
	case errors.Is(err, repository.ErrVacancyNotFound):
		return &NotFoundError{Resource: "vacancy"}
	default:
		u.logger.WithError(err).WithField("vacancy_id", id).Error("vacancy storage error")
		return ErrInternal
	}
}

func validateText(verr *ValidationError, raw *string, required bool) string {
	if raw == nil {
		if required {
			verr.Add("text", msgRequired)
		}
		return ""
	}
	text := strings.TrimSpace(*raw)
	switch {
	case text == "":
		verr.Add("text", msgBlank)
	case utf8.RuneCountInString(text) > vacancy.MaxTextLength:
		verr.Add("text", msgMaxLength(vacancy.MaxTextLength))
	}
	return text
}

func validateSlug(verr *ValidationError, raw *string, required bool) string {
	if raw == nil {
		if required {
			verr.Add("slug", msgRequired)
		}
		return ""
	}
	slug := strings.TrimSpace(*raw)
	switch {
	case slug == "":
		verr.Add("slug", msgBlank)
	case utf8.RuneCountInString(slug) > vacancy.MaxSlugLength:
		verr.Add("slug", msgMaxLength(vacancy.MaxSlugLength))
	case !vacancy.ValidSlug(slug):
		verr.Add("slug", msgInvalidSlug)
	}
	return slug
}

func validateStatus(verr *ValidationError, raw *string) vacancy.Status {
	if raw == nil {
		return vacancy.StatusDraft
	}
	st, err := vacancy.ParseStatus(*raw)
	if err != nil {
		verr.Add("status", msgInvalidChoice(*raw))
	}
	return st
}

func validateSkillNames(verr *ValidationError, names []string) []string {
	out := skill.UniqueNames(names)
	for _, n := range out {
		if !skill.ValidName(n) {
			verr.Add("skills", msgMaxLength(skill.MaxNameLength))
			break
		}
	}
	return out
}
