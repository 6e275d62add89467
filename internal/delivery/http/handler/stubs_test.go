package handler_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/domain/user"
	"vacancy-board/internal/domain/vacancy"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/usecase"
	ucauth "vacancy-board/internal/usecase/auth"
)

type stubList struct {
	got  usecase.VacancyListParams
	page usecase.VacancyPage
	err  error
}

func (s *stubList) ListVacancies(_ context.Context, p usecase.VacancyListParams) (usecase.VacancyPage, error) {
	s.got = p
	return s.page, s.err
}

type stubVacancies struct {
	mu      sync.Mutex
	items   map[int64]vacancy.Vacancy
	caller  usecase.Caller
	update  usecase.UpdateVacancyInput
	partial bool
}

func newStubVacancies(items ...vacancy.Vacancy) *stubVacancies {
	s := &stubVacancies{items: map[int64]vacancy.Vacancy{}}
	for _, v := range items {
		s.items[v.ID] = v
	}
	return s
}

func (s *stubVacancies) GetVacancy(_ context.Context, id int64) (vacancy.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[id]
	if !ok {
		return vacancy.Vacancy{}, &usecase.NotFoundError{Resource: "vacancy"}
	}
	return v, nil
}

func (s *stubVacancies) CreateVacancy(_ context.Context, caller usecase.Caller, in usecase.CreateVacancyInput) (vacancy.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = caller
	if !caller.Role.CanCreateVacancy() {
		return vacancy.Vacancy{}, usecase.ErrForbidden
	}
	if in.Text == nil {
		verr := &usecase.ValidationError{}
		verr.Add("text", "This field is required.")
		return vacancy.Vacancy{}, verr
	}
	owner := caller.UserID
	v := vacancy.Vacancy{
		ID:      int64(len(s.items) + 1),
		Text:    *in.Text,
		Slug:    *in.Slug,
		Status:  vacancy.StatusDraft,
		Created: testDate,
		UserID:  &owner,
		Skills:  in.Skills,
	}
	s.items[v.ID] = v
	return v, nil
}

func (s *stubVacancies) UpdateVacancy(_ context.Context, caller usecase.Caller, id int64, in usecase.UpdateVacancyInput, partial bool) (vacancy.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller, s.update, s.partial = caller, in, partial
	v, ok := s.items[id]
	if !ok {
		return vacancy.Vacancy{}, &usecase.NotFoundError{Resource: "vacancy"}
	}
	if in.Text != nil {
		v.Text = *in.Text
	}
	if in.SkillsSet {
		v.Skills = in.Skills
	}
	s.items[id] = v
	return v, nil
}

func (s *stubVacancies) DeleteVacancy(_ context.Context, _ usecase.Caller, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return &usecase.NotFoundError{Resource: "vacancy"}
	}
	delete(s.items, id)
	return nil
}

func (s *stubVacancies) LikeVacancies(_ context.Context, _ usecase.Caller, ids []int64) ([]vacancy.Vacancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []vacancy.Vacancy{}
	for _, id := range ids {
		v, ok := s.items[id]
		if !ok {
			continue
		}
		v.Likes++
		s.items[id] = v
		out = append(out, v)
	}
	return out, nil
}

type stubReports struct {
	rep usecase.UserVacancyReport
}

func (s *stubReports) VacanciesPerUser(_ context.Context, caller usecase.Caller, _ string) (usecase.UserVacancyReport, error) {
	if !caller.Authenticated() {
		return usecase.UserVacancyReport{}, usecase.ErrUnauthorized
	}
	return s.rep, nil
}

type stubSkills struct {
	items []skill.Skill
}

func (s *stubSkills) ListSkills(_ context.Context, rawPage string) (usecase.SkillPage, error) {
	n, err := pagination.ParseNumber(rawPage)
	if err != nil {
		return usecase.SkillPage{}, usecase.ErrInvalidPage
	}
	page, err := pagination.Strict(n, len(s.items), 10)
	if err != nil {
		return usecase.SkillPage{}, usecase.ErrInvalidPage
	}
	return usecase.SkillPage{Items: s.items, Page: page}, nil
}

func (s *stubSkills) GetSkill(_ context.Context, id int64) (skill.Skill, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return skill.Skill{}, &usecase.NotFoundError{Resource: "skill"}
}

func (s *stubSkills) CreateSkill(_ context.Context, in usecase.SkillInput) (skill.Skill, error) {
	for _, it := range s.items {
		if in.Name != nil && it.Name == *in.Name {
			verr := &usecase.ValidationError{}
			verr.Add("name", "skill with this name already exists.")
			return skill.Skill{}, verr
		}
	}
	created := skill.Skill{ID: int64(len(s.items) + 1), Name: *in.Name, IsActive: true}
	s.items = append(s.items, created)
	return created, nil
}

func (s *stubSkills) UpdateSkill(_ context.Context, id int64, in usecase.SkillInput, _ bool) (skill.Skill, error) {
	for i, it := range s.items {
		if it.ID == id {
			if in.IsActive != nil {
				s.items[i].IsActive = *in.IsActive
			}
			return s.items[i], nil
		}
	}
	return skill.Skill{}, &usecase.NotFoundError{Resource: "skill"}
}

func (s *stubSkills) DeleteSkill(_ context.Context, id int64) error {
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return &usecase.NotFoundError{Resource: "skill"}
}

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, in ucauth.RegisterInput) (user.User, usecase.TokenPair, error) {
	if in.Username == "taken" {
		return user.User{}, usecase.TokenPair{}, usecase.ErrUsernameTaken
	}
	return user.User{ID: 7, Username: in.Username, Role: user.RoleHR, Sex: user.SexMale},
		usecase.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuth) Login(_ context.Context, in ucauth.LoginInput) (user.User, usecase.TokenPair, error) {
	if in.Password != "password1" {
		return user.User{}, usecase.TokenPair{}, usecase.ErrInvalidCredentials
	}
	return user.User{ID: 7, Username: in.Username}, usecase.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (stubAuth) Refresh(_ context.Context, tok string) (usecase.TokenPair, error) {
	if tok != "good" {
		return usecase.TokenPair{}, usecase.ErrInvalidRefreshToken
	}
	return usecase.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

var (
	testDate     = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	errDatabase  = errors.New("connection refused")
	ownerID      = int64(1)
	ownerName    = "alice"
	seedVacancy1 = vacancy.Vacancy{
		ID: 1, Text: "Python developer", Slug: "python-dev", Status: vacancy.StatusOpen,
		Created: testDate, UserID: &ownerID, Username: &ownerName, Likes: 2, Skills: []string{"Python"},
	}
)
