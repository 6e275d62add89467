package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vacancy-board/internal/domain/skill"
	"vacancy-board/internal/domain/user"
	"vacancy-board/internal/domain/vacancy"
	"vacancy-board/internal/repository"
)

// fakeVacancyRepo is an in-memory VacancyRepository with the same
// filter, skill-policy and like semantics as the postgres one.
type fakeVacancyRepo struct {
	mu        sync.Mutex
	nextID    int64
	vacancies map[int64]vacancy.Vacancy
	skills    map[string]string // lower(name) -> stored name

	listCalls int
	err       error
}

func newFakeVacancyRepo() *fakeVacancyRepo {
	return &fakeVacancyRepo{vacancies: map[int64]vacancy.Vacancy{}, skills: map[string]string{}}
}

func (r *fakeVacancyRepo) matching(f vacancy.Filter) []vacancy.Vacancy {
	ids := make([]int64, 0, len(r.vacancies))
	for id := range r.vacancies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]vacancy.Vacancy, 0)
	for _, id := range ids {
		v := r.vacancies[id]
		if f.HasText() && !strings.Contains(strings.ToLower(v.Text), strings.ToLower(f.Text)) {
			continue
		}
		if f.HasSkills() && !anySkillMatches(v.Skills, f.SkillTerms) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func anySkillMatches(skills, terms []string) bool {
	for _, s := range skills {
		for _, t := range terms {
			if strings.Contains(strings.ToLower(s), strings.ToLower(t)) {
				return true
			}
		}
	}
	return false
}

func (r *fakeVacancyRepo) List(_ context.Context, f vacancy.Filter, limit, offset int) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	all := r.matching(f)
	if offset >= len(all) {
		return []vacancy.Vacancy{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeVacancyRepo) Count(_ context.Context, f vacancy.Filter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.matching(f)), nil
}

func (r *fakeVacancyRepo) GetByID(_ context.Context, id int64) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	v, ok := r.vacancies[id]
	if !ok {
		return vacancy.Vacancy{}, repository.ErrVacancyNotFound
	}
	return v, nil
}

func (r *fakeVacancyRepo) getOrCreate(name string) string {
	k := strings.ToLower(name)
	if stored, ok := r.skills[k]; ok {
		return stored
	}
	r.skills[k] = name
	return name
}

func addSkill(set []string, name string) []string {
	for _, s := range set {
		if strings.EqualFold(s, name) {
			return set
		}
	}
	return append(set, name)
}

func (r *fakeVacancyRepo) Create(_ context.Context, in repository.VacancyCreate) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	r.nextID++
	uid := in.UserID
	v := vacancy.Vacancy{
		ID:      r.nextID,
		Text:    in.Text,
		Slug:    in.Slug,
		Status:  in.Status,
		Created: time.Now().UTC().Truncate(24 * time.Hour),
		UserID:  &uid,
		Skills:  []string{},
	}
	for _, name := range skill.UniqueNames(in.Skills) {
		v.Skills = addSkill(v.Skills, r.getOrCreate(name))
	}
	r.vacancies[v.ID] = v
	return v, nil
}

func (r *fakeVacancyRepo) Update(_ context.Context, id int64, in repository.VacancyUpdate) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return vacancy.Vacancy{}, r.err
	}
	v, ok := r.vacancies[id]
	if !ok {
		return vacancy.Vacancy{}, repository.ErrVacancyNotFound
	}
	if in.Text != nil {
		v.Text = *in.Text
	}
	if in.Slug != nil {
		v.Slug = *in.Slug
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if in.SkillsSet {
		resolved := make([]string, 0, len(in.Skills))
		for _, name := range skill.UniqueNames(in.Skills) {
			if in.UpdatePolicy == skill.UpdateStrict {
				stored, ok := r.skills[strings.ToLower(name)]
				if !ok {
					return vacancy.Vacancy{}, &repository.UnknownSkillError{Name: name}
				}
				resolved = append(resolved, stored)
				continue
			}
			resolved = append(resolved, r.getOrCreate(name))
		}
		next := append([]string{}, v.Skills...)
		if in.MergePolicy == skill.MergeReplace {
			next = []string{}
		}
		for _, s := range resolved {
			next = addSkill(next, s)
		}
		v.Skills = next
	}
	r.vacancies[id] = v
	return v, nil
}

func (r *fakeVacancyRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.vacancies[id]; !ok {
		return repository.ErrVacancyNotFound
	}
	delete(r.vacancies, id)
	return nil
}

func (r *fakeVacancyRepo) IncrementLikes(_ context.Context, ids []int64) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	seen := map[int64]bool{}
	out := make([]vacancy.Vacancy, 0)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		v, ok := r.vacancies[id]
		if !ok {
			continue
		}
		v.Likes++
		r.vacancies[id] = v
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	sets        int
	invalidated int
	lockHeld    bool
	generation  int64

	// onGeneration runs after each Generation read, outside the lock.
	onGeneration func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	gen := c.generation
	hook := c.onGeneration
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return gen, nil
}

func (c *fakeCache) SetJSONAtGeneration(_ context.Context, key string, value any, _ time.Duration, gen int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.data[key] = b
	c.sets++
	return true, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockHeld {
		return false, nil
	}
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

func (c *fakeCache) InvalidateVacancies(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, "vacancies:") {
			delete(c.data, k)
		}
	}
	c.invalidated++
	c.generation++
	return nil
}

type publishedEvent struct {
	action string
	ids    []int64
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishVacancyEvent(action string, ids []int64) {
	p.events = append(p.events, publishedEvent{action: action, ids: ids})
}

type fakeMetrics struct {
	created int
	liked   int
}

func (m *fakeMetrics) VacancyCreated()      { m.created++ }
func (m *fakeMetrics) VacanciesLiked(n int) { m.liked += n }

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byName: map[string]user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return user.User{}, user.ErrAlreadyExists
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.byName[u.Username] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func strPtr(s string) *string { return &s }

var (
	hrCaller      = Caller{UserID: 1, Username: "hr", Role: user.RoleHR}
	unknownCaller = Caller{UserID: 2, Username: "guest", Role: user.RoleUnknown}
)
