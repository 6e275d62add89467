package usecase

import (
	"context"
	"errors"
	"time"

	"vacancy-board/internal/domain/vacancy"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type VacancyListParams struct {
	Text   string
	Skills []string
	Page   string
}

type VacancyPage struct {
	Items []vacancy.Vacancy `json:"items"`
	Page  pagination.Page   `json:"page"`
}

type VacancyListUsecase interface {
	ListVacancies(ctx context.Context, params VacancyListParams) (VacancyPage, error)
}

type VacancyList struct {
	vacancies repository.VacancyRepository
	cache     SearchCache
	perPage   int
	logger    logrus.FieldLogger
}

func NewVacancyListUsecase(vacancies repository.VacancyRepository, cache SearchCache, perPage int, logger logrus.FieldLogger) *VacancyList {
	if perPage <= 0 {
		perPage = 10
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &VacancyList{
		vacancies: vacancies,
		cache:     cache,
		perPage:   perPage,
		logger:    logger.WithField("component", "vacancy_list"),
	}
}

// ListVacancies returns one page of the filtered listing. Pages that are
// not positive integers or lie past the last page yield ErrInvalidPage.
func (u *VacancyList) ListVacancies(ctx context.Context, params VacancyListParams) (VacancyPage, error) {
	number, err := pagination.ParseNumber(params.Page)
	if err != nil {
		return VacancyPage{}, ErrInvalidPage
	}

	f := vacancy.NewFilter(params.Text, params.Skills)

	cacheKey := VacancyListCacheKey(f.Text, f.SkillTerms, number, u.perPage)
	var (
		gen    int64
		genErr error
	)
	if u.cache != nil {
		var cached VacancyPage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			u.logger.WithField("key", cacheKey).Debug("cache hit")
			return cached, nil
		}
		u.logger.WithField("key", cacheKey).Debug("cache miss")
		gen, genErr = u.cache.Generation(ctx)
	}

	// count and page run together; the page number is validated against
	// the count afterwards
	var (
		count int
		items []vacancy.Vacancy
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := u.vacancies.Count(gctx, f)
		if err != nil {
			return err
		}
		count = c
		return nil
	})
	g.Go(func() error {
		rows, err := u.vacancies.List(gctx, f, u.perPage, pagination.Offset(number, u.perPage))
		if err != nil {
			return err
		}
		items = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		u.logger.WithError(err).Error("list vacancies failed")
		return VacancyPage{}, ErrInternal
	}

	page, err := pagination.Strict(number, count, u.perPage)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidPage) {
			return VacancyPage{}, ErrInvalidPage
		}
		return VacancyPage{}, ErrInternal
	}

	out := VacancyPage{Items: items, Page: page}
	if u.cache != nil && genErr == nil {
		lockKey := VacancyListLockKey(cacheKey)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 5*time.Second)
		if err == nil && ok {
			if stored, _ := u.cache.SetJSONAtGeneration(ctx, cacheKey, out, 0, gen); !stored {
				u.logger.WithField("key", cacheKey).Debug("cache invalidated during query, page not stored")
			}
			_ = u.cache.Delete(ctx, lockKey)
		}
	}
	return out, nil
}
