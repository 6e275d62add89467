package usecase

import (
	"context"

	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type UserVacancyReport struct {
	Items    []repository.UserVacancyCount `json:"items"`
	Total    int                           `json:"total"`
	NumPages int                           `json:"num_pages"`
	Avg      *float64                      `json:"avg"`
}

type ReportUsecase interface {
	VacanciesPerUser(ctx context.Context, caller Caller, rawPage string) (UserVacancyReport, error)
}

type Report struct {
	reports repository.ReportRepository
	cache   SearchCache
	perPage int
	logger  logrus.FieldLogger
}

func NewReportUsecase(reports repository.ReportRepository, cache SearchCache, perPage int, logger logrus.FieldLogger) *Report {
	if perPage <= 0 {
		perPage = 10
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Report{reports: reports, cache: cache, perPage: perPage, logger: logger.WithField("component", "report")}
}

// VacanciesPerUser never fails on a bad page: unparsable pages resolve to
// the first page and pages past the end to the last one.
func (u *Report) VacanciesPerUser(ctx context.Context, caller Caller, rawPage string) (UserVacancyReport, error) {
	if !caller.Authenticated() {
		return UserVacancyReport{}, ErrUnauthorized
	}

	cacheKey := VacancyReportCacheKey(rawPage)
	var (
		gen    int64
		genErr error
	)
	if u.cache != nil {
		var cached UserVacancyReport
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
		gen, genErr = u.cache.Generation(ctx)
	}

	total, err := u.reports.CountUsers(ctx)
	if err != nil {
		u.logger.WithError(err).Error("count users failed")
		return UserVacancyReport{}, ErrInternal
	}
	page := pagination.Lenient(rawPage, total, u.perPage)

	var (
		items []repository.UserVacancyCount
		avg   *float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := u.reports.ListUserVacancyCounts(gctx, u.perPage, page.Offset())
		if err != nil {
			return err
		}
		items = rows
		return nil
	})
	g.Go(func() error {
		a, err := u.reports.AverageVacancies(gctx)
		if err != nil {
			return err
		}
		avg = a
		return nil
	})
	if err := g.Wait(); err != nil {
		u.logger.WithError(err).Error("vacancy report failed")
		return UserVacancyReport{}, ErrInternal
	}

	out := UserVacancyReport{Items: items, Total: total, NumPages: page.NumPages, Avg: avg}
	if u.cache != nil && genErr == nil {
		_, _ = u.cache.SetJSONAtGeneration(ctx, cacheKey, out, 0, gen)
	}
	return out, nil
}
