package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vacancy-board/internal/config"
	"vacancy-board/internal/database"
	"vacancy-board/internal/database/migration"
	dbpostgres "vacancy-board/internal/database/postgres"
	"vacancy-board/internal/database/seeder"
	"vacancy-board/internal/database/sqldb"
	"vacancy-board/internal/infrastructure/cache"
	"vacancy-board/internal/metrics"
	"vacancy-board/internal/pkg/jwt"
	"vacancy-board/internal/repository"
	"vacancy-board/internal/usecase"
	"vacancy-board/internal/ws"

	"github.com/sirupsen/logrus"
)

type Container struct {
	Config  config.Config
	Logger  logrus.FieldLogger
	DB      database.DB
	Cache   *cache.Redis
	JWT     *jwt.HMACService
	Metrics *metrics.Metrics
	Hub     *ws.Hub

	VacancyList *usecase.VacancyList
	Vacancies   *usecase.Vacancy
	Reports     *usecase.Report
	Skills      *usecase.Skill
	Auth        *usecase.Auth
}

type sqlProvider interface {
	SQLDB() *sql.DB
}

// NewContainer connects storage, applies migrations and seeders when
// configured, and builds every usecase.
func NewContainer(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Container, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout+5*time.Second)
	defer cancel()

	db, err := openDB(connectCtx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.WithField("driver", cfg.Database.Driver).Info("database connected")

	if err := prepareSchema(ctx, cfg.Database, db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewContainerWithDB(ctx, cfg, db, logger), nil
}

// NewContainerWithDB builds the dependency graph over an open database.
func NewContainerWithDB(ctx context.Context, cfg config.Config, db database.DB, logger logrus.FieldLogger) *Container {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	redisCache := cache.NewRedis(ctx, cfg.Redis, logger)
	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	m := metrics.New()
	hub := ws.NewHub(logger)

	vacancyRepo := repository.NewPostgresVacancyRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	reportRepo := repository.NewPostgresReportRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	perPage := cfg.Vacancy.TotalOnPage

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   redisCache,
		JWT:     jwtSvc,
		Metrics: m,
		Hub:     hub,

		VacancyList: usecase.NewVacancyListUsecase(vacancyRepo, redisCache, perPage, logger),
		Vacancies: usecase.NewVacancyUsecase(vacancyRepo, usecase.VacancyPolicies{
			SkillUpdate: cfg.Vacancy.SkillUpdatePolicy,
			SkillMerge:  cfg.Vacancy.SkillMergePolicy,
		}, logger,
			usecase.WithVacancyCache(redisCache),
			usecase.WithVacancyEvents(ws.NewNotifier(hub)),
			usecase.WithVacancyMetrics(m),
		),
		Reports: usecase.NewReportUsecase(reportRepo, redisCache, perPage, logger),
		Skills:  usecase.NewSkillUsecase(skillRepo, redisCache, perPage, logger),
		Auth:    usecase.NewAuthUsecase(userRepo, jwtSvc, redisCache, logger),
	}
}

func openDB(ctx context.Context, cfg config.DatabaseConfig, logger logrus.FieldLogger) (database.DB, error) {
	switch cfg.Driver {
	case config.DriverStdlib:
		return sqldb.Open(ctx, cfg)
	case config.DriverPgxPool, "":
		p, err := dbpostgres.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func prepareSchema(ctx context.Context, cfg config.DatabaseConfig, db database.DB, logger logrus.FieldLogger) error {
	if cfg.RunMigrations {
		p, ok := db.(sqlProvider)
		if !ok || p.SQLDB() == nil {
			return errors.New("run migrations: driver exposes no *sql.DB")
		}
		if err := (migration.Runner{Log: logger}).Run(ctx, p.SQLDB()); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	if cfg.RunSeeders {
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
			return fmt.Errorf("run seeders: %w", err)
		}
		logger.Info("seeders applied")
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
