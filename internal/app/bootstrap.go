package app

import (
	"context"
	"fmt"
	"strings"

	"vacancy-board/internal/config"
	"vacancy-board/internal/delivery/http/handler"
	"vacancy-board/internal/delivery/http/middleware"
	"vacancy-board/internal/delivery/http/routes"
	"vacancy-board/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over c. Middleware order: access log,
// metrics, cors, error handling, then routes.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects dependencies, starts the websocket hub and returns the
// app with a cleanup func that stops both.
func Bootstrap(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewMetricsMiddleware(c.Metrics).Middleware())
	app.Use(cors.New(corsConfig(c.Config.App)))
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func corsConfig(cfg config.AppConfig) cors.Config {
	if len(cfg.CORSAllowOrigins) == 0 {
		return cors.Config{AllowOrigins: []string{"*"}}
	}
	return cors.Config{AllowOrigins: cfg.CORSAllowOrigins, AllowCredentials: true}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(routes.Handlers{
		Health:  handler.NewHealthHandler(c.DB),
		Auth:    handler.NewAuthHandler(c.Auth),
		Vacancy: handler.NewVacancyHandler(c.VacancyList, c.Vacancies),
		Report:  handler.NewReportHandler(c.Reports),
		Skill:   handler.NewSkillHandler(c.Skills),
		WS:      ws.NewHandler(c.Hub, c.Logger),
		Metrics: adaptor.HTTPHandler(promhttp.HandlerFor(c.Metrics.Registry(), promhttp.HandlerOpts{})),
	}, authMw.Middleware()).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
