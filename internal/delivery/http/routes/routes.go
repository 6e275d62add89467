package routes

import (
	"vacancy-board/internal/delivery/http/handler"
	"vacancy-board/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Vacancy *handler.VacancyHandler
	Report  *handler.ReportHandler
	Skill   *handler.SkillHandler
	WS      *ws.Handler
	Metrics fiber.Handler
}

type Registry struct {
	handlers Handlers
	auth     fiber.Handler
}

// NewRegistry wires handlers to paths. auth guards every route that needs
// a caller identity.
func NewRegistry(handlers Handlers, auth fiber.Handler) *Registry {
	return &Registry{handlers: handlers, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}
	if r.handlers.Metrics != nil {
		app.Get("/metrics", r.handlers.Metrics)
	}
	if r.handlers.WS != nil {
		app.Get("/ws/vacancies", r.handlers.WS.HandleVacanciesWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	if r.handlers.Auth != nil {
		r.handlers.Auth.RegisterRoutes(app.Group("/auth"))
	}

	vacancies := app.Group("/vacancy")
	if r.handlers.Report != nil {
		r.handlers.Report.RegisterRoutes(vacancies, r.auth)
	}
	if r.handlers.Vacancy != nil {
		r.handlers.Vacancy.RegisterRoutes(vacancies, r.auth)
	}

	if r.handlers.Skill != nil {
		r.handlers.Skill.RegisterRoutes(app.Group("/skill", r.auth))
	}
}
