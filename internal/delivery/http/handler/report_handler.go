package handler

import (
	"vacancy-board/internal/delivery/http/dto"
	"vacancy-board/internal/delivery/http/middleware"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReportHandler struct {
	uc usecase.ReportUsecase
}

func NewReportHandler(uc usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/user", auth, h.VacanciesPerUser)
}

func (h *ReportHandler) VacanciesPerUser(c fiber.Ctx) error {
	rep, err := h.uc.VacanciesPerUser(c.Context(), middleware.Caller(c), c.Query(pagination.QueryParam))
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewUserVacanciesReport(rep))
}
