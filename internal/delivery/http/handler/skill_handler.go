package handler

import (
	"vacancy-board/internal/delivery/http/dto"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id<int>", h.Detail)
	r.Put("/:id<int>", h.Replace)
	r.Patch("/:id<int>", h.Patch)
	r.Delete("/:id<int>", h.Delete)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	res, err := h.uc.ListSkills(c.Context(), c.Query(pagination.QueryParam))
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.SkillResponse, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, dto.NewSkillResponse(it))
	}
	next, prev := pagination.Links(pageBaseURL(c), c.Request().URI().QueryArgs(), res.Page)

	return c.Status(fiber.StatusOK).JSON(dto.PageResponse[dto.SkillResponse]{
		Count:    res.Page.Count,
		Next:     next,
		Previous: prev,
		Results:  out,
	})
}

func (h *SkillHandler) Detail(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	s, err := h.uc.GetSkill(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewSkillResponse(s))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req dto.SkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	created, err := h.uc.CreateSkill(c.Context(), usecase.SkillInput{Name: req.Name, IsActive: req.IsActive})
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSkillResponse(created))
}

func (h *SkillHandler) Replace(c fiber.Ctx) error {
	return h.update(c, false)
}

func (h *SkillHandler) Patch(c fiber.Ctx) error {
	return h.update(c, true)
}

func (h *SkillHandler) update(c fiber.Ctx, partial bool) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.SkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	updated, err := h.uc.UpdateSkill(c.Context(), id, usecase.SkillInput{Name: req.Name, IsActive: req.IsActive}, partial)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewSkillResponse(updated))
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSkill(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
