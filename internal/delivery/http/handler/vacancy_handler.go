package handler

import (
	"vacancy-board/internal/delivery/http/dto"
	"vacancy-board/internal/delivery/http/middleware"
	"vacancy-board/internal/pkg/pagination"
	"vacancy-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type VacancyHandler struct {
	list usecase.VacancyListUsecase
	uc   usecase.VacancyUsecase
}

func NewVacancyHandler(list usecase.VacancyListUsecase, uc usecase.VacancyUsecase) *VacancyHandler {
	return &VacancyHandler{list: list, uc: uc}
}

// RegisterRoutes mounts the vacancy routes on r. The listing is public;
// everything else goes through auth.
func (h *VacancyHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", auth, h.Create)
	r.Put("/like", auth, h.Like)
	r.Get("/:id<int>", auth, h.Detail)
	r.Put("/:id<int>", auth, h.Replace)
	r.Patch("/:id<int>", auth, h.Patch)
	r.Delete("/:id<int>", auth, h.Delete)
}

func (h *VacancyHandler) List(c fiber.Ctx) error {
	args := c.Request().URI().QueryArgs()

	var skills []string
	for _, raw := range args.PeekMulti("skill") {
		skills = append(skills, string(raw))
	}

	res, err := h.list.ListVacancies(c.Context(), usecase.VacancyListParams{
		Text:   c.Query("text"),
		Skills: skills,
		Page:   c.Query(pagination.QueryParam),
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.VacancyListItem, 0, len(res.Items))
	for _, v := range res.Items {
		out = append(out, dto.NewVacancyListItem(v))
	}
	next, prev := pagination.Links(pageBaseURL(c), args, res.Page)

	return c.Status(fiber.StatusOK).JSON(dto.PageResponse[dto.VacancyListItem]{
		Count:    res.Page.Count,
		Next:     next,
		Previous: prev,
		Results:  out,
	})
}

func (h *VacancyHandler) Detail(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	v, err := h.uc.GetVacancy(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewVacancyDetail(v))
}

func (h *VacancyHandler) Create(c fiber.Ctx) error {
	var req dto.VacancyRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.CreateVacancyInput{Text: req.Text, Slug: req.Slug, Status: req.Status}
	if req.Skills != nil {
		in.Skills = *req.Skills
	}

	created, err := h.uc.CreateVacancy(c.Context(), middleware.Caller(c), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewVacancyDetail(created))
}

func (h *VacancyHandler) Replace(c fiber.Ctx) error {
	return h.update(c, false)
}

func (h *VacancyHandler) Patch(c fiber.Ctx) error {
	return h.update(c, true)
}

func (h *VacancyHandler) update(c fiber.Ctx, partial bool) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.VacancyRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	in := usecase.UpdateVacancyInput{Text: req.Text, Slug: req.Slug, Status: req.Status}
	if req.Skills != nil {
		in.Skills = *req.Skills
		in.SkillsSet = true
	}

	updated, err := h.uc.UpdateVacancy(c.Context(), middleware.Caller(c), id, in, partial)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewVacancyUpdateResponse(updated))
}

func (h *VacancyHandler) Delete(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteVacancy(c.Context(), middleware.Caller(c), id); err != nil {
		return mapUsecaseError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Like takes a JSON array of vacancy ids.
func (h *VacancyHandler) Like(c fiber.Ctx) error {
	var ids []int64
	if err := c.Bind().Body(&ids); err != nil {
		return badRequest(err)
	}

	liked, err := h.uc.LikeVacancies(c.Context(), middleware.Caller(c), ids)
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.NewVacancyDetails(liked))
}
