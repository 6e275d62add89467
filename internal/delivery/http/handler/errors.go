package handler

import (
	"errors"
	"strconv"

	"vacancy-board/internal/delivery/http/middleware"
	"vacancy-board/internal/pkg/response"
	"vacancy-board/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgNotAuthenticated = "Authentication credentials were not provided."
	msgPermissionDenied = "You do not have permission to perform this action."
	msgNotFound         = "Not found."
	msgInvalidPage      = "Invalid page."
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var verr *usecase.ValidationError
	var nf *usecase.NotFoundError
	switch {
	case errors.As(err, &verr):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", verr.Fields, err)
	case errors.Is(err, usecase.ErrInvalidPage):
		return middleware.NewAppError(fiber.StatusNotFound, msgInvalidPage, nil, err)
	case errors.As(err, &nf):
		msg := msgNotFound
		if nf.Key != "" {
			msg = nf.Error()
		}
		return middleware.NewAppError(fiber.StatusNotFound, msg, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgNotFound, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, msgNotAuthenticated, nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, msgPermissionDenied, nil, err)
	case errors.Is(err, usecase.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Username already taken", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, response.MessageConflict, nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
}

// pathID reads the numeric :id route parameter. Routes constrain it to
// integers, so a failure here means the id does not fit int64.
func pathID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusNotFound, msgNotFound, nil, err)
	}
	return id, nil
}

// pageBaseURL is the absolute URL of the current route without query.
func pageBaseURL(c fiber.Ctx) string {
	return c.BaseURL() + c.Path()
}
