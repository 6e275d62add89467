// Package response writes the {status, message, data} envelope shared by the
// auth and health endpoints and by every error reply. Vacancy, skill and
// report payloads are written bare by their handlers.
package response

import "github.com/gofiber/fiber/v3"

type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
	MessageConflict            = "conflict"
)

var statusMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusCreated:             "created",
	fiber.StatusBadRequest:          "bad request",
	fiber.StatusUnauthorized:        "unauthorized",
	fiber.StatusForbidden:           "forbidden",
	fiber.StatusNotFound:            "not found",
	fiber.StatusConflict:            MessageConflict,
	fiber.StatusUnprocessableEntity: "unprocessable entity",
	fiber.StatusServiceUnavailable:  "service unavailable",
}

// MessageFor is the envelope message used when a reply carries none.
func MessageFor(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= fiber.StatusInternalServerError {
		return MessageInternalServerError
	}
	return "error"
}

// Write sends the envelope. Out-of-range statuses become 500.
func Write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}
