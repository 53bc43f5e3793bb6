package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"attendance_backend/internals/helpers/apperr"
)

// FromFiberError: *fiber.Error → response JSON konsisten.
// Selain itu diteruskan ke FromAppError.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return FromAppError(c, err, nil)
}

// StatusOf memetakan error domain ke HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyCheckedIn),
		errors.Is(err, apperr.ErrAlreadyCheckedOut),
		errors.Is(err, apperr.ErrNotCheckedIn),
		errors.Is(err, apperr.ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrReportUnavailable),
		errors.Is(err, apperr.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// FromAppError: error domain → status + error_code. data ikut dikirim
// kalau ada (contoh: hasil toggle ketika report gagal dibuat).
func FromAppError(c *fiber.Ctx, err error, data any) error {
	status := StatusOf(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		msg = fiber.ErrInternalServerError.Message
	}
	return JsonErrorCode(c, status, apperr.Code(err), msg, data)
}
