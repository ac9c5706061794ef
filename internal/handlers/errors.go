package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as a JSON body. Validation failures keep
// their message; anything unexpected becomes an opaque 500 so storage details
// never leak to callers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
