package httpapi

import "github.com/gofiber/fiber/v2"

func errorResponse(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, err error) error {
	return errorResponse(c, fiber.StatusBadRequest, err)
}

func notFound(c *fiber.Ctx, err error) error {
	return errorResponse(c, fiber.StatusNotFound, err)
}

func internalError(c *fiber.Ctx, err error) error {
	return errorResponse(c, fiber.StatusInternalServerError, err)
}
