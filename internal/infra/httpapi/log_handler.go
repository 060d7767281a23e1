package httpapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"office_manager_notifier/internal/domain/notification"
)

type LogHandler struct {
	logs notification.LogRepository
}

func NewLogHandler(logs notification.LogRepository) *LogHandler {
	return &LogHandler{logs: logs}
}

func (h *LogHandler) List(c *fiber.Ctx) error {
	companyID := int64(c.QueryInt("company_id"))
	category := notification.Category(c.Query("category"))
	switch category {
	case "", notification.CategoryUnpaid, notification.CategoryRentDue:
	default:
		return badRequest(c, fmt.Errorf("invalid category %q", category))
	}
	limit := c.QueryInt("limit")

	logs, err := h.logs.List(c.Context(), companyID, category, limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(logs)
}
