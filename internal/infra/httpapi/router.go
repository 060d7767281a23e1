package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"office_manager_notifier/internal/app"
	"office_manager_notifier/internal/domain/company"
	"office_manager_notifier/internal/domain/ledger"
	"office_manager_notifier/internal/domain/notification"
)

// RouterDeps bundles everything the admin API needs. The API replaces the
// desktop management forms of the original system; the scheduler never
// depends on it.
type RouterDeps struct {
	Companies company.Repository
	Payments  ledger.PaymentRepository
	Expenses  ledger.ExpenseRepository
	Logs      notification.LogRepository
	Settings  *app.SettingsService
	Notifier  app.NotificationService
}

// Router registers the API routes.
func Router(fapp *fiber.App, deps RouterDeps) {
	fapp.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	fapp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := fapp.Group("/api")

	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.Companies, deps.Notifier)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)
	companies.Post("/:id/test-notification", companyHandler.TestNotification)

	ledgerHandler := NewLedgerHandler(deps.Companies, deps.Payments, deps.Expenses)
	payments := api.Group("/payments")
	payments.Get("/", ledgerHandler.ListPayments)
	payments.Post("/", ledgerHandler.CreatePayment)
	payments.Delete("/:id", ledgerHandler.DeletePayment)

	expenses := api.Group("/expenses")
	expenses.Get("/", ledgerHandler.ListExpenses)
	expenses.Post("/", ledgerHandler.CreateExpense)
	expenses.Delete("/:id", ledgerHandler.DeleteExpense)

	api.Get("/unpaid", ledgerHandler.UnpaidSummary)

	settingsHandler := NewSettingsHandler(deps.Settings)
	api.Get("/settings", settingsHandler.Get)
	api.Put("/settings", settingsHandler.Save)

	logHandler := NewLogHandler(deps.Logs)
	api.Get("/notification-logs", logHandler.List)
}
