package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"office_manager_notifier/internal/app"
	"office_manager_notifier/internal/domain/company"
	idb "office_manager_notifier/internal/infra/database"
)

type CompanyHandler struct {
	companies company.Repository
	notifier  app.NotificationService
}

func NewCompanyHandler(companies company.Repository, notifier app.NotificationService) *CompanyHandler {
	return &CompanyHandler{companies: companies, notifier: notifier}
}

type companyPayload struct {
	Name          string          `json:"name"`
	TenancyKind   string          `json:"tenancy_kind"`
	ContractDate  string          `json:"contract_date"` // "2006-01-02"
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	ContactPerson string          `json:"contact_person"`
	PhoneNumber   string          `json:"phone_number"`
	Email         string          `json:"email"`
	Notes         string          `json:"notes"`
	IsActive      *bool           `json:"is_active"`
}

func (p *companyPayload) toCompany() (*company.Company, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	kind := company.TenancyKind(p.TenancyKind)
	if kind == "" {
		kind = company.KindResident
	}
	if kind != company.KindResident && kind != company.KindNonResident {
		return nil, fmt.Errorf("invalid tenancy_kind: %q", p.TenancyKind)
	}
	contractDate, err := time.Parse("2006-01-02", p.ContractDate)
	if err != nil {
		return nil, fmt.Errorf("invalid contract_date: %w", err)
	}
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return &company.Company{
		Name:          p.Name,
		TenancyKind:   kind,
		ContractDate:  contractDate,
		MonthlyFee:    p.MonthlyFee,
		ContactPerson: p.ContactPerson,
		PhoneNumber:   p.PhoneNumber,
		Email:         p.Email,
		Notes:         p.Notes,
		IsActive:      active,
	}, nil
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var (
		companies []*company.Company
		err       error
	)
	if c.QueryBool("active_only") {
		companies, err = h.companies.ListActive(c.Context())
	} else {
		companies, err = h.companies.ListAll(c.Context())
	}
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(companies)
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var payload companyPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	entity, err := payload.toCompany()
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.companies.Create(c.Context(), entity); err != nil {
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}

func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	entity, err := h.companies.GetByID(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, idb.ErrCompanyNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(entity)
}

func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	var payload companyPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	entity, err := payload.toCompany()
	if err != nil {
		return badRequest(c, err)
	}
	entity.ID = int64(id)
	if err := h.companies.Update(c.Context(), entity); err != nil {
		if errors.Is(err, idb.ErrCompanyNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.JSON(entity)
}

func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	if err := h.companies.Delete(c.Context(), int64(id)); err != nil {
		if errors.Is(err, idb.ErrCompanyNotFound) {
			return notFound(c, err)
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// TestNotification triggers the on-demand test send for one company. It
// bypasses eligibility but still renders, sends and logs; a test send
// occupies the day's rent-due dedup slot for its channels.
func (h *CompanyHandler) TestNotification(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, err)
	}
	ok, err := h.notifier.SendTestNotification(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, idb.ErrCompanyNotFound) {
			return notFound(c, err)
		}
		if errors.Is(err, app.ErrSmsNotConfigured) || errors.Is(err, app.ErrEmailNotConfigured) {
			return errorResponse(c, fiber.StatusConflict, err)
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"all_channels_succeeded": ok})
}
