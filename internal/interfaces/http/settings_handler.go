package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/settings"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SettingsHandler maneja la configuración POS por ámbito (protegido, solo admin).
type SettingsHandler struct {
	resolver *settings.Resolver
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(resolver *settings.Resolver) *SettingsHandler {
	return &SettingsHandler{resolver: resolver}
}

// Get devuelve la configuración resuelta del ámbito (defaults si no hay fila).
// GET /api/settings/:scope
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	scope := c.Params("scope")
	s, err := h.resolver.Resolve(c.Context(), companyID, scope)
	if err != nil {
		return settingsError(c, err)
	}
	return c.JSON(toSettingsResponse(s))
}

// Put reemplaza la configuración del ámbito.
// PUT /api/settings/:scope
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	scope := c.Params("scope")
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s := &entity.PosSettings{
		CompanyID:          companyID,
		Scope:              scope,
		TaxEnabled:         in.TaxEnabled,
		TaxType:            in.TaxType,
		TaxRate:            in.TaxRate,
		RoundingEnabled:    in.RoundingEnabled,
		DiscountLocked:     in.DiscountLocked,
		PriceEditLocked:    in.PriceEditLocked,
		EnforceExactMRP:    in.EnforceExactMRP,
		RequirePartyName:   in.RequirePartyName,
		RequirePartyNumber: in.RequirePartyNumber,
		AllowNegativeStock: in.AllowNegativeStock,
		AutoBarcode:        in.AutoBarcode,
		VoucherPrefix:      in.VoucherPrefix,
	}
	if err := h.resolver.Save(c.Context(), s); err != nil {
		return settingsError(c, err)
	}
	return c.JSON(toSettingsResponse(s))
}

func toSettingsResponse(s *entity.PosSettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		CompanyID: s.CompanyID,
		Scope:     s.Scope,
		SettingsRequest: dto.SettingsRequest{
			TaxEnabled:         s.TaxEnabled,
			TaxType:            s.TaxType,
			TaxRate:            s.TaxRate,
			RoundingEnabled:    s.RoundingEnabled,
			DiscountLocked:     s.DiscountLocked,
			PriceEditLocked:    s.PriceEditLocked,
			EnforceExactMRP:    s.EnforceExactMRP,
			RequirePartyName:   s.RequirePartyName,
			RequirePartyNumber: s.RequirePartyNumber,
			AllowNegativeStock: s.AllowNegativeStock,
			AutoBarcode:        s.AutoBarcode,
			VoucherPrefix:      s.VoucherPrefix,
		},
	}
}

func settingsError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ámbito o valores inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
