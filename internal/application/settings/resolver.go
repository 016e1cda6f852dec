// Package settings resuelve la configuración POS por empresa y ámbito.
package settings

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// Resolver carga la configuración de una empresa con defaults cuando no hay
// fila persistida. Cada Resolve lee el snapshot más reciente: los cambios
// hechos desde otra sesión se ven en la siguiente operación.
type Resolver struct {
	repo repository.SettingsRepository
}

// NewResolver construye el resolver.
func NewResolver(repo repository.SettingsRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Defaults devuelve la configuración por defecto de un ámbito: impuestos
// apagados, redondeo activo solo en ventas, sin bloqueos, stock negativo no
// permitido.
func Defaults(companyID, scope string) *entity.PosSettings {
	return &entity.PosSettings{
		CompanyID:       companyID,
		Scope:           scope,
		TaxEnabled:      false,
		TaxType:         entity.TaxTypeExclusive,
		TaxRate:         decimal.Zero,
		RoundingEnabled: scope == entity.ScopeSales,
		VoucherPrefix:   defaultPrefix(scope),
	}
}

func defaultPrefix(scope string) string {
	if scope == entity.ScopePurchase {
		return "PUR"
	}
	return "INV"
}

// Resolve obtiene la configuración persistida o los defaults si no existe,
// normalizando campos vacíos.
func (r *Resolver) Resolve(ctx context.Context, companyID, scope string) (*entity.PosSettings, error) {
	if !ValidScope(scope) {
		return nil, domain.ErrInvalidInput
	}
	s, err := r.repo.Get(companyID, scope)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return Defaults(companyID, scope), nil
	}
	if s.TaxType == "" {
		s.TaxType = entity.TaxTypeExclusive
	}
	if s.VoucherPrefix == "" {
		s.VoucherPrefix = defaultPrefix(scope)
	}
	return s, nil
}

// Save valida y persiste la configuración (upsert por empresa+ámbito).
func (r *Resolver) Save(ctx context.Context, s *entity.PosSettings) error {
	if !ValidScope(s.Scope) {
		return domain.ErrInvalidInput
	}
	if s.TaxType != "" && s.TaxType != entity.TaxTypeExclusive && s.TaxType != entity.TaxTypeInclusive {
		return domain.ErrInvalidInput
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(hundred) {
		return domain.ErrInvalidInput
	}
	if s.TaxType == "" {
		s.TaxType = entity.TaxTypeExclusive
	}
	if s.VoucherPrefix == "" {
		s.VoucherPrefix = defaultPrefix(s.Scope)
	}
	s.UpdatedAt = time.Now()
	return r.repo.Upsert(s)
}

// ValidScope indica si el ámbito es uno de los soportados.
func ValidScope(scope string) bool {
	switch scope {
	case entity.ScopeSales, entity.ScopePurchase, entity.ScopeItem:
		return true
	}
	return false
}

// ScopeForInvoiceKind mapea el tipo de comprobante a su ámbito de
// configuración.
func ScopeForInvoiceKind(kind string) string {
	if kind == entity.InvoiceKindPurchase {
		return entity.ScopePurchase
	}
	return entity.ScopeSales
}
