package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implementación de SettingsRepository (usable con pool o tx).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

const settingsColumns = `company_id, scope, tax_enabled, tax_type, tax_rate, rounding_enabled,
	discount_locked, price_edit_locked, enforce_exact_mrp, require_party_name, require_party_number,
	allow_negative_stock, auto_barcode, voucher_prefix, updated_at`

// Get obtiene la configuración de la empresa para el ámbito.
// Retorna (nil, nil) si no hay fila: el resolver aplica los defaults.
func (r *SettingsRepo) Get(companyID, scope string) (*entity.PosSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM pos_settings WHERE company_id = $1 AND scope = $2`
	var s entity.PosSettings
	err := r.q.QueryRow(context.Background(), query, companyID, scope).Scan(
		&s.CompanyID, &s.Scope, &s.TaxEnabled, &s.TaxType, &s.TaxRate, &s.RoundingEnabled,
		&s.DiscountLocked, &s.PriceEditLocked, &s.EnforceExactMRP, &s.RequirePartyName, &s.RequirePartyNumber,
		&s.AllowNegativeStock, &s.AutoBarcode, &s.VoucherPrefix, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Upsert inserta o reemplaza la fila completa del ámbito.
func (r *SettingsRepo) Upsert(settings *entity.PosSettings) error {
	query := `
		INSERT INTO pos_settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_id, scope) DO UPDATE SET
			tax_enabled = EXCLUDED.tax_enabled,
			tax_type = EXCLUDED.tax_type,
			tax_rate = EXCLUDED.tax_rate,
			rounding_enabled = EXCLUDED.rounding_enabled,
			discount_locked = EXCLUDED.discount_locked,
			price_edit_locked = EXCLUDED.price_edit_locked,
			enforce_exact_mrp = EXCLUDED.enforce_exact_mrp,
			require_party_name = EXCLUDED.require_party_name,
			require_party_number = EXCLUDED.require_party_number,
			allow_negative_stock = EXCLUDED.allow_negative_stock,
			auto_barcode = EXCLUDED.auto_barcode,
			voucher_prefix = EXCLUDED.voucher_prefix,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		settings.CompanyID, settings.Scope, settings.TaxEnabled, settings.TaxType, settings.TaxRate,
		settings.RoundingEnabled, settings.DiscountLocked, settings.PriceEditLocked, settings.EnforceExactMRP,
		settings.RequirePartyName, settings.RequirePartyNumber, settings.AllowNegativeStock,
		settings.AutoBarcode, settings.VoucherPrefix, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
