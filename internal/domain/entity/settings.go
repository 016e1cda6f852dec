package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ámbitos de configuración POS (una fila por empresa y ámbito).
const (
	ScopeSales    = "sales"
	ScopePurchase = "purchase"
	ScopeItem     = "item"
)

// Modos de impuesto.
const (
	TaxTypeExclusive = "exclusive" // impuesto sumado sobre la base
	TaxTypeInclusive = "inclusive" // impuesto contenido en el precio
)

// PosSettings es la configuración de negocio por empresa y ámbito.
// Inmutable durante una transacción: el motor de precios siempre lee el
// snapshot más reciente al iniciar la operación.
type PosSettings struct {
	CompanyID          string
	Scope              string // sales | purchase | item
	TaxEnabled         bool
	TaxType            string          // exclusive | inclusive
	TaxRate            decimal.Decimal // porcentaje, ej. 18
	RoundingEnabled    bool
	DiscountLocked     bool // descuentos bloqueados (desbloqueo es gesto de UI)
	PriceEditLocked    bool // edición de precio unitario bloqueada
	EnforceExactMRP    bool // obliga a vender exactamente al precio de lista
	RequirePartyName   bool
	RequirePartyNumber bool
	AllowNegativeStock bool // si es true NO se descuenta stock al vender
	AutoBarcode        bool // generar código de barras al crear artículo sin código
	VoucherPrefix      string
	UpdatedAt          time.Time
}
