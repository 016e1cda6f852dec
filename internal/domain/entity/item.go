package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo de la tienda.
// ListPrice es el precio de lista (MRP) antes de descuento; StockOnHand se
// muta únicamente vía incrementos atómicos en la base de datos, nunca por
// read-modify-write del cliente.
type Item struct {
	ID            string
	CompanyID     string
	Name          string
	Barcode       string // código escaneable; vacío si no tiene
	CategoryID    string
	ListPrice     decimal.Decimal // MRP
	PurchasePrice decimal.Decimal
	TaxRate       decimal.Decimal // porcentaje: 0, 5, 12, 18
	StockOnHand   decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
