package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	ListPrice     decimal.Decimal `json:"list_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	StockOnHand   decimal.Decimal `json:"stock_on_hand"`
}

// ItemResponse artículo en respuestas.
type ItemResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	ListPrice     decimal.Decimal `json:"list_price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	StockOnHand   decimal.Decimal `json:"stock_on_hand"`
}

// ImportRowError error de una fila del import masivo (fila 1 = primera fila
// de datos, sin contar la cabecera).
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResponse resultado agregado del import masivo: las filas con error se
// reportan juntas al final, una fila mala no aborta las siguientes.
type ImportResponse struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CustomerResponse cliente con saldos en respuestas.
type CustomerResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
}
