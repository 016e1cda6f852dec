package dto

import "github.com/shopspring/decimal"

// CartLineRequest línea del carrito en POST /api/invoices.
// CustomUnitPrice opcional; un valor negativo se ignora (se usa el precio
// calculado con descuento).
type CartLineRequest struct {
	ItemID          string           `json:"item_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	DiscountPct     decimal.Decimal  `json:"discount_pct"`
	CustomUnitPrice *decimal.Decimal `json:"custom_unit_price,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Payments mapea método ("cash","upi","card","credit_note","due") → monto;
// la suma (incluido due) debe cuadrar con el total a pagar menos el crédito y
// débito aplicados, con tolerancia de 0.01.
type CreateInvoiceRequest struct {
	Kind        string                     `json:"kind,omitempty"` // sales (default) | purchase
	PartyName   string                     `json:"party_name,omitempty"`
	PartyNumber string                     `json:"party_number,omitempty"`
	CustomerID  string                     `json:"customer_id,omitempty"`
	UseCredit   bool                       `json:"use_credit,omitempty"`
	UseDebit    bool                       `json:"use_debit,omitempty"`
	Salesman    string                     `json:"salesman,omitempty"`
	Lines       []CartLineRequest          `json:"lines"`
	Payments    map[string]decimal.Decimal `json:"payments"`
}

// AppendInvoiceRequest body para POST /api/invoices/:id/lines (modo edición):
// solo líneas nuevas; las ya persistidas nunca se modifican ni duplican.
type AppendInvoiceRequest struct {
	Lines    []CartLineRequest          `json:"lines"`
	Payments map[string]decimal.Decimal `json:"payments"`
}

// InvoiceLineResponse línea persistida en la respuesta.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	ListPrice   decimal.Decimal `json:"list_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse comprobante completo.
type InvoiceResponse struct {
	ID            string                     `json:"id"`
	CompanyID     string                     `json:"company_id"`
	VoucherNo     string                     `json:"voucher_no"`
	Kind          string                     `json:"kind"`
	PartyName     string                     `json:"party_name,omitempty"`
	PartyNumber   string                     `json:"party_number,omitempty"`
	Subtotal      decimal.Decimal            `json:"subtotal"`
	TotalDiscount decimal.Decimal            `json:"total_discount"`
	RoundOff      decimal.Decimal            `json:"round_off"`
	TaxableAmount decimal.Decimal            `json:"taxable_amount"`
	TaxAmount     decimal.Decimal            `json:"tax_amount"`
	TaxType       string                     `json:"tax_type,omitempty"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	AppliedCredit decimal.Decimal            `json:"applied_credit"`
	AppliedDebit  decimal.Decimal            `json:"applied_debit"`
	Salesman      string                     `json:"salesman,omitempty"`
	Date          string                     `json:"date"`
	Lines         []InvoiceLineResponse      `json:"lines"`
	Payments      map[string]decimal.Decimal `json:"payments"`
}

// SettingsRequest body para PUT /api/settings/:scope.
type SettingsRequest struct {
	TaxEnabled         bool            `json:"tax_enabled"`
	TaxType            string          `json:"tax_type,omitempty"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	RoundingEnabled    bool            `json:"rounding_enabled"`
	DiscountLocked     bool            `json:"discount_locked"`
	PriceEditLocked    bool            `json:"price_edit_locked"`
	EnforceExactMRP    bool            `json:"enforce_exact_mrp"`
	RequirePartyName   bool            `json:"require_party_name"`
	RequirePartyNumber bool            `json:"require_party_number"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	AutoBarcode        bool            `json:"auto_barcode"`
	VoucherPrefix      string          `json:"voucher_prefix,omitempty"`
}

// SettingsResponse configuración resuelta (con defaults aplicados).
type SettingsResponse struct {
	CompanyID string `json:"company_id"`
	Scope     string `json:"scope"`
	SettingsRequest
}
