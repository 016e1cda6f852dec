package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de comprobante.
const (
	InvoiceKindSales    = "sales"
	InvoiceKindPurchase = "purchase"
)

// Métodos de pago soportados. "due" es el saldo pendiente que queda como
// deuda del cliente; no es un medio de pago real y nunca se suma al fusionar
// pagos en modo edición (se recalcula).
const (
	PaymentCash       = "cash"
	PaymentUPI        = "upi"
	PaymentCard       = "card"
	PaymentCreditNote = "credit_note"
	PaymentDue        = "due"
)

// Invoice es la cabecera de un comprobante de venta o compra.
// Los totales son el snapshot inmutable calculado al confirmar; en modo
// edición solo se agregan líneas nuevas y se fusionan pagos, las líneas ya
// persistidas no se tocan.
type Invoice struct {
	ID            string
	CompanyID     string
	VoucherNo     string // consecutivo legible, ej. INV-202608-1001
	Kind          string // sales | purchase
	PartyName     string
	PartyNumber   string
	CustomerID    string // opcional: cliente registrado (saldos crédito/débito)
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	RoundOff      decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	TaxType       string
	TotalAmount   decimal.Decimal
	AppliedCredit decimal.Decimal
	AppliedDebit  decimal.Decimal
	Salesman      string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem es una línea persistida del comprobante (snapshot post-cálculo).
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ItemID      string
	Name        string
	ListPrice   decimal.Decimal // MRP al momento de la venta
	Quantity    decimal.Decimal
	DiscountPct decimal.Decimal
	UnitPrice   decimal.Decimal // precio efectivo cobrado por unidad
	LineTotal   decimal.Decimal
}

// InvoicePayment es el monto asignado a un método de pago en un comprobante.
type InvoicePayment struct {
	InvoiceID string
	Method    string
	Amount    decimal.Decimal
}
