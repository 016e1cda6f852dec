package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia de comprobantes.
//
// En modo edición: AddToPayment fusiona por suma sobre un método existente
// (upsert atómico); SetPayment reemplaza el monto (usado solo para "due",
// que se recalcula, no se suma).
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	CreatePayment(payment *entity.InvoicePayment) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate lee la cabecera bloqueando la fila hasta el commit.
	// Solo tiene sentido dentro de una transacción: serializa a dos ediciones
	// concurrentes del mismo comprobante.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error)
	ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Invoice, error)
	UpdateTotals(invoice *entity.Invoice) error
	AddToPayment(invoiceID, method string, amount decimal.Decimal) error
	SetPayment(invoiceID, method string, amount decimal.Decimal) error
}
