package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, voucher_no, kind, party_name, party_number, customer_id,
	subtotal, total_discount, round_off, taxable_amount, tax_amount, tax_type, total_amount,
	applied_credit, applied_debit, salesman, created_by, created_at, updated_at`

// Create persiste la cabecera del comprobante.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CompanyID, invoice.VoucherNo, invoice.Kind,
		nullIfEmpty(invoice.PartyName), nullIfEmpty(invoice.PartyNumber), nullIfEmpty(invoice.CustomerID),
		invoice.Subtotal, invoice.TotalDiscount, invoice.RoundOff, invoice.TaxableAmount,
		invoice.TaxAmount, invoice.TaxType, invoice.TotalAmount,
		invoice.AppliedCredit, invoice.AppliedDebit,
		nullIfEmpty(invoice.Salesman), invoice.CreatedBy, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del comprobante.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, item_id, name, list_price, quantity, discount_pct, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ItemID, item.Name,
		item.ListPrice, item.Quantity, item.DiscountPct, item.UnitPrice, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// CreatePayment persiste la asignación de un método de pago.
func (r *InvoiceRepo) CreatePayment(payment *entity.InvoicePayment) error {
	query := `
		INSERT INTO invoice_payments (invoice_id, method, amount)
		VALUES ($1, $2, $3)`
	_, err := r.q.Exec(context.Background(), query,
		payment.InvoiceID, payment.Method, payment.Amount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice payment: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de un comprobante.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetByIDForUpdate obtiene la cabecera con SELECT ... FOR UPDATE: la fila
// queda bloqueada hasta el commit, así que la segunda edición concurrente
// espera y lee los totales ya actualizados por la primera.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetItemsByInvoiceID lista las líneas de un comprobante.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, item_id, name, list_price, quantity, discount_pct, unit_price, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ItemID, &it.Name,
			&it.ListPrice, &it.Quantity, &it.DiscountPct, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// GetPaymentsByInvoiceID lista los pagos de un comprobante.
func (r *InvoiceRepo) GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error) {
	query := `SELECT invoice_id, method, amount FROM invoice_payments WHERE invoice_id = $1 ORDER BY method`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoicePayment
	for rows.Next() {
		var p entity.InvoicePayment
		if err := rows.Scan(&p.InvoiceID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListByCompany lista comprobantes de la empresa, opcionalmente filtrados por tipo.
func (r *InvoiceRepo) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateTotals actualiza el snapshot de totales de la cabecera (modo edición).
func (r *InvoiceRepo) UpdateTotals(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET subtotal = $2, total_discount = $3, round_off = $4,
			taxable_amount = $5, tax_amount = $6, total_amount = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Subtotal, invoice.TotalDiscount, invoice.RoundOff,
		invoice.TaxableAmount, invoice.TaxAmount, invoice.TotalAmount, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddToPayment fusiona por suma el monto sobre el método, creando la fila si
// no existía. Un upsert atómico: dos ediciones concurrentes no pierden montos.
func (r *InvoiceRepo) AddToPayment(invoiceID, method string, amount decimal.Decimal) error {
	query := `
		INSERT INTO invoice_payments (invoice_id, method, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (invoice_id, method) DO UPDATE SET amount = invoice_payments.amount + EXCLUDED.amount`
	_, err := r.q.Exec(context.Background(), query, invoiceID, method, amount)
	if err != nil {
		return fmt.Errorf("add to payment: %w", err)
	}
	return nil
}

// SetPayment fija el monto del método (reemplazo, no suma). Se usa para "due",
// que siempre se recalcula desde el total.
func (r *InvoiceRepo) SetPayment(invoiceID, method string, amount decimal.Decimal) error {
	query := `
		INSERT INTO invoice_payments (invoice_id, method, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (invoice_id, method) DO UPDATE SET amount = EXCLUDED.amount`
	_, err := r.q.Exec(context.Background(), query, invoiceID, method, amount)
	if err != nil {
		return fmt.Errorf("set payment: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var partyName, partyNumber, customerID, salesman *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.VoucherNo, &inv.Kind,
		&partyName, &partyNumber, &customerID,
		&inv.Subtotal, &inv.TotalDiscount, &inv.RoundOff, &inv.TaxableAmount,
		&inv.TaxAmount, &inv.TaxType, &inv.TotalAmount,
		&inv.AppliedCredit, &inv.AppliedDebit,
		&salesman, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	if partyName != nil {
		inv.PartyName = *partyName
	}
	if partyNumber != nil {
		inv.PartyNumber = *partyNumber
	}
	if customerID != nil {
		inv.CustomerID = *customerID
	}
	if salesman != nil {
		inv.Salesman = *salesman
	}
	return &inv, nil
}
