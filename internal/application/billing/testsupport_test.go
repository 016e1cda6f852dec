package billing_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test en memoria. Reproducen los contratos de los repositorios
// (incluidos el decremento condicionado de stock y el contador fatal) sin DB.
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ── items ─────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.Item
}

var _ repository.ItemRepository = (*memItemRepo)(nil)

func newMemItemRepo(items ...*entity.Item) *memItemRepo {
	r := &memItemRepo{items: map[string]*entity.Item{}}
	for _, it := range items {
		cp := *it
		r.items[it.ID] = &cp
	}
	return r
}

func (r *memItemRepo) Create(item *entity.Item) error {
	if _, ok := r.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetByBarcode(companyID, barcode string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.CompanyID == companyID && it.Barcode == barcode {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range r.items {
		if it.CompanyID == companyID {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memItemRepo) Update(item *entity.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

// AdjustStock reproduce la sentencia condicionada: un decremento solo aplica
// si hay stock suficiente.
func (r *memItemRepo) AdjustStock(id string, delta decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if delta.IsNegative() && it.StockOnHand.LessThan(delta.Neg()) {
		return domain.ErrInsufficientStock
	}
	it.StockOnHand = it.StockOnHand.Add(delta)
	return nil
}

func (r *memItemRepo) stock(id string) decimal.Decimal {
	return r.items[id].StockOnHand
}

// ── customers ─────────────────────────────────────────────────────────────────

type memCustomerRepo struct {
	customers map[string]*entity.Customer
}

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

func newMemCustomerRepo(customers ...*entity.Customer) *memCustomerRepo {
	r := &memCustomerRepo{customers: map[string]*entity.Customer{}}
	for _, c := range customers {
		cp := *c
		r.customers[c.ID] = &cp
	}
	return r
}

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) GetByPhone(companyID, phone string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCustomerRepo) Update(c *entity.Customer) error {
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) ApplyBalanceDelta(id string, creditDelta, debitDelta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.CreditBalance = c.CreditBalance.Add(creditDelta)
	c.DebitBalance = c.DebitBalance.Add(debitDelta)
	return nil
}

// ── invoices ──────────────────────────────────────────────────────────────────

type memInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceItem
	payments map[string]map[string]decimal.Decimal
}

var _ repository.InvoiceRepository = (*memInvoiceRepo)(nil)

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices: map[string]*entity.Invoice{},
		lines:    map[string][]*entity.InvoiceItem{},
		payments: map[string]map[string]decimal.Decimal{},
	}
}

func (r *memInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	cp := *item
	r.lines[item.InvoiceID] = append(r.lines[item.InvoiceID], &cp)
	return nil
}

func (r *memInvoiceRepo) CreatePayment(p *entity.InvoicePayment) error {
	if r.payments[p.InvoiceID] == nil {
		r.payments[p.InvoiceID] = map[string]decimal.Decimal{}
	}
	r.payments[p.InvoiceID][p.Method] = p.Amount
	return nil
}

func (r *memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

// GetByIDForUpdate en memoria equivale a GetByID; la serialización real la
// da el bloqueo de fila en PostgreSQL. Lo que importa al caso de uso es que
// la lectura ocurra dentro del callback transaccional.
func (r *memInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.GetByID(id)
}

func (r *memInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	for _, l := range r.lines[invoiceID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memInvoiceRepo) GetPaymentsByInvoiceID(invoiceID string) ([]*entity.InvoicePayment, error) {
	var out []*entity.InvoicePayment
	for method, amount := range r.payments[invoiceID] {
		out = append(out, &entity.InvoicePayment{InvoiceID: invoiceID, Method: method, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}

func (r *memInvoiceRepo) ListByCompany(companyID, kind string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.CompanyID == companyID && (kind == "" || inv.Kind == kind) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) UpdateTotals(inv *entity.Invoice) error {
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Subtotal = inv.Subtotal
	stored.TotalDiscount = inv.TotalDiscount
	stored.RoundOff = inv.RoundOff
	stored.TaxableAmount = inv.TaxableAmount
	stored.TaxAmount = inv.TaxAmount
	stored.TotalAmount = inv.TotalAmount
	stored.UpdatedAt = inv.UpdatedAt
	return nil
}

func (r *memInvoiceRepo) AddToPayment(invoiceID, method string, amount decimal.Decimal) error {
	if r.payments[invoiceID] == nil {
		r.payments[invoiceID] = map[string]decimal.Decimal{}
	}
	r.payments[invoiceID][method] = r.payments[invoiceID][method].Add(amount)
	return nil
}

func (r *memInvoiceRepo) SetPayment(invoiceID, method string, amount decimal.Decimal) error {
	if r.payments[invoiceID] == nil {
		r.payments[invoiceID] = map[string]decimal.Decimal{}
	}
	r.payments[invoiceID][method] = amount
	return nil
}

// ── counters ──────────────────────────────────────────────────────────────────

type memCounterRepo struct {
	values map[string]int64 // key: companyID|kind
}

var _ repository.CounterRepository = (*memCounterRepo)(nil)

func newMemCounterRepo() *memCounterRepo {
	return &memCounterRepo{values: map[string]int64{}}
}

func (r *memCounterRepo) seed(companyID, kind string, value int64) {
	r.values[companyID+"|"+kind] = value
}

func (r *memCounterRepo) get(companyID, kind string) int64 {
	return r.values[companyID+"|"+kind]
}

// Increment reproduce el contrato fatal: fila ausente = ErrCounterMissing.
func (r *memCounterRepo) Increment(companyID, kind string) (int64, error) {
	key := companyID + "|" + kind
	if _, ok := r.values[key]; !ok {
		return 0, domain.ErrCounterMissing
	}
	r.values[key]++
	return r.values[key], nil
}

func (r *memCounterRepo) UpsertIncrement(companyID, kind string, start int64) (int64, error) {
	key := companyID + "|" + kind
	if _, ok := r.values[key]; !ok {
		r.values[key] = start
	} else {
		r.values[key]++
	}
	return r.values[key], nil
}

// ── tx runner / resolver ──────────────────────────────────────────────────────

// memTxRunner pasa los repos en memoria al callback. No simula rollback: los
// tests que esperan fallo verifican el error, no el estado intermedio.
// beforeTx, si está definido, corre justo antes del callback: permite simular
// una edición rival confirmada entre la lectura preliminar y la transacción.
type memTxRunner struct {
	items     *memItemRepo
	customers *memCustomerRepo
	invoices  *memInvoiceRepo
	counters  *memCounterRepo
	beforeTx  func()
}

var _ billing.POSTxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) RunPOS(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	counterRepo repository.CounterRepository,
) error) error {
	if r.beforeTx != nil {
		r.beforeTx()
	}
	return fn(r.items, r.customers, r.invoices, r.counters)
}

// stubResolver devuelve siempre la misma configuración.
type stubResolver struct {
	settings *entity.PosSettings
}

var _ billing.SettingsResolver = (*stubResolver)(nil)

func (s *stubResolver) Resolve(ctx context.Context, companyID, scope string) (*entity.PosSettings, error) {
	cp := *s.settings
	cp.CompanyID = companyID
	cp.Scope = scope
	return &cp, nil
}
