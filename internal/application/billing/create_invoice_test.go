package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

const (
	testCompanyID = "co-1"
	testUserID    = "user-1"
)

// fixture arma el caso de uso completo sobre repos en memoria.
type fixture struct {
	items     *memItemRepo
	customers *memCustomerRepo
	invoices  *memInvoiceRepo
	counters  *memCounterRepo
	tx        *memTxRunner
	uc        *billing.CreateInvoiceUseCase
}

func newFixture(settings *entity.PosSettings, items ...*entity.Item) *fixture {
	f := &fixture{
		items:     newMemItemRepo(items...),
		customers: newMemCustomerRepo(),
		invoices:  newMemInvoiceRepo(),
		counters:  newMemCounterRepo(),
	}
	// Contadores por empresa provisionados (como hace cmd/seed)
	f.counters.seed(testCompanyID, entity.CounterKindSales, 0)
	f.counters.seed(testCompanyID, entity.CounterKindPurchase, 0)

	f.tx = &memTxRunner{items: f.items, customers: f.customers, invoices: f.invoices, counters: f.counters}
	voucherSeq := billing.NewCounterVoucherSequence(f.counters)
	f.uc = billing.NewCreateInvoiceUseCase(f.tx, &stubResolver{settings: settings}, f.items, f.customers, f.invoices, voucherSeq)
	return f
}

func itemA() *entity.Item {
	return &entity.Item{
		ID: "item-a", CompanyID: testCompanyID, Name: "Artículo A",
		ListPrice: dec("100"), StockOnHand: dec("5"),
	}
}

func salesSettings() *entity.PosSettings {
	return &entity.PosSettings{
		TaxEnabled: true, TaxType: entity.TaxTypeExclusive, TaxRate: dec("18"),
		RoundingEnabled: true, VoucherPrefix: "INV",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateInvoice — camino feliz
// ──────────────────────────────────────────────────────────────────────────────

// Venta completa: 100 − 10% = 90, IVA 18% = 16.2, redondeo 106.2 → 110.
// Numera, descuenta stock e incrementa el contador de ventas, todo junto.
func TestCreateInvoice_VentaCompleta(t *testing.T) {
	f := newFixture(salesSettings(), itemA())

	resp, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines: []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), DiscountPct: dec("10")}},
		Payments: map[string]decimal.Decimal{
			entity.PaymentCash: dec("60"),
			entity.PaymentUPI:  dec("50"),
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(dec("110")), "total %s", resp.TotalAmount)
	assert.True(t, resp.TaxAmount.Equal(dec("16.2")))
	assert.True(t, resp.RoundOff.Equal(dec("3.8")))
	assert.Equal(t, entity.InvoiceKindSales, resp.Kind)

	// Primer comprobante: contador compartido arranca en 1001
	expectedVoucher := billing.FormatVoucher("INV", time.Now(), 1001)
	assert.Equal(t, expectedVoucher, resp.VoucherNo)

	// Stock descontado 5 → 4
	assert.True(t, f.items.stock("item-a").Equal(dec("4")), "stock %s", f.items.stock("item-a"))

	// Contador por empresa incrementado exactamente una vez
	assert.Equal(t, int64(1), f.counters.get(testCompanyID, entity.CounterKindSales))

	// Pagos persistidos tal como llegaron
	payments, _ := f.invoices.GetPaymentsByInvoiceID(resp.ID)
	require.Len(t, payments, 2)
}

// Dos ventas seguidas reciben números estrictamente crecientes.
func TestCreateInvoice_NumeracionCreciente(t *testing.T) {
	f := newFixture(salesSettings(), itemA())
	req := dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("120")},
	}
	// Sin descuento: 100 + 18% = 118 → redondeado 120
	first, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, req)
	require.NoError(t, err)
	second, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, req)
	require.NoError(t, err)

	assert.Equal(t, billing.FormatVoucher("INV", time.Now(), 1001), first.VoucherNo)
	assert.Equal(t, billing.FormatVoucher("INV", time.Now(), 1002), second.VoucherNo)
}

// La compra aumenta el stock en vez de descontarlo.
func TestCreateInvoice_CompraAumentaStock(t *testing.T) {
	s := &entity.PosSettings{VoucherPrefix: "PUR"}
	f := newFixture(s, itemA())

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Kind:     entity.InvoiceKindPurchase,
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("3")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("300")},
	})
	require.NoError(t, err)

	assert.True(t, f.items.stock("item-a").Equal(dec("8")), "stock %s", f.items.stock("item-a"))
	assert.Equal(t, int64(1), f.counters.get(testCompanyID, entity.CounterKindPurchase))
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateInvoice — crédito y débito del cliente
// ──────────────────────────────────────────────────────────────────────────────

// Total 110 con crédito 30 y débito 50: los medios de pago cubren 30 y los
// saldos del cliente quedan en cero (decremento atómico dentro del commit).
func TestCreateInvoice_AplicaSaldosDelCliente(t *testing.T) {
	f := newFixture(salesSettings(), itemA())
	require.NoError(t, f.customers.Create(&entity.Customer{
		ID: "cust-1", CompanyID: testCompanyID, Name: "Cliente", Phone: "555",
		CreditBalance: dec("30"), DebitBalance: dec("50"),
	}))

	resp, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		CustomerID: "cust-1", UseCredit: true, UseDebit: true,
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), DiscountPct: dec("10")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("30")},
	})
	require.NoError(t, err)

	assert.True(t, resp.AppliedCredit.Equal(dec("30")))
	assert.True(t, resp.AppliedDebit.Equal(dec("50")))

	cust, _ := f.customers.GetByID("cust-1")
	assert.True(t, cust.CreditBalance.IsZero(), "crédito restante %s", cust.CreditBalance)
	assert.True(t, cust.DebitBalance.IsZero(), "débito restante %s", cust.DebitBalance)
}

// Cliente de otra empresa: acceso denegado.
func TestCreateInvoice_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(salesSettings(), itemA())
	require.NoError(t, f.customers.Create(&entity.Customer{
		ID: "cust-x", CompanyID: "otra-empresa", Name: "Ajeno", Phone: "999",
	}))

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		CustomerID: "cust-x",
		Lines:      []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments:   map[string]decimal.Decimal{entity.PaymentCash: dec("120")},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateInvoice — rechazos
// ──────────────────────────────────────────────────────────────────────────────

// Pagos que no cuadran con el total: nada se persiste.
func TestCreateInvoice_PagosDescuadrados(t *testing.T) {
	f := newFixture(salesSettings(), itemA())

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), DiscountPct: dec("10")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")}, // total es 110
	})
	assert.ErrorIs(t, err, domain.ErrAllocationMismatch)

	assert.True(t, f.items.stock("item-a").Equal(dec("5")), "el stock no debe cambiar")
	assert.Equal(t, int64(0), f.counters.get(testCompanyID, entity.CounterKindSales))
	invoices, _ := f.invoices.ListByCompany(testCompanyID, "", 100, 0)
	assert.Empty(t, invoices)
}

// Stock insuficiente con control activo: la venta se rechaza.
func TestCreateInvoice_StockInsuficiente(t *testing.T) {
	f := newFixture(&entity.PosSettings{VoucherPrefix: "INV"}, itemA())

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("6")}}, // solo hay 5
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("600")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Stock negativo permitido: se vende más de lo que hay y el stock NI SE TOCA.
func TestCreateInvoice_StockNegativoPermitidoNoDescuenta(t *testing.T) {
	s := &entity.PosSettings{AllowNegativeStock: true, VoucherPrefix: "INV"}
	f := newFixture(s, itemA())

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("6")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("600")},
	})
	require.NoError(t, err)
	assert.True(t, f.items.stock("item-a").Equal(dec("5")),
		"con stock negativo permitido el stock no se ajusta en absoluto")
}

// Contador de la empresa sin provisionar: fallo explícito, nunca silencioso.
func TestCreateInvoice_ContadorAusenteEsFatal(t *testing.T) {
	f := newFixture(&entity.PosSettings{VoucherPrefix: "INV"}, itemA())
	f.counters.values = map[string]int64{} // sin seed

	_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")},
	})
	assert.ErrorIs(t, err, domain.ErrCounterMissing)
}

// Cantidades fraccionarias o menores a 1 se rechazan.
func TestCreateInvoice_CantidadInvalida(t *testing.T) {
	f := newFixture(&entity.PosSettings{VoucherPrefix: "INV"}, itemA())

	for _, qty := range []string{"0", "0.5", "-1", "1.25"} {
		_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
			Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec(qty)}},
			Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "qty=%s debe rechazarse", qty)
	}
}

// Bloqueos de configuración: descuento, precio manual y datos del cliente.
func TestCreateInvoice_BloqueosDeConfiguracion(t *testing.T) {
	base := dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")},
	}

	t.Run("descuento bloqueado", func(t *testing.T) {
		f := newFixture(&entity.PosSettings{DiscountLocked: true}, itemA())
		req := base
		req.Lines = []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), DiscountPct: dec("5")}}
		_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, req)
		assert.ErrorIs(t, err, domain.ErrDiscountLocked)
	})

	t.Run("precio bloqueado", func(t *testing.T) {
		f := newFixture(&entity.PosSettings{PriceEditLocked: true}, itemA())
		custom := dec("95")
		req := base
		req.Lines = []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), CustomUnitPrice: &custom}}
		_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, req)
		assert.ErrorIs(t, err, domain.ErrPriceLocked)
	})

	t.Run("nombre del cliente obligatorio", func(t *testing.T) {
		f := newFixture(&entity.PosSettings{RequirePartyName: true}, itemA())
		_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, base)
		assert.ErrorIs(t, err, domain.ErrPartyRequired)
	})

	t.Run("MRP exacto", func(t *testing.T) {
		f := newFixture(&entity.PosSettings{EnforceExactMRP: true}, itemA())
		req := base
		req.Lines = []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1"), DiscountPct: dec("1")}}
		_, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// AppendToInvoice — modo edición
// ──────────────────────────────────────────────────────────────────────────────

// Agregar una línea: solo la nueva se persiste, los totales se acumulan y los
// pagos se fusionan por suma, con "due" recalculado como saldo restante.
func TestAppendToInvoice_AgregaLineasYFusionaPagos(t *testing.T) {
	s := &entity.PosSettings{VoucherPrefix: "INV"} // sin impuesto ni redondeo
	itemB := &entity.Item{
		ID: "item-b", CompanyID: testCompanyID, Name: "Artículo B",
		ListPrice: dec("50"), StockOnHand: dec("10"),
	}
	f := newFixture(s, itemA(), itemB)

	created, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")},
	})
	require.NoError(t, err)
	require.True(t, created.TotalAmount.Equal(dec("100")))

	resp, err := f.uc.AppendToInvoice(context.Background(), testCompanyID, testUserID, created.ID, dto.AppendInvoiceRequest{
		Lines: []dto.CartLineRequest{{ItemID: "item-b", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{
			entity.PaymentCash: dec("30"),
			entity.PaymentDue:  dec("999"), // "due" entrante se ignora: se recalcula
		},
	})
	require.NoError(t, err)

	// Totales acumulados: 100 + 50
	assert.True(t, resp.TotalAmount.Equal(dec("150")), "total %s", resp.TotalAmount)
	assert.Len(t, resp.Lines, 2, "la línea original más la nueva")

	// Pagos: cash 100+30 = 130; due recalculado = 150 − 130 = 20
	assert.True(t, resp.Payments[entity.PaymentCash].Equal(dec("130")), "cash %s", resp.Payments[entity.PaymentCash])
	assert.True(t, resp.Payments[entity.PaymentDue].Equal(dec("20")), "due %s", resp.Payments[entity.PaymentDue])

	// Stock de la línea nueva descontado
	assert.True(t, f.items.stock("item-b").Equal(dec("9")))

	// El número de comprobante NO cambia ni se incrementa el contador otra vez
	assert.Equal(t, created.VoucherNo, resp.VoucherNo)
	assert.Equal(t, int64(1), f.counters.get(testCompanyID, entity.CounterKindSales))
}

// Dos ediciones del mismo comprobante que se cruzan: una rival confirma entre
// la lectura preliminar y la transacción de esta. Los totales base se releen
// bloqueados dentro de la transacción, así que el aporte de la rival no se
// pierde y "due" se calcula sobre el total vigente, no sobre uno obsoleto.
func TestAppendToInvoice_EdicionConcurrenteNoPierdeTotales(t *testing.T) {
	s := &entity.PosSettings{VoucherPrefix: "INV"}
	itemB := &entity.Item{
		ID: "item-b", CompanyID: testCompanyID, Name: "Artículo B",
		ListPrice: dec("50"), StockOnHand: dec("10"),
	}
	f := newFixture(s, itemA(), itemB)

	created, err := f.uc.CreateInvoice(context.Background(), testCompanyID, testUserID, dto.CreateInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("100")},
	})
	require.NoError(t, err)

	// La rival confirma su edición (+50 en totales, +50 en efectivo) después
	// de que esta ya leyó la cabecera pero antes de su transacción.
	f.tx.beforeTx = func() {
		f.tx.beforeTx = nil
		rival, err := f.invoices.GetByID(created.ID)
		require.NoError(t, err)
		rival.Subtotal = rival.Subtotal.Add(dec("50"))
		rival.TaxableAmount = rival.TaxableAmount.Add(dec("50"))
		rival.TotalAmount = rival.TotalAmount.Add(dec("50"))
		require.NoError(t, f.invoices.UpdateTotals(rival))
		require.NoError(t, f.invoices.AddToPayment(created.ID, entity.PaymentCash, dec("50")))
	}

	resp, err := f.uc.AppendToInvoice(context.Background(), testCompanyID, testUserID, created.ID, dto.AppendInvoiceRequest{
		Lines:    []dto.CartLineRequest{{ItemID: "item-b", Quantity: dec("1")}},
		Payments: map[string]decimal.Decimal{entity.PaymentCash: dec("50")},
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(dec("200")),
		"100 iniciales + 50 de la rival + 50 propios, quedó %s", resp.TotalAmount)
	assert.True(t, resp.Payments[entity.PaymentCash].Equal(dec("200")), "cash %s", resp.Payments[entity.PaymentCash])
	assert.True(t, resp.Payments[entity.PaymentDue].IsZero(),
		"con el total vigente los pagos cubren todo, due %s", resp.Payments[entity.PaymentDue])
}

func TestAppendToInvoice_ComprobanteInexistente(t *testing.T) {
	f := newFixture(&entity.PosSettings{}, itemA())
	_, err := f.uc.AppendToInvoice(context.Background(), testCompanyID, testUserID, "no-existe", dto.AppendInvoiceRequest{
		Lines: []dto.CartLineRequest{{ItemID: "item-a", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendToInvoice_SinLineasNuevas(t *testing.T) {
	f := newFixture(&entity.PosSettings{}, itemA())
	_, err := f.uc.AppendToInvoice(context.Background(), testCompanyID, testUserID, "cualquiera", dto.AppendInvoiceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
