package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	appsettings "github.com/jhoicas/pos-api/internal/application/settings"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/payment"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CreateInvoiceUseCase confirma comprobantes de venta/compra: calcula totales
// con el motor de precios, valida la asignación de pagos y persiste todo en
// una sola transacción (comprobante + ajustes de stock + contador + saldos
// del cliente). Nada se escribe hasta el commit final: cerrar la caja antes
// de confirmar descarta todo sin efectos parciales.
type CreateInvoiceUseCase struct {
	txRunner     POSTxRunner
	resolver     SettingsResolver
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	voucherSeq   VoucherSequence
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner POSTxRunner,
	resolver SettingsResolver,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	voucherSeq VoucherSequence,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		resolver:     resolver,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		voucherSeq:   voucherSeq,
	}
}

// CreateInvoice confirma un comprobante nuevo.
//
// El número de comprobante se emite en su propia transacción corta ANTES del
// commit principal (ver VoucherSequence); el incremento del contador por
// empresa y tipo sí ocurre dentro del commit y es obligatorio: si la fila no
// existe, toda la transacción falla (ErrCounterMissing), nunca se omite en
// silencio.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	kind := in.Kind
	if kind == "" {
		kind = entity.InvoiceKindSales
	}
	if kind != entity.InvoiceKindSales && kind != entity.InvoiceKindPurchase {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	cfg, err := uc.resolver.Resolve(ctx, companyID, appsettings.ScopeForInvoiceKind(kind))
	if err != nil {
		return nil, err
	}

	// Campos obligatorios según configuración
	if cfg.RequirePartyName && in.PartyName == "" {
		return nil, domain.ErrPartyRequired
	}
	if cfg.RequirePartyNumber && in.PartyNumber == "" {
		return nil, domain.ErrPartyRequired
	}

	cartLines, err := uc.buildCartLines(companyID, in.Lines, cfg)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(cartLines, cfg)

	// Crédito/débito del cliente: reducen lo que deben cubrir los medios de
	// pago. Cliente no encontrado = sin saldos previos (no es error).
	appliedCredit := decimal.Zero
	appliedDebit := decimal.Zero
	var customer *entity.Customer
	if kind == entity.InvoiceKindSales && in.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil && customer.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if customer != nil {
			appliedCredit, appliedDebit = payment.ApplyBalances(
				totals.FinalAmount, customer.CreditBalance, customer.DebitBalance,
				in.UseCredit, in.UseDebit,
			)
		}
	}

	payable := totals.FinalAmount.Sub(appliedCredit).Sub(appliedDebit)
	alloc := payment.Allocation(in.Payments)
	if err := payment.Validate(alloc, payable); err != nil {
		return nil, err
	}

	now := time.Now()
	voucherNo, err := uc.voucherSeq.Next(ctx, cfg.VoucherPrefix, now)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		VoucherNo:     voucherNo,
		Kind:          kind,
		PartyName:     in.PartyName,
		PartyNumber:   in.PartyNumber,
		CustomerID:    in.CustomerID,
		Subtotal:      totals.Subtotal,
		TotalDiscount: totals.TotalDiscount,
		RoundOff:      totals.RoundOff,
		TaxableAmount: totals.TaxableAmount,
		TaxAmount:     totals.TaxAmount,
		TaxType:       taxTypeLabel(cfg),
		TotalAmount:   totals.FinalAmount,
		AppliedCredit: appliedCredit,
		AppliedDebit:  appliedDebit,
		Salesman:      in.Salesman,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	lineEntities := buildLineEntities(inv.ID, cartLines, cfg)

	err = uc.txRunner.RunPOS(ctx, func(
		itemRepo repository.ItemRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		counterRepo repository.CounterRepository,
	) error {
		// 1) Contador por empresa y tipo: fila ausente = fatal, rollback
		if _, err := counterRepo.Increment(companyID, counterKindFor(kind)); err != nil {
			return err
		}

		// 2) Ajustes de stock por línea, salvo que el stock negativo esté
		// permitido (en ese caso no se descuenta nada)
		if !cfg.AllowNegativeStock {
			for _, line := range cartLines {
				delta := line.Quantity
				if kind == entity.InvoiceKindSales {
					delta = delta.Neg()
				}
				if err := itemRepo.AdjustStock(line.ItemID, delta); err != nil {
					return err
				}
			}
		}

		// 3) Comprobante: cabecera, líneas y pagos
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, le := range lineEntities {
			if err := invoiceRepo.CreateItem(le); err != nil {
				return err
			}
		}
		for method, amount := range alloc {
			if err := invoiceRepo.CreatePayment(&entity.InvoicePayment{
				InvoiceID: inv.ID, Method: method, Amount: amount,
			}); err != nil {
				return err
			}
		}

		// 4) Saldos del cliente: decremento atómico, nunca read-modify-write
		if customer != nil && (appliedCredit.GreaterThan(decimal.Zero) || appliedDebit.GreaterThan(decimal.Zero)) {
			if err := customerRepo.ApplyBalanceDelta(customer.ID, appliedCredit.Neg(), appliedDebit.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(inv, lineEntities, alloc), nil
}

// AppendToInvoice reabre un comprobante existente para agregar artículos
// (modo edición): solo se persisten las líneas NUEVAS, las anteriores nunca
// se mutan ni duplican; los pagos nuevos se fusionan por suma por método,
// excepto "due", que se recalcula como saldo restante. No se emite número
// nuevo ni se incrementa el contador.
func (uc *CreateInvoiceUseCase) AppendToInvoice(ctx context.Context, companyID, userID, invoiceID string, in dto.AppendInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Lectura preliminar solo para autorizar y conocer el tipo; los totales
	// base se releen con bloqueo de fila dentro de la transacción.
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	kind := inv.Kind

	cfg, err := uc.resolver.Resolve(ctx, companyID, appsettings.ScopeForInvoiceKind(kind))
	if err != nil {
		return nil, err
	}

	cartLines, err := uc.buildCartLines(companyID, in.Lines, cfg)
	if err != nil {
		return nil, err
	}
	newTotals := pricing.ComputeTotals(cartLines, cfg)
	newLineEntities := buildLineEntities(inv.ID, cartLines, cfg)

	err = uc.txRunner.RunPOS(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.CounterRepository,
	) error {
		// Releer la cabecera bloqueada: dos ediciones concurrentes del mismo
		// comprobante se serializan y cada una suma sobre los totales ya
		// confirmados por la otra, nunca sobre una base obsoleta.
		locked, err := invoiceRepo.GetByIDForUpdate(inv.ID)
		if err != nil {
			return err
		}

		// Totales de cabecera: agregados vigentes + aporte de las líneas nuevas
		locked.Subtotal = locked.Subtotal.Add(newTotals.Subtotal)
		locked.TotalDiscount = locked.TotalDiscount.Add(newTotals.TotalDiscount)
		locked.RoundOff = locked.RoundOff.Add(newTotals.RoundOff)
		locked.TaxableAmount = locked.TaxableAmount.Add(newTotals.TaxableAmount)
		locked.TaxAmount = locked.TaxAmount.Add(newTotals.TaxAmount)
		locked.TotalAmount = locked.TotalAmount.Add(newTotals.FinalAmount)
		locked.UpdatedAt = time.Now()

		if !cfg.AllowNegativeStock {
			for _, line := range cartLines {
				delta := line.Quantity
				if kind == entity.InvoiceKindSales {
					delta = delta.Neg()
				}
				if err := itemRepo.AdjustStock(line.ItemID, delta); err != nil {
					return err
				}
			}
		}
		for _, le := range newLineEntities {
			if err := invoiceRepo.CreateItem(le); err != nil {
				return err
			}
		}
		if err := invoiceRepo.UpdateTotals(locked); err != nil {
			return err
		}

		// Fusión de pagos: suma por método, "due" excluido (se recalcula)
		for method, amount := range in.Payments {
			if method == entity.PaymentDue {
				continue
			}
			if err := invoiceRepo.AddToPayment(locked.ID, method, amount); err != nil {
				return err
			}
		}
		merged, err := invoiceRepo.GetPaymentsByInvoiceID(locked.ID)
		if err != nil {
			return err
		}
		paid := decimal.Zero
		for _, p := range merged {
			if p.Method != entity.PaymentDue {
				paid = paid.Add(p.Amount)
			}
		}
		due := locked.TotalAmount.Sub(locked.AppliedCredit).Sub(locked.AppliedDebit).Sub(paid)
		if due.IsNegative() {
			due = decimal.Zero
		}
		return invoiceRepo.SetPayment(locked.ID, entity.PaymentDue, due)
	})
	if err != nil {
		return nil, err
	}

	return uc.GetInvoice(ctx, companyID, inv.ID)
}

// GetInvoice obtiene un comprobante completo (cabecera, líneas y pagos).
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil || inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	payments, err := uc.invoiceRepo.GetPaymentsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	alloc := payment.Allocation{}
	for _, p := range payments {
		alloc[p.Method] = p.Amount
	}
	return uc.toResponse(inv, lines, alloc), nil
}

// List lista comprobantes de la empresa.
func (uc *CreateInvoiceUseCase) List(ctx context.Context, companyID, kind string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	invoices, err := uc.invoiceRepo.ListByCompany(companyID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, uc.toResponse(inv, nil, nil))
	}
	return out, nil
}

// buildCartLines valida las líneas del request contra catálogo y bloqueos de
// configuración, y las adapta al motor de precios.
func (uc *CreateInvoiceUseCase) buildCartLines(companyID string, reqLines []dto.CartLineRequest, cfg *entity.PosSettings) ([]pricing.CartLine, error) {
	lines := make([]pricing.CartLine, 0, len(reqLines))
	for _, rl := range reqLines {
		if rl.ItemID == "" || !rl.Quantity.IsInteger() || rl.Quantity.LessThan(decimal.NewFromInt(1)) {
			return nil, domain.ErrInvalidInput
		}
		if cfg.DiscountLocked && rl.DiscountPct.GreaterThan(decimal.Zero) {
			return nil, domain.ErrDiscountLocked
		}
		if cfg.PriceEditLocked && rl.CustomUnitPrice != nil {
			return nil, domain.ErrPriceLocked
		}
		item, err := uc.itemRepo.GetByID(rl.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		line := pricing.CartLine{
			ItemID:          item.ID,
			Name:            item.Name,
			ListPrice:       item.ListPrice,
			Quantity:        rl.Quantity,
			DiscountPct:     pricing.ClampDiscount(rl.DiscountPct),
			CustomUnitPrice: rl.CustomUnitPrice,
			PurchasePrice:   item.PurchasePrice,
			TaxRate:         item.TaxRate,
			StockOnHand:     item.StockOnHand,
		}
		// Modo MRP exacto: comparación estricta, sin épsilon
		if cfg.EnforceExactMRP && pricing.ViolatesExactMRP(line, cfg.RoundingEnabled) {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func buildLineEntities(invoiceID string, cartLines []pricing.CartLine, cfg *entity.PosSettings) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(cartLines))
	for _, line := range cartLines {
		unit := pricing.EffectiveUnitPrice(line, cfg.RoundingEnabled)
		out = append(out, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			ItemID:      line.ItemID,
			Name:        line.Name,
			ListPrice:   line.ListPrice,
			Quantity:    line.Quantity,
			DiscountPct: line.DiscountPct,
			UnitPrice:   unit,
			LineTotal:   unit.Mul(line.Quantity),
		})
	}
	return out
}

func counterKindFor(kind string) string {
	if kind == entity.InvoiceKindPurchase {
		return entity.CounterKindPurchase
	}
	return entity.CounterKindSales
}

func taxTypeLabel(cfg *entity.PosSettings) string {
	if !cfg.TaxEnabled || !cfg.TaxRate.GreaterThan(decimal.Zero) {
		return ""
	}
	return cfg.TaxType
}

func (uc *CreateInvoiceUseCase) toResponse(inv *entity.Invoice, lines []*entity.InvoiceItem, alloc payment.Allocation) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		VoucherNo:     inv.VoucherNo,
		Kind:          inv.Kind,
		PartyName:     inv.PartyName,
		PartyNumber:   inv.PartyNumber,
		Subtotal:      inv.Subtotal,
		TotalDiscount: inv.TotalDiscount,
		RoundOff:      inv.RoundOff,
		TaxableAmount: inv.TaxableAmount,
		TaxAmount:     inv.TaxAmount,
		TaxType:       inv.TaxType,
		TotalAmount:   inv.TotalAmount,
		AppliedCredit: inv.AppliedCredit,
		AppliedDebit:  inv.AppliedDebit,
		Salesman:      inv.Salesman,
		Date:          inv.CreatedAt.Format("2006-01-02"),
		Lines:         make([]dto.InvoiceLineResponse, 0, len(lines)),
		Payments:      map[string]decimal.Decimal{},
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			Name:        l.Name,
			ListPrice:   l.ListPrice,
			Quantity:    l.Quantity,
			DiscountPct: l.DiscountPct,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	for method, amount := range alloc {
		resp.Payments[method] = amount
	}
	return resp
}
