package billing

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// POSTxRunner ejecuta una función dentro de una transacción con los
// repositorios que participan en el commit de un comprobante. O se aplican
// todos los efectos (comprobante, ajustes de stock, contador, saldos del
// cliente) o ninguno.
type POSTxRunner interface {
	RunPOS(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		counterRepo repository.CounterRepository,
	) error) error
}

// VoucherSequence emite números de comprobante estrictamente crecientes.
// Corre como su propia transacción corta ANTES del commit principal; el
// número emitido viaja como campo del borrador del comprobante.
type VoucherSequence interface {
	Next(ctx context.Context, prefix string, now time.Time) (string, error)
}

// SettingsResolver snapshot de configuración por empresa y ámbito.
type SettingsResolver interface {
	Resolve(ctx context.Context, companyID, scope string) (*entity.PosSettings, error)
}

// ReceiptPDFGenerator genera la representación imprimible de un comprobante.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		invoice *entity.Invoice,
		company *entity.Company,
		lines []*entity.InvoiceItem,
		payments []*entity.InvoicePayment,
	) ([]byte, error)
}
