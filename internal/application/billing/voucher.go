package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// voucherSeqStart es el primer valor emitido cuando el contador aún no existe.
const voucherSeqStart = 1001

// CounterVoucherSequence implementa VoucherSequence sobre la fila compartida
// del contador de comprobantes. El upsert-incremento es una sola sentencia
// atómica: dos cajas confirmando a la vez nunca reciben el mismo número.
type CounterVoucherSequence struct {
	counters repository.CounterRepository
}

// NewCounterVoucherSequence construye la secuencia con el repositorio de
// contadores atado al pool (cada Next es su propia transacción corta).
func NewCounterVoucherSequence(counters repository.CounterRepository) *CounterVoucherSequence {
	return &CounterVoucherSequence{counters: counters}
}

// Next emite el siguiente número: la primera llamada sin contador devuelve
// {prefix}-{YYYYMM}-1001.
func (s *CounterVoucherSequence) Next(ctx context.Context, prefix string, now time.Time) (string, error) {
	value, err := s.counters.UpsertIncrement(entity.CounterOwnerGlobal, entity.CounterKindVoucher, voucherSeqStart)
	if err != nil {
		return "", fmt.Errorf("incrementar contador de comprobantes: %w", err)
	}
	return FormatVoucher(prefix, now, value), nil
}

// FormatVoucher arma el número legible: {prefix}-{YYYY}{MM}-{valor a 4 dígitos}.
func FormatVoucher(prefix string, now time.Time, value int64) string {
	if prefix == "" {
		prefix = "INV"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("200601"), value)
}
