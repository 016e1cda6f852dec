package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/billing"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// FormatVoucher
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatVoucher_Formato(t *testing.T) {
	at := time.Date(2026, time.August, 28, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "INV-202608-1001", billing.FormatVoucher("INV", at, 1001))
	assert.Equal(t, "PUR-202608-1001", billing.FormatVoucher("PUR", at, 1001))

	// Valores chicos se rellenan a 4 dígitos; grandes se imprimen completos
	assert.Equal(t, "INV-202608-0007", billing.FormatVoucher("INV", at, 7))
	assert.Equal(t, "INV-202608-12345", billing.FormatVoucher("INV", at, 12345))
}

// Prefijo vacío cae al predeterminado.
func TestFormatVoucher_PrefijoVacio(t *testing.T) {
	at := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202601-1001", billing.FormatVoucher("", at, 1001))
}

// ──────────────────────────────────────────────────────────────────────────────
// CounterVoucherSequence
// ──────────────────────────────────────────────────────────────────────────────

// Primera emisión sin contador previo: arranca en 1001 y sigue creciente.
func TestCounterVoucherSequence_ArrancaEn1001(t *testing.T) {
	counters := newMemCounterRepo()
	seq := billing.NewCounterVoucherSequence(counters)
	at := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)

	first, err := seq.Next(context.Background(), "INV", at)
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-1001", first)

	second, err := seq.Next(context.Background(), "INV", at)
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-1002", second)
}

// El contador es compartido: ventas y compras consumen la misma secuencia.
func TestCounterVoucherSequence_CompartidoEntreTipos(t *testing.T) {
	counters := newMemCounterRepo()
	seq := billing.NewCounterVoucherSequence(counters)
	at := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)

	sale, err := seq.Next(context.Background(), "INV", at)
	require.NoError(t, err)
	purchase, err := seq.Next(context.Background(), "PUR", at)
	require.NoError(t, err)

	assert.Equal(t, "INV-202608-1001", sale)
	assert.Equal(t, "PUR-202608-1002", purchase)
	assert.Equal(t, int64(1002), counters.get(entity.CounterOwnerGlobal, entity.CounterKindVoucher))
}
