package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyRounding
// ──────────────────────────────────────────────────────────────────────────────

// Montos menores a 100 suben al múltiplo de 5; desde 100 al múltiplo de 10.
func TestApplyRounding_Escalones(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"87.3", "90"},   // < 100 → múltiplo de 5
		{"86", "90"},     // < 100 → múltiplo de 5
		{"90", "90"},     // ya es múltiplo: no cambia
		{"99.99", "100"}, // borde inferior del escalón
		{"100", "100"},   // múltiplo de 10 exacto
		{"106.2", "110"}, // ≥ 100 → múltiplo de 10
		{"101", "110"},
		{"0", "0"}, // cero no se toca
	}
	for _, c := range cases {
		got := pricing.ApplyRounding(dec(c.in))
		assert.True(t, got.Equal(dec(c.want)), "ApplyRounding(%s) = %s, esperado %s", c.in, got, c.want)
	}
}

// Aplicar el redondeo dos veces da el mismo resultado.
func TestApplyRounding_Idempotente(t *testing.T) {
	for _, s := range []string{"87.3", "106.2", "4.01", "999.99", "95"} {
		once := pricing.ApplyRounding(dec(s))
		twice := pricing.ApplyRounding(once)
		assert.True(t, once.Equal(twice), "redondear %s dos veces cambió el valor: %s → %s", s, once, twice)
	}
}

func TestApplyRounding_NegativoNoSeToca(t *testing.T) {
	got := pricing.ApplyRounding(dec("-12.5"))
	assert.True(t, got.Equal(dec("-12.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// ClampDiscount / EffectiveUnitPrice
// ──────────────────────────────────────────────────────────────────────────────

func TestClampDiscount_Rango(t *testing.T) {
	assert.True(t, pricing.ClampDiscount(dec("-5")).Equal(decimal.Zero), "descuento negativo se recorta a 0")
	assert.True(t, pricing.ClampDiscount(dec("150")).Equal(dec("100")), "descuento mayor a 100 se recorta a 100")
	assert.True(t, pricing.ClampDiscount(dec("33.5")).Equal(dec("33.5")), "descuento válido no cambia")
}

// MRP 97 con 10% de descuento: 87.3, redondeado a 90.
func TestEffectiveUnitPrice_DescuentoRedondeado(t *testing.T) {
	line := pricing.CartLine{ListPrice: dec("97"), DiscountPct: dec("10")}
	got := pricing.EffectiveUnitPrice(line, true)
	assert.True(t, got.Equal(dec("90")), "97 con 10%% y redondeo debe dar 90, dio %s", got)
}

// Sin redondeo activo el precio descontado queda exacto.
func TestEffectiveUnitPrice_DescuentoSinRedondeo(t *testing.T) {
	line := pricing.CartLine{ListPrice: dec("97"), DiscountPct: dec("10")}
	got := pricing.EffectiveUnitPrice(line, false)
	assert.True(t, got.Equal(dec("87.3")), "sin redondeo debe dar 87.3, dio %s", got)
}

// Sin descuento NO se redondea el unitario aunque el redondeo esté activo.
func TestEffectiveUnitPrice_SinDescuentoNoRedondea(t *testing.T) {
	line := pricing.CartLine{ListPrice: dec("97"), DiscountPct: decimal.Zero}
	got := pricing.EffectiveUnitPrice(line, true)
	assert.True(t, got.Equal(dec("97")))
}

// El precio manual manda sobre el calculado; uno negativo se ignora.
func TestEffectiveUnitPrice_PrecioManual(t *testing.T) {
	custom := dec("85")
	line := pricing.CartLine{ListPrice: dec("97"), DiscountPct: dec("10"), CustomUnitPrice: &custom}
	assert.True(t, pricing.EffectiveUnitPrice(line, true).Equal(dec("85")))

	neg := dec("-1")
	line.CustomUnitPrice = &neg
	assert.True(t, pricing.EffectiveUnitPrice(line, true).Equal(dec("90")),
		"precio manual negativo se ignora y se usa el calculado")
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeTotals
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals_CarritoVacio(t *testing.T) {
	s := &entity.PosSettings{RoundingEnabled: true}
	got := pricing.ComputeTotals(nil, s)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.TaxableAmount.IsZero())
	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.FinalAmount.IsZero())
	assert.True(t, got.RoundOff.IsZero())
}

// Venta con descuento, impuesto exclusivo y redondeo final:
// 100 − 10% = 90; IVA 18% = 16.2; 106.2 → 110; roundOff 3.8.
func TestComputeTotals_ExclusivoConRedondeo(t *testing.T) {
	lines := []pricing.CartLine{{
		ItemID: "i1", ListPrice: dec("100"), Quantity: dec("1"), DiscountPct: dec("10"),
	}}
	s := &entity.PosSettings{
		TaxEnabled: true, TaxType: entity.TaxTypeExclusive, TaxRate: dec("18"),
		RoundingEnabled: true,
	}
	got := pricing.ComputeTotals(lines, s)

	assert.True(t, got.Subtotal.Equal(dec("100")), "subtotal %s", got.Subtotal)
	assert.True(t, got.TotalDiscount.Equal(dec("10")), "descuento %s", got.TotalDiscount)
	assert.True(t, got.TaxableAmount.Equal(dec("90")), "base %s", got.TaxableAmount)
	assert.True(t, got.TaxAmount.Equal(dec("16.2")), "impuesto %s", got.TaxAmount)
	assert.True(t, got.FinalAmount.Equal(dec("110")), "total %s", got.FinalAmount)
	assert.True(t, got.RoundOff.Equal(dec("3.8")), "redondeo %s", got.RoundOff)
}

// Impuesto inclusivo: el total no cambia, el impuesto se extrae del precio.
// 118 con 18% incluido → base 100, impuesto 18, total 118.
func TestComputeTotals_Inclusivo(t *testing.T) {
	lines := []pricing.CartLine{{
		ItemID: "i1", ListPrice: dec("118"), Quantity: dec("1"),
	}}
	s := &entity.PosSettings{
		TaxEnabled: true, TaxType: entity.TaxTypeInclusive, TaxRate: dec("18"),
	}
	got := pricing.ComputeTotals(lines, s)

	assert.True(t, got.TaxableAmount.Equal(dec("118")))
	assert.True(t, got.TaxAmount.Equal(dec("18")), "impuesto extraído %s", got.TaxAmount)
	assert.True(t, got.FinalAmount.Equal(dec("118")), "total inclusivo no cambia: %s", got.FinalAmount)
	assert.True(t, got.RoundOff.IsZero())
}

// El impuesto se calcula UNA vez sobre el agregado, no por línea.
func TestComputeTotals_ImpuestoSobreAgregado(t *testing.T) {
	lines := []pricing.CartLine{
		{ItemID: "i1", ListPrice: dec("50"), Quantity: dec("1")},
		{ItemID: "i2", ListPrice: dec("40"), Quantity: dec("1")},
	}
	s := &entity.PosSettings{
		TaxEnabled: true, TaxType: entity.TaxTypeExclusive, TaxRate: dec("18"),
	}
	got := pricing.ComputeTotals(lines, s)
	// 90 * 0.18 = 16.2 sobre el agregado
	assert.True(t, got.TaxAmount.Equal(dec("16.2")))
	// Sin redondeo: truncado a 2 decimales
	assert.True(t, got.FinalAmount.Equal(dec("106.2")))
}

// Redondeo apagado: el total se trunca a 2 decimales, nunca sube.
func TestComputeTotals_SinRedondeoTrunca(t *testing.T) {
	lines := []pricing.CartLine{{
		ItemID: "i1", ListPrice: dec("10"), Quantity: dec("1"), DiscountPct: dec("33.33"),
	}}
	s := &entity.PosSettings{RoundingEnabled: false}
	got := pricing.ComputeTotals(lines, s)
	// 10 × (1 − 0.3333) = 6.667 → truncado 6.66
	require.True(t, got.TaxableAmount.Equal(dec("6.667")), "base %s", got.TaxableAmount)
	assert.True(t, got.FinalAmount.Equal(dec("6.66")), "total truncado %s", got.FinalAmount)
}

// El redondeo final aplica aunque ninguna línea tenga descuento.
func TestComputeTotals_RedondeoSinDescuento(t *testing.T) {
	lines := []pricing.CartLine{{
		ItemID: "i1", ListPrice: dec("97"), Quantity: dec("1"),
	}}
	s := &entity.PosSettings{RoundingEnabled: true}
	got := pricing.ComputeTotals(lines, s)
	assert.True(t, got.FinalAmount.Equal(dec("100")), "97 → 100 con redondeo, dio %s", got.FinalAmount)
	assert.True(t, got.RoundOff.Equal(dec("3")))
}

// ──────────────────────────────────────────────────────────────────────────────
// ViolatesExactMRP
// ──────────────────────────────────────────────────────────────────────────────

func TestViolatesExactMRP_ComparacionEstricta(t *testing.T) {
	assert.False(t, pricing.ViolatesExactMRP(pricing.CartLine{ListPrice: dec("97")}, true),
		"vender a MRP exacto no viola")

	assert.True(t, pricing.ViolatesExactMRP(pricing.CartLine{ListPrice: dec("97"), DiscountPct: dec("10")}, true),
		"cualquier descuento viola el modo MRP exacto")

	custom := dec("96.99")
	assert.True(t, pricing.ViolatesExactMRP(pricing.CartLine{ListPrice: dec("97"), CustomUnitPrice: &custom}, true),
		"un centavo de diferencia viola: la comparación no tiene épsilon")
}
