// Package pricing implementa el motor de precios del POS (servicio de
// dominio, funciones puras sin efectos secundarios).
//
// Por línea del carrito:
//
//	lineSubtotal       = listPrice × qty            → acumula subtotal
//	priceAfterDiscount = listPrice × (1 − desc/100) → redondeado si desc > 0
//	effectiveUnitPrice = customPrice si es válido, si no priceAfterDiscount
//	lineTaxable        = effectiveUnitPrice × qty   → acumula taxableAmount
//
// El impuesto se calcula una sola vez sobre el agregado taxableAmount (nunca
// por línea) y el redondeo final se aplica sobre el total, esté o no
// descontada alguna línea.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	five    = decimal.NewFromInt(5)
	ten     = decimal.NewFromInt(10)
	one     = decimal.NewFromInt(1)
)

// CartLine es una línea del carrito tal como la captura la caja.
// CustomUnitPrice nil significa "sin precio manual"; un valor negativo se
// ignora y se usa el precio calculado.
type CartLine struct {
	ItemID          string
	Name            string
	ListPrice       decimal.Decimal // MRP
	Quantity        decimal.Decimal
	DiscountPct     decimal.Decimal // se recorta a [0,100]
	CustomUnitPrice *decimal.Decimal
	PurchasePrice   decimal.Decimal
	TaxRate         decimal.Decimal
	StockOnHand     decimal.Decimal
}

// Totals es el resultado del cálculo de un carrito completo.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	RoundOff      decimal.Decimal
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	FinalAmount   decimal.Decimal
}

// ApplyRounding redondea un monto hacia arriba: montos menores a 100 al
// múltiplo de 5 más cercano, montos de 100 en adelante al múltiplo de 10.
// Idempotente: aplicarla dos veces da el mismo resultado.
func ApplyRounding(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) {
		return amount
	}
	step := ten
	if amount.LessThan(hundred) {
		step = five
	}
	return amount.Div(step).Ceil().Mul(step)
}

// ClampDiscount recorta un porcentaje de descuento al rango [0,100].
func ClampDiscount(pct decimal.Decimal) decimal.Decimal {
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// EffectiveUnitPrice devuelve el precio unitario efectivo de una línea:
// el precio manual si existe y no es negativo, si no el precio de lista con
// descuento (redondeado cuando hay descuento y el redondeo está activo).
func EffectiveUnitPrice(line CartLine, roundingEnabled bool) decimal.Decimal {
	disc := ClampDiscount(line.DiscountPct)
	price := line.ListPrice.Mul(one.Sub(disc.Div(hundred)))
	if disc.GreaterThan(decimal.Zero) && roundingEnabled {
		price = ApplyRounding(price)
	}
	if line.CustomUnitPrice != nil && !line.CustomUnitPrice.IsNegative() {
		return *line.CustomUnitPrice
	}
	return price
}

// ComputeTotals calcula los totales del carrito con la configuración dada.
// Carrito vacío → todos los totales en cero.
func ComputeTotals(lines []CartLine, s *entity.PosSettings) Totals {
	subtotal := decimal.Zero
	taxable := decimal.Zero

	for _, line := range lines {
		subtotal = subtotal.Add(line.ListPrice.Mul(line.Quantity))
		unit := EffectiveUnitPrice(line, s.RoundingEnabled)
		taxable = taxable.Add(unit.Mul(line.Quantity))
	}

	tax := decimal.Zero
	finalPre := taxable
	if s.TaxEnabled && s.TaxRate.GreaterThan(decimal.Zero) {
		rate := s.TaxRate.Div(hundred)
		if s.TaxType == entity.TaxTypeInclusive {
			// El impuesto ya está contenido en el precio: base = taxable / (1+r)
			base := taxable.Div(one.Add(rate))
			tax = taxable.Sub(base)
			finalPre = taxable
		} else {
			tax = taxable.Mul(rate)
			finalPre = taxable.Add(tax)
		}
	}

	final := finalPre.Truncate(2)
	if s.RoundingEnabled {
		final = ApplyRounding(finalPre)
	}

	return Totals{
		Subtotal:      subtotal,
		TotalDiscount: subtotal.Sub(taxable),
		RoundOff:      final.Sub(finalPre),
		TaxableAmount: taxable,
		TaxAmount:     tax,
		FinalAmount:   final,
	}
}

// ViolatesExactMRP indica si la línea se está cobrando a un precio distinto
// del precio de lista. La comparación es estricta, sin épsilon: así lo hace
// el sistema al validar el modo "vender solo a MRP exacto".
func ViolatesExactMRP(line CartLine, roundingEnabled bool) bool {
	return !EffectiveUnitPrice(line, roundingEnabled).Equal(line.ListPrice)
}
