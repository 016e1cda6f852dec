// Package payment implementa la validación de asignación de pagos del POS
// (servicio de dominio, sin efectos secundarios).
//
// Invariante: la suma de todos los métodos (incluido "due", el saldo que
// queda como deuda) debe igualar el total a pagar dentro de un épsilon de
// 0.01 antes de permitir la confirmación.
package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Epsilon es la tolerancia de cuadre entre pagos y total (0.01 unidades).
var Epsilon = decimal.New(1, -2)

// Allocation mapea método de pago → monto asignado (no negativo).
type Allocation map[string]decimal.Decimal

// MismatchError indica que los pagos no cuadran con el total a pagar.
// Remaining es lo que falta (positivo) o sobra (negativo).
// errors.Is(err, domain.ErrAllocationMismatch) == true.
type MismatchError struct {
	Remaining decimal.Decimal
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("pagos descuadrados: diferencia %s", e.Remaining.StringFixed(2))
}

func (e *MismatchError) Is(target error) bool {
	return target == domain.ErrAllocationMismatch
}

// Sum devuelve la suma de todos los montos asignados.
func Sum(a Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range a {
		total = total.Add(amount)
	}
	return total
}

// Remaining devuelve payable − suma de asignaciones.
func Remaining(a Allocation, payable decimal.Decimal) decimal.Decimal {
	return payable.Sub(Sum(a))
}

// Validate verifica la asignación: ningún monto negativo y
// |payable − suma| ≤ 0.01. Si no cuadra retorna *MismatchError.
func Validate(a Allocation, payable decimal.Decimal) error {
	for _, amount := range a {
		if amount.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	remaining := Remaining(a, payable)
	if remaining.Abs().GreaterThan(Epsilon) {
		return &MismatchError{Remaining: remaining}
	}
	return nil
}

// FillRemaining asigna al método indicado su monto actual más lo que falta
// por cubrir (nunca resta si la asignación ya excede el total).
func FillRemaining(a Allocation, method string, payable decimal.Decimal) {
	remaining := Remaining(a, payable)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	a[method] = a[method].Add(remaining)
}

// ApplyBalances calcula cuánto crédito y débito del cliente se aplica contra
// el total a pagar:
//
//	appliedCredit = min(payable, creditBalance)                 si useCredit
//	appliedDebit  = min(payable − appliedCredit, debitBalance)  si useDebit
//
// Lo aplicado reduce el monto que deben cubrir los medios de pago.
func ApplyBalances(payable, creditBalance, debitBalance decimal.Decimal, useCredit, useDebit bool) (appliedCredit, appliedDebit decimal.Decimal) {
	appliedCredit = decimal.Zero
	appliedDebit = decimal.Zero
	if payable.LessThanOrEqual(decimal.Zero) {
		return appliedCredit, appliedDebit
	}
	if useCredit && creditBalance.GreaterThan(decimal.Zero) {
		appliedCredit = decimal.Min(payable, creditBalance)
	}
	if useDebit && debitBalance.GreaterThan(decimal.Zero) {
		rest := payable.Sub(appliedCredit)
		if rest.GreaterThan(decimal.Zero) {
			appliedDebit = decimal.Min(rest, debitBalance)
		}
	}
	return appliedCredit, appliedDebit
}
