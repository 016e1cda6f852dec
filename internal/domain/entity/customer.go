package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente con saldos acumulados de crédito y débito.
// Los saldos se aplican contra el total a pagar de futuras ventas y se
// descuentan con incrementos atómicos (nunca read-modify-write) para no
// perder actualizaciones cuando dos cajas venden al mismo cliente a la vez.
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	Phone         string // identificador de parte en mostrador
	CreditBalance decimal.Decimal
	DebitBalance  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
