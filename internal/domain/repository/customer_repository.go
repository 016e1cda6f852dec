package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes.
// ApplyBalanceDelta suma los deltas a los saldos con una sola sentencia
// atómica (al confirmar una venta los deltas son negativos).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByPhone(companyID, phone string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	ApplyBalanceDelta(id string, creditDelta, debitDelta decimal.Decimal) error
}
