package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ItemRepository puerto de persistencia de artículos.
// AdjustStock muta el stock con un incremento atómico en la base de datos
// (delta negativo = venta, positivo = compra); nunca read-modify-write.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByBarcode(companyID, barcode string) (*entity.Item, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	Update(item *entity.Item) error
	Delete(id string) error
	AdjustStock(id string, delta decimal.Decimal) error
}
