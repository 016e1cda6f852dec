// Package catalog gestiona el catálogo de artículos: CRUD, búsqueda por
// código de barras e importación masiva.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SettingsResolver snapshot de configuración del ámbito "item" (flag de
// generación automática de código de barras).
type SettingsResolver interface {
	Resolve(ctx context.Context, companyID, scope string) (*entity.PosSettings, error)
}

// ItemUseCase casos de uso del catálogo.
type ItemUseCase struct {
	repo     repository.ItemRepository
	counters repository.CounterRepository
	resolver SettingsResolver
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, counters repository.CounterRepository, resolver SettingsResolver) *ItemUseCase {
	return &ItemUseCase{repo: repo, counters: counters, resolver: resolver}
}

// Create registra un artículo. Si la configuración tiene auto_barcode activo
// y el artículo llega sin código, se genera uno EAN-13 de uso interno
// (prefijo "2", reservado para códigos dentro de tienda) con el contador por
// empresa.
func (uc *ItemUseCase) Create(ctx context.Context, companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || !in.ListPrice.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.StockOnHand.IsNegative() || in.PurchasePrice.IsNegative() || in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	barcode := in.Barcode
	if barcode == "" {
		cfg, err := uc.resolver.Resolve(ctx, companyID, entity.ScopeItem)
		if err != nil {
			return nil, err
		}
		if cfg.AutoBarcode {
			seq, err := uc.counters.UpsertIncrement(companyID, entity.CounterKindBarcode, 1)
			if err != nil {
				return nil, err
			}
			barcode = fmt.Sprintf("2%012d", seq)
		}
	}

	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Name:          in.Name,
		Barcode:       barcode,
		CategoryID:    in.CategoryID,
		ListPrice:     in.ListPrice,
		PurchasePrice: in.PurchasePrice,
		TaxRate:       in.TaxRate,
		StockOnHand:   in.StockOnHand,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo de la empresa.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toItemResponse(item), nil
}

// GetByBarcode busca por el código decodificado por el escáner. La cámara y
// la decodificación son colaboradores externos: aquí solo llega el string.
func (uc *ItemUseCase) GetByBarcode(ctx context.Context, companyID, barcode string) (*dto.ItemResponse, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.GetByBarcode(companyID, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.ItemResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	items, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out, nil
}

// Update actualiza nombre, precios, categoría y código de barras. El stock
// NO se actualiza por aquí: solo vía movimientos (incrementos atómicos).
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" || !in.ListPrice.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item.Name = in.Name
	item.Barcode = in.Barcode
	item.CategoryID = in.CategoryID
	item.ListPrice = in.ListPrice
	item.PurchasePrice = in.PurchasePrice
	item.TaxRate = in.TaxRate
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo de la empresa.
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            item.ID,
		CompanyID:     item.CompanyID,
		Name:          item.Name,
		Barcode:       item.Barcode,
		CategoryID:    item.CategoryID,
		ListPrice:     item.ListPrice,
		PurchasePrice: item.PurchasePrice,
		TaxRate:       item.TaxRate,
		StockOnHand:   item.StockOnHand,
	}
}
