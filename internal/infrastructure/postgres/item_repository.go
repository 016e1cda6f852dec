package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, name, barcode, category_id, list_price, purchase_price, tax_rate, stock_on_hand, created_at, updated_at`

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.Name, nullIfEmpty(item.Barcode), item.CategoryID,
		item.ListPrice, item.PurchasePrice, item.TaxRate, item.StockOnHand,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByBarcode busca por código de barras dentro de la empresa.
// Retorna (nil, nil) si no existe.
func (r *ItemRepo) GetByBarcode(companyID, barcode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND barcode = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, barcode))
}

// ListByCompany lista artículos de la empresa con paginación.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// Update actualiza los datos del artículo, excepto el stock (solo AdjustStock).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, barcode = $3, category_id = $4, list_price = $5,
			purchase_price = $6, tax_rate = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, nullIfEmpty(item.Barcode), item.CategoryID,
		item.ListPrice, item.PurchasePrice, item.TaxRate, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// AdjustStock muta el stock con un incremento atómico en una sola sentencia.
// Delta negativo (venta): la condición stock_on_hand >= -delta hace que un
// stock insuficiente no afecte filas, y eso se reporta como
// ErrInsufficientStock para que el caller haga rollback.
func (r *ItemRepo) AdjustStock(id string, delta decimal.Decimal) error {
	ctx := context.Background()
	if delta.IsNegative() {
		tag, err := r.q.Exec(ctx, `
			UPDATE items SET stock_on_hand = stock_on_hand + $2, updated_at = now()
			WHERE id = $1 AND stock_on_hand >= $3`,
			id, delta, delta.Neg(),
		)
		if err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE items SET stock_on_hand = stock_on_hand + $2, updated_at = now()
		WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.Item, error) {
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var i entity.Item
	var barcode *string
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.Name, &barcode, &i.CategoryID,
		&i.ListPrice, &i.PurchasePrice, &i.TaxRate, &i.StockOnHand,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	if barcode != nil {
		i.Barcode = *barcode
	}
	return &i, nil
}
