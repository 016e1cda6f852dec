package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo implementación de CounterRepository (usable con pool o tx).
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Increment suma 1 al contador y devuelve el valor nuevo en una sola sentencia
// atómica. Si la fila no existe retorna domain.ErrCounterMissing: la fila es
// parte del provisionamiento (cmd/seed) y su ausencia debe abortar el commit,
// nunca omitirse en silencio.
func (r *CounterRepo) Increment(companyID, kind string) (int64, error) {
	var value int64
	err := r.q.QueryRow(context.Background(), `
		UPDATE counters SET value = value + 1
		WHERE company_id = $1 AND kind = $2
		RETURNING value`,
		companyID, kind,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCounterMissing
		}
		return 0, fmt.Errorf("increment counter %s/%s: %w", companyID, kind, err)
	}
	return value, nil
}

// UpsertIncrement crea la fila con el valor inicial o suma 1 si ya existe,
// siempre devolviendo el valor asignado. El ON CONFLICT garantiza que dos
// llamadas concurrentes jamás reciben el mismo valor.
func (r *CounterRepo) UpsertIncrement(companyID, kind string, start int64) (int64, error) {
	var value int64
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO counters (company_id, kind, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, kind) DO UPDATE SET value = counters.value + 1
		RETURNING value`,
		companyID, kind, start,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("upsert counter %s/%s: %w", companyID, kind, err)
	}
	return value, nil
}
