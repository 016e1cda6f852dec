package repository

import "github.com/jhoicas/pos-api/internal/domain/entity"

// SettingsRepository puerto de configuración POS por empresa y ámbito.
// Get retorna (nil, nil) cuando la empresa no tiene fila para el ámbito;
// el resolver aplica los valores por defecto.
type SettingsRepository interface {
	Get(companyID, scope string) (*entity.PosSettings, error)
	Upsert(settings *entity.PosSettings) error
}
