// seed provisiona los datos mínimos para operar la caja: una empresa demo,
// un usuario admin y las filas de contadores por empresa. Los contadores de
// ventas/compras son obligatorios: confirmar un comprobante sin su fila aborta
// la transacción (ErrCounterMissing), así que este comando debe correrse una
// vez por empresa antes de facturar.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que el API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "pos-seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      "Tienda Demo",
		Phone:     "3000000000",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := companyRepo.Create(company); err != nil {
		log.Fatal().Err(err).Msg("crear empresa demo")
	}
	log.Info().Str("company_id", company.ID).Msg("empresa demo creada")

	adminEmail := getenv("SEED_ADMIN_EMAIL", "admin@demo.local")
	adminPass := getenv("SEED_ADMIN_PASSWORD", "admin123")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password")
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Administrador",
		Role:         entity.RoleAdmin,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatal().Err(err).Msg("crear usuario admin")
	}
	log.Info().Str("email", adminEmail).Msg("usuario admin creado")

	// Contadores por empresa en 0: el primer comprobante incrementa a 1.
	// El contador compartido de numeración (global/voucher) se auto-provisiona
	// en la primera venta, no se siembra aquí.
	for _, kind := range []string{entity.CounterKindSales, entity.CounterKindPurchase} {
		if err := seedCounter(ctx, pool, company.ID, kind); err != nil {
			log.Fatal().Err(err).Str("kind", kind).Msg("provisionar contador")
		}
	}
	log.Info().Msg("contadores provisionados")
	log.Info().Msg("seed completado")
}

func seedCounter(ctx context.Context, q postgres.Querier, companyID, kind string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO counters (company_id, kind, value)
		VALUES ($1, $2, 0)
		ON CONFLICT (company_id, kind) DO NOTHING`,
		companyID, kind,
	)
	if err != nil {
		return fmt.Errorf("insert counter %s/%s: %w", companyID, kind, err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
