package recordstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/jsonfile"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/pkg/config"
)

// Open construye el RecordStore según STORE_DRIVER. Con postgres aplica las migraciones
// pendientes; el cierre devuelto libera el pool (no-op en los demás drivers).
func Open(ctx context.Context, cfg *config.Config) (repository.RecordStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	case config.StoreFile:
		s, err := jsonfile.NewStore(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewRecordStore(pool), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver de almacenamiento no soportado: %q", cfg.Store.Driver)
}
