// seed carga el catálogo inicial (productos, bodegas y stock de apertura) desde archivos CSV
// en el almacenamiento configurado, y opcionalmente emite un token JWT de operador.
//
// Uso:
//
//	go run ./cmd/seed -products productos.csv -warehouses bodegas.csv -stock stock.csv [-latin1]
//	go run ./cmd/seed -token bodeguero -user operador-1
//
// Es idempotente para el catálogo: SKUs y nombres de bodega existentes se omiten.
// El stock de apertura sí se suma en cada ejecución.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/catalogcsv"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/recordstore"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const openingReason = "opening-balance"

func main() {
	productsPath := flag.String("products", "", "CSV de productos (sku,name,description,reorder_point,unit_cost)")
	warehousesPath := flag.String("warehouses", "", "CSV de bodegas (name,address)")
	stockPath := flag.String("stock", "", "CSV de stock de apertura (sku,warehouse,quantity)")
	latin1 := flag.Bool("latin1", false, "los CSV vienen en ISO-8859-1")
	tokenRole := flag.String("token", "", "emitir un JWT con este rol (admin, bodeguero, consulta)")
	userID := flag.String("user", "seed", "user_id del token emitido")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	if *tokenRole != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, *userID, *tokenRole, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			log.Fatal().Err(err).Msg("emitir token")
		}
		fmt.Println(tok)
	}
	if *productsPath == "" && *warehousesPath == "" && *stockPath == "" {
		return
	}

	ctx := context.Background()
	store, closeStore, err := recordstore.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer closeStore()

	productRepo := recordstore.NewProductRepository(store)
	warehouseRepo := recordstore.NewWarehouseRepository(store)
	clock := clockwork.NewRealClock()
	s := &seeder{
		products:   usecase.NewProductUseCase(productRepo, clock),
		warehouses: usecase.NewWarehouseUseCase(warehouseRepo, clock),
		ledger:     inventory.NewLedger(store, productRepo, warehouseRepo, inventory.WithLogger(log), inventory.WithClock(clock)),
		log:        log,
		latin1:     *latin1,
	}

	steps := []struct {
		path string
		fn   func(context.Context, string) error
	}{
		{*productsPath, s.seedProducts},
		{*warehousesPath, s.seedWarehouses},
		{*stockPath, s.seedStock},
	}
	for _, st := range steps {
		if st.path == "" {
			continue
		}
		if err := st.fn(ctx, st.path); err != nil {
			log.Error().Err(err).Str("file", st.path).Msg("carga fallida")
			closeStore()
			os.Exit(1)
		}
	}
	log.Info().Msg("carga terminada")
}

type seeder struct {
	products   *usecase.ProductUseCase
	warehouses *usecase.WarehouseUseCase
	ledger     *inventory.Ledger
	log        *logger.Logger
	latin1     bool
}

func (s *seeder) seedProducts(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := catalogcsv.LoadProducts(catalogcsv.Decode(f, s.latin1))
	if err != nil {
		return err
	}
	created := 0
	for _, in := range rows {
		_, err := s.products.Create(ctx, in)
		var de *domain.Error
		if errors.As(err, &de) && de.Code == domain.CodeValidation {
			s.log.Warn().Str("sku", in.SKU).Str("motivo", de.Message).Msg("producto omitido")
			continue
		}
		if err != nil {
			return err
		}
		created++
	}
	s.log.Info().Int("creados", created).Int("filas", len(rows)).Msg("productos cargados")
	return nil
}

func (s *seeder) seedWarehouses(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := catalogcsv.LoadWarehouses(catalogcsv.Decode(f, s.latin1))
	if err != nil {
		return err
	}
	existing, err := s.warehouseIDs(ctx)
	if err != nil {
		return err
	}
	created := 0
	for _, in := range rows {
		if _, ok := existing[strings.ToLower(in.Name)]; ok {
			s.log.Warn().Str("bodega", in.Name).Msg("bodega existente omitida")
			continue
		}
		w, err := s.warehouses.Create(ctx, in)
		if err != nil {
			return err
		}
		existing[strings.ToLower(w.Name)] = w.ID
		created++
	}
	s.log.Info().Int("creadas", created).Int("filas", len(rows)).Msg("bodegas cargadas")
	return nil
}

func (s *seeder) seedStock(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := catalogcsv.LoadOpeningStock(catalogcsv.Decode(f, s.latin1))
	if err != nil {
		return err
	}
	warehouses, err := s.warehouseIDs(ctx)
	if err != nil {
		return err
	}
	skus, err := s.productIDs(ctx)
	if err != nil {
		return err
	}
	for i, row := range rows {
		productID, ok := skus[strings.ToLower(row.SKU)]
		if !ok {
			return fmt.Errorf("fila %d: SKU %q no existe", i+2, row.SKU)
		}
		warehouseID, ok := warehouses[strings.ToLower(row.Warehouse)]
		if !ok {
			return fmt.Errorf("fila %d: bodega %q no existe", i+2, row.Warehouse)
		}
		if _, err := s.ledger.Adjust(ctx, inventory.AdjustInput{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Delta:       row.Quantity,
			Reason:      openingReason,
			Reference:   "seed",
		}); err != nil {
			return fmt.Errorf("fila %d: %w", i+2, err)
		}
	}
	s.log.Info().Int("filas", len(rows)).Msg("stock de apertura cargado")
	return nil
}

// warehouseIDs índice nombre (minúsculas) → id.
func (s *seeder) warehouseIDs(ctx context.Context) (map[string]int64, error) {
	list, err := s.warehouses.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(list.Items))
	for _, w := range list.Items {
		out[strings.ToLower(w.Name)] = w.ID
	}
	return out, nil
}

// productIDs índice SKU (minúsculas) → id.
func (s *seeder) productIDs(ctx context.Context) (map[string]int64, error) {
	list, err := s.products.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(list.Items))
	for _, p := range list.Items {
		out[strings.ToLower(p.SKU)] = p.ID
	}
	return out, nil
}
