package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/recordstore"
)

var fixtureNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// fixture producto P (punto de reorden 10, costo 2.50) y bodegas A y B sobre un store en memoria.
type fixture struct {
	store     repository.RecordStore
	clock     *clockwork.FakeClock
	ledger    *Ledger
	transfers *TransferEngine
	orders    *PurchaseOrderService
	alerts    *AlertService

	productID int64
	whA, whB  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewStore())
}

func newFixtureWithStore(t *testing.T, store repository.RecordStore) *fixture {
	t.Helper()
	ctx := context.Background()
	products := recordstore.NewProductRepository(store)
	warehouses := recordstore.NewWarehouseRepository(store)

	p := &entity.Product{SKU: "P-001", Name: "Tornillo 1/4", ReorderPoint: 10, UnitCost: decimal.RequireFromString("2.50")}
	require.NoError(t, products.Create(ctx, p))
	a := &entity.Warehouse{Name: "Bodega A"}
	require.NoError(t, warehouses.Create(ctx, a))
	b := &entity.Warehouse{Name: "Bodega B"}
	require.NoError(t, warehouses.Create(ctx, b))

	clock := clockwork.NewFakeClockAt(fixtureNow)
	ledger := NewLedger(store, products, warehouses, WithClock(clock))
	return &fixture{
		store:     store,
		clock:     clock,
		ledger:    ledger,
		transfers: NewTransferEngine(ledger),
		orders:    NewPurchaseOrderService(ledger),
		alerts:    NewAlertService(ledger),
		productID: p.ID,
		whA:       a.ID,
		whB:       b.ID,
	}
}

// seed deja qty unidades de P en la bodega (partiendo de cero).
func (f *fixture) seed(t *testing.T, warehouseID, qty int64) {
	t.Helper()
	_, err := f.ledger.Adjust(context.Background(), AdjustInput{ProductID: f.productID, WarehouseID: warehouseID, Delta: qty})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, warehouseID int64) int64 {
	t.Helper()
	rec, err := f.ledger.GetStock(context.Background(), f.productID, warehouseID)
	require.NoError(t, err)
	if rec == nil {
		return 0
	}
	return rec.Quantity
}

func (f *fixture) collectionLen(t *testing.T, collection string) int {
	t.Helper()
	raw, err := f.store.LoadAll(context.Background(), collection)
	require.NoError(t, err)
	return len(raw)
}

// failingStore falla las próximas n llamadas a SaveAll sin aplicar nada.
type failingStore struct {
	repository.RecordStore

	mu        sync.Mutex
	failSaves int
}

func (s *failingStore) failNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = n
}

func (s *failingStore) SaveAll(ctx context.Context, writes ...repository.CollectionWrite) error {
	s.mu.Lock()
	fail := s.failSaves > 0
	if fail {
		s.failSaves--
	}
	s.mu.Unlock()
	if fail {
		return errors.New("disco lleno")
	}
	return s.RecordStore.SaveAll(ctx, writes...)
}
