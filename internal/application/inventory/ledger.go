// Package inventory contiene el motor de consistencia de inventario: Stock Ledger, traslados,
// órdenes de compra y ciclo de vida de alertas.
package inventory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Ledger es el único punto de entrada que modifica cantidades de stock.
//
// Toda escritura (stock, log de movimientos y registros de auditoría de traslados, órdenes
// y alertas) ocurre dentro de Atomically, que toma el lock exclusivo durante el ciclo completo
// leer-modificar-escribir y confirma en un único lote SaveAll. Las lecturas toman el lock
// compartido para no observar un lote a medio aplicar.
type Ledger struct {
	mu sync.RWMutex

	store      repository.RecordStore
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository

	clock   clockwork.Clock
	baseLog *logger.Logger
	log     *logger.Logger
	metrics Recorder
}

// Option configura dependencias opcionales del Ledger.
type Option func(*Ledger)

// WithClock inyecta el reloj (clockwork.NewFakeClock en pruebas).
func WithClock(c clockwork.Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithLogger inyecta el logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.baseLog = log }
}

// WithRecorder inyecta el receptor de métricas.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.metrics = r }
}

// NewLedger construye el Stock Ledger sobre el RecordStore y los repositorios de catálogo.
func NewLedger(
	store repository.RecordStore,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	opts ...Option,
) *Ledger {
	l := &Ledger{
		store:      store,
		products:   products,
		warehouses: warehouses,
		clock:      clockwork.NewRealClock(),
		baseLog:    logger.Nop(),
		metrics:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.baseLog.Component("ledger")
	return l
}

// AdjustInput ajuste de stock solicitado. Delta puede ser negativo; Reason vacío = manual-adjustment.
type AdjustInput struct {
	ProductID   int64
	WarehouseID int64
	Delta       int64
	Reason      string
	Reference   string
}

// AdjustResult registro resultante y delta efectivamente aplicado.
// Clamped indica que el resultado se recortó a cero (Applied != Requested).
type AdjustResult struct {
	Record    entity.StockRecord
	Requested int64
	Applied   int64
	Clamped   bool
	Reason    string
}

// StockFilter filtros de ListStock. Cero significa sin filtro; Status es una clasificación.
type StockFilter struct {
	ProductID   int64
	WarehouseID int64
	Status      string
}

// StockLevel registro de stock enriquecido con catálogo y clasificación.
type StockLevel struct {
	Record        entity.StockRecord
	SKU           string
	ProductName   string
	WarehouseName string
	ReorderPoint  int64
	Status        inventory.StockStatus
}

// MovementFilter filtros y paginación del log de actividad.
type MovementFilter struct {
	ProductID   int64
	WarehouseID int64
	Limit       int
	Offset      int
}

// Adjust aplica newQuantity = max(0, actual + delta) de forma serializada.
// Crea el registro si no existe y el resultado es positivo; un ajuste negativo sobre un
// registro inexistente devuelve cantidad 0 sin persistir nada.
func (l *Ledger) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	if _, err := l.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := l.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	var res *AdjustResult
	err := l.Atomically(ctx, func(tx *LedgerTx) error {
		var err error
		res, err = tx.Adjust(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetStock devuelve el registro de stock o (nil, nil) si no existe; ausente equivale a cantidad 0.
func (l *Ledger) GetStock(ctx context.Context, productID, warehouseID int64) (*entity.StockRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list, err := repository.Load[entity.StockRecord](ctx, l.store, repository.CollectionStock)
	if err != nil {
		return nil, err
	}
	key := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
	for i := range list {
		if list[i].Key() == key {
			return &list[i], nil
		}
	}
	return nil, nil
}

// ListStock lista los registros de stock con su clasificación, ordenados por producto y bodega.
func (l *Ledger) ListStock(ctx context.Context, f StockFilter) ([]StockLevel, error) {
	if f.Status != "" && !isStockStatus(f.Status) {
		return nil, domain.Validation("status de stock inválido: %q", f.Status)
	}

	l.mu.RLock()
	stock, err := repository.Load[entity.StockRecord](ctx, l.store, repository.CollectionStock)
	l.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	products, warehouses, err := l.catalog(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]StockLevel, 0, len(stock))
	for _, rec := range stock {
		if f.ProductID > 0 && rec.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID > 0 && rec.WarehouseID != f.WarehouseID {
			continue
		}
		lvl := StockLevel{Record: rec, WarehouseName: warehouses[rec.WarehouseID].Name}
		if p, ok := products[rec.ProductID]; ok {
			lvl.SKU = p.SKU
			lvl.ProductName = p.Name
			lvl.ReorderPoint = p.ReorderPoint
		}
		lvl.Status = inventory.Classify(rec.Quantity, lvl.ReorderPoint)
		if f.Status != "" && string(lvl.Status) != f.Status {
			continue
		}
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Record, out[j].Record
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
	return out, nil
}

// ListMovements devuelve el log de actividad (más reciente primero) y el total filtrado.
func (l *Ledger) ListMovements(ctx context.Context, f MovementFilter) ([]entity.StockMovement, int, error) {
	l.mu.RLock()
	list, err := repository.Load[entity.StockMovement](ctx, l.store, repository.CollectionMovements)
	l.mu.RUnlock()
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]entity.StockMovement, 0, len(list))
	for _, m := range list {
		if f.ProductID > 0 && m.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID > 0 && m.WarehouseID != f.WarehouseID {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].ID > filtered[j].ID })

	limit, offset := normalizePage(f.Limit, f.Offset)
	start, end := bounds(len(filtered), limit, offset)
	return filtered[start:end], len(filtered), nil
}

// Valuation Σ cantidad × costo unitario del producto; warehouseID = 0 considera todas las bodegas.
// Si el backend sabe calcularlo (postgres) se delega en él.
func (l *Ledger) Valuation(ctx context.Context, warehouseID int64) (decimal.Decimal, error) {
	if v, ok := valuatorOf(l.store); ok {
		l.mu.RLock()
		defer l.mu.RUnlock()
		total, err := v.StockValuation(ctx, warehouseID)
		if err != nil {
			return decimal.Zero, repository.WrapStorage("valuation", err)
		}
		return total, nil
	}

	l.mu.RLock()
	stock, err := repository.Load[entity.StockRecord](ctx, l.store, repository.CollectionStock)
	l.mu.RUnlock()
	if err != nil {
		return decimal.Zero, err
	}
	products, _, err := l.catalog(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, rec := range stock {
		if warehouseID > 0 && rec.WarehouseID != warehouseID {
			continue
		}
		if p, ok := products[rec.ProductID]; ok {
			total = total.Add(p.UnitCost.Mul(decimal.NewFromInt(rec.Quantity)))
		}
	}
	return total, nil
}

// Atomically ejecuta fn como unidad indivisible bajo el lock exclusivo del ledger.
// Si fn devuelve error no se persiste nada; si no, todos los cambios (stock, movimientos y lo
// preparado con Stage) se confirman en un único lote.
func (l *Ledger) Atomically(ctx context.Context, fn func(tx *LedgerTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &LedgerTx{ctx: ctx, now: l.clock.Now().UTC(), unit: uuid.NewString(), store: l.store, products: l.products}
	if err := fn(tx); err != nil {
		return err
	}
	writes, err := tx.writes()
	if err != nil {
		return err
	}
	if len(writes) == 0 {
		return nil
	}
	if err := l.store.SaveAll(ctx, writes...); err != nil {
		l.log.Error().Err(err).Str("unit", tx.unit).Int("collections", len(writes)).Msg("lote del ledger no confirmado")
		return repository.WrapStorage("commit", err)
	}

	for _, r := range tx.results {
		l.metrics.StockAdjusted(r.Reason, r.Clamped)
		l.log.Info().
			Str("unit", tx.unit).
			Int64("product_id", r.Record.ProductID).
			Int64("warehouse_id", r.Record.WarehouseID).
			Int64("delta", r.Requested).
			Int64("applied", r.Applied).
			Int64("quantity", r.Record.Quantity).
			Str("reason", r.Reason).
			Msg("stock ajustado")
	}
	for _, a := range tx.reopened {
		l.log.Info().
			Str("unit", tx.unit).
			Int64("alert_id", a.ID).
			Int64("product_id", a.ProductID).
			Int64("warehouse_id", a.WarehouseID).
			Msg("alerta reabierta: el stock salió de la condición de alerta")
	}
	return nil
}

// LedgerTx vista de trabajo dentro de Atomically. No es segura fuera de fn.
type LedgerTx struct {
	ctx      context.Context
	now      time.Time
	unit     string
	store    repository.RecordStore
	products repository.ProductRepository

	loaded     bool
	stock      []entity.StockRecord
	movements  []entity.StockMovement
	nextMoveID int64
	dirty      bool

	staged   []repository.CollectionWrite
	results  []AdjustResult
	reopened []entity.AlertTrackingRecord
}

// Now instante de la unidad; todos los registros de la unidad comparten el mismo timestamp.
func (tx *LedgerTx) Now() time.Time { return tx.now }

// Quantity cantidad actual (0 si no hay registro), incluyendo ajustes previos de la unidad.
func (tx *LedgerTx) Quantity(productID, warehouseID int64) (int64, error) {
	if err := tx.load(); err != nil {
		return 0, err
	}
	if i := tx.find(entity.StockKey{ProductID: productID, WarehouseID: warehouseID}); i >= 0 {
		return tx.stock[i].Quantity, nil
	}
	return 0, nil
}

// Adjust aplica el ajuste sobre la vista de la unidad. La política es recortar a cero.
func (tx *LedgerTx) Adjust(in AdjustInput) (*AdjustResult, error) {
	if err := validateAdjust(in); err != nil {
		return nil, err
	}
	if err := tx.load(); err != nil {
		return nil, err
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonManualAdjustment
	}

	key := entity.StockKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID}
	idx := tx.find(key)
	var current int64
	if idx >= 0 {
		current = tx.stock[idx].Quantity
	}
	if in.Delta > 0 && current > math.MaxInt64-in.Delta {
		return nil, domain.Validation("el ajuste excede la cantidad máxima representable")
	}
	next := current + in.Delta
	if next < 0 {
		next = 0
	}
	res := AdjustResult{
		Requested: in.Delta,
		Applied:   next - current,
		Clamped:   next != current+in.Delta,
		Reason:    reason,
	}

	if idx < 0 && next == 0 {
		res.Record = entity.StockRecord{ProductID: in.ProductID, WarehouseID: in.WarehouseID, LastUpdated: tx.now}
		return &res, nil
	}
	if idx < 0 {
		tx.stock = append(tx.stock, entity.StockRecord{ProductID: in.ProductID, WarehouseID: in.WarehouseID})
		idx = len(tx.stock) - 1
	}
	tx.stock[idx].Quantity = next
	tx.stock[idx].LastUpdated = tx.now
	res.Record = tx.stock[idx]

	tx.movements = append(tx.movements, entity.StockMovement{
		ID:                tx.nextMoveID,
		ProductID:         in.ProductID,
		WarehouseID:       in.WarehouseID,
		Requested:         in.Delta,
		Applied:           res.Applied,
		ResultingQuantity: next,
		Reason:            reason,
		Reference:         in.Reference,
		CreatedAt:         tx.now,
	})
	tx.nextMoveID++
	tx.dirty = true
	tx.results = append(tx.results, res)
	return &res, nil
}

// Stage agrega al lote el reemplazo completo de otra colección (auditoría de traslados, órdenes, alertas).
func (tx *LedgerTx) Stage(w repository.CollectionWrite) {
	tx.staged = append(tx.staged, w)
}

// LoadInTx lee otra colección dentro de la unidad (ya bajo el lock exclusivo).
func LoadInTx[T any](tx *LedgerTx, collection string) ([]T, error) {
	return repository.Load[T](tx.ctx, tx.store, collection)
}

// StageRecords codifica y agrega al lote el reemplazo de la colección.
func StageRecords[T any](tx *LedgerTx, collection string, records []T) error {
	w, err := repository.Encode(collection, records)
	if err != nil {
		return err
	}
	tx.Stage(w)
	return nil
}

func (tx *LedgerTx) load() error {
	if tx.loaded {
		return nil
	}
	var (
		stock     []entity.StockRecord
		movements []entity.StockMovement
	)
	g, gctx := errgroup.WithContext(tx.ctx)
	g.Go(func() error {
		var err error
		stock, err = repository.Load[entity.StockRecord](gctx, tx.store, repository.CollectionStock)
		return err
	})
	g.Go(func() error {
		var err error
		movements, err = repository.Load[entity.StockMovement](gctx, tx.store, repository.CollectionMovements)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	tx.stock = stock
	tx.movements = movements
	tx.nextMoveID = repository.NextID(movements)
	tx.loaded = true
	return nil
}

func (tx *LedgerTx) find(key entity.StockKey) int {
	for i := range tx.stock {
		if tx.stock[i].Key() == key {
			return i
		}
	}
	return -1
}

func (tx *LedgerTx) writes() ([]repository.CollectionWrite, error) {
	var writes []repository.CollectionWrite
	if tx.dirty {
		stock, err := repository.Encode(repository.CollectionStock, tx.stock)
		if err != nil {
			return nil, err
		}
		movements, err := repository.Encode(repository.CollectionMovements, tx.movements)
		if err != nil {
			return nil, err
		}
		writes = append(writes, stock, movements)

		alerts, err := tx.reopenRecoveredAlerts()
		if err != nil {
			return nil, err
		}
		if alerts != nil {
			writes = append(writes, *alerts)
		}
	}
	return append(writes, tx.staged...), nil
}

// reopenRecoveredAlerts devuelve a active el seguimiento de las claves ajustadas en la unidad
// cuyo stock dejó de ser candidato a alerta, para que un nuevo episodio de stock bajo vuelva a
// mostrarse. nil si no hay cambios.
func (tx *LedgerTx) reopenRecoveredAlerts() (*repository.CollectionWrite, error) {
	for _, w := range tx.staged {
		if w.Collection == repository.CollectionAlerts {
			return nil, nil
		}
	}
	alerts, err := repository.Load[entity.AlertTrackingRecord](tx.ctx, tx.store, repository.CollectionAlerts)
	if err != nil {
		return nil, err
	}
	touched := make(map[entity.StockKey]bool, len(tx.results))
	for _, r := range tx.results {
		touched[r.Record.Key()] = true
	}

	reorderPoints := map[int64]int64{}
	changed := false
	for i := range alerts {
		a := &alerts[i]
		if !touched[a.Key()] || inventory.EffectiveAlertStatus(a, tx.now) == entity.AlertStatusActive {
			continue
		}
		rp, ok := reorderPoints[a.ProductID]
		if !ok {
			p, err := tx.products.GetByID(tx.ctx, a.ProductID)
			if err != nil {
				return nil, repository.WrapStorage("get product", err)
			}
			if p != nil {
				rp = p.ReorderPoint
			}
			reorderPoints[a.ProductID] = rp
		}
		qty := tx.stock[tx.find(a.Key())].Quantity
		if rp > 0 && inventory.Classify(qty, rp).IsAlertCandidate() {
			continue
		}
		a.Status = entity.AlertStatusActive
		a.SnoozeUntil = nil
		a.UpdatedAt = tx.now
		tx.reopened = append(tx.reopened, *a)
		changed = true
	}
	if !changed {
		return nil, nil
	}
	w, err := repository.Encode(repository.CollectionAlerts, alerts)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func validateAdjust(in AdjustInput) error {
	if in.ProductID <= 0 || in.WarehouseID <= 0 {
		return domain.Validation("productId y warehouseId son obligatorios")
	}
	if in.Delta == 0 {
		return domain.Validation("el delta del ajuste no puede ser cero")
	}
	return nil
}

// requireProduct resuelve el producto; un id desconocido es entrada inválida.
func (l *Ledger) requireProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := l.products.GetByID(ctx, id)
	if err != nil {
		return nil, repository.WrapStorage("get product", err)
	}
	if p == nil {
		return nil, domain.Validation("producto %d no existe", id)
	}
	return p, nil
}

// requireWarehouse resuelve la bodega; un id desconocido es entrada inválida.
func (l *Ledger) requireWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := l.warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, repository.WrapStorage("get warehouse", err)
	}
	if w == nil {
		return nil, domain.Validation("bodega %d no existe", id)
	}
	return w, nil
}

// catalog indexa productos y bodegas por id.
func (l *Ledger) catalog(ctx context.Context) (map[int64]entity.Product, map[int64]entity.Warehouse, error) {
	var (
		products   []*entity.Product
		warehouses []*entity.Warehouse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = l.products.List(gctx, 0, 0)
		return err
	})
	g.Go(func() error {
		var err error
		warehouses, err = l.warehouses.List(gctx, 0, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, repository.WrapStorage("load catalog", err)
	}
	pm := make(map[int64]entity.Product, len(products))
	for _, p := range products {
		pm[p.ID] = *p
	}
	wm := make(map[int64]entity.Warehouse, len(warehouses))
	for _, w := range warehouses {
		wm[w.ID] = *w
	}
	return pm, wm, nil
}

func isStockStatus(s string) bool {
	switch inventory.StockStatus(s) {
	case inventory.StatusCriticalLow, inventory.StatusLowStock, inventory.StatusHealthy, inventory.StatusOverstocked:
		return true
	}
	return false
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage limit por defecto 20, máximo 100; offset negativo se toma como 0.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func bounds(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
