package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// AlertStatusAll valor de filtro que incluye todas las alertas sin importar su estado.
const AlertStatusAll = "all"

// AlertService deriva alertas de stock bajo y mantiene el seguimiento del usuario sobre ellas.
//
// La vista es una función pura de (clasificación del stock, registro de seguimiento opcional):
// la severidad nunca se persiste y el estado efectivo se calcula al leer.
type AlertService struct {
	ledger *Ledger
	log    *logger.Logger
}

// NewAlertService construye el servicio de alertas sobre el ledger.
func NewAlertService(ledger *Ledger) *AlertService {
	return &AlertService{ledger: ledger, log: ledger.baseLog.Component("alerts")}
}

// AlertFilter filtros de QueryAlerts. Status vacío = active; "all" = cualquier estado.
type AlertFilter struct {
	Severity    string
	Status      string
	WarehouseID int64
}

// AlertPatch cambio de estado solicitado. Notes nil conserva las notas existentes.
type AlertPatch struct {
	Status      string
	SnoozeUntil *time.Time
	Notes       *string
}

// AlertView alerta derivada con el seguimiento superpuesto.
type AlertView struct {
	ID            string // "<productId>-<warehouseId>"
	ProductID     int64
	ProductName   string
	SKU           string
	WarehouseID   int64
	WarehouseName string
	Quantity      int64
	ReorderPoint  int64
	StockStatus   inventory.StockStatus
	Severity      string
	Status        string
	SnoozeUntil   *time.Time
	Notes         string
	TrackingID    int64
	UpdatedAt     *time.Time
}

// AlertSummary conteos de alertas candidatas por severidad y estado efectivo.
type AlertSummary struct {
	Total      int
	BySeverity map[string]int
	ByStatus   map[string]int
}

// QueryAlerts calcula el conjunto de candidatas comparando el stock actual con el punto de
// reorden de cada producto y superpone el registro de seguimiento, si existe.
func (s *AlertService) QueryAlerts(ctx context.Context, f AlertFilter) ([]AlertView, error) {
	status := f.Status
	if status == "" {
		status = entity.AlertStatusActive
	}
	if status != AlertStatusAll && !entity.IsAlertStatus(status) {
		return nil, domain.Validation("status de alerta inválido: %q", f.Status)
	}
	if f.Severity != "" && f.Severity != entity.AlertSeverityCritical && f.Severity != entity.AlertSeverityWarning {
		return nil, domain.Validation("severidad inválida: %q", f.Severity)
	}

	views, err := s.candidates(ctx, f.WarehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]AlertView, 0, len(views))
	for _, v := range views {
		if f.Severity != "" && v.Severity != f.Severity {
			continue
		}
		if status != AlertStatusAll && v.Status != status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Summary cuenta todas las candidatas (cualquier estado) de la bodega; 0 = todas las bodegas.
func (s *AlertService) Summary(ctx context.Context, warehouseID int64) (*AlertSummary, error) {
	views, err := s.candidates(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	sum := &AlertSummary{
		Total:      len(views),
		BySeverity: map[string]int{entity.AlertSeverityCritical: 0, entity.AlertSeverityWarning: 0},
		ByStatus: map[string]int{
			entity.AlertStatusActive:       0,
			entity.AlertStatusAcknowledged: 0,
			entity.AlertStatusResolved:     0,
			entity.AlertStatusSnoozed:      0,
		},
	}
	for _, v := range views {
		sum.BySeverity[v.Severity]++
		sum.ByStatus[v.Status]++
	}
	return sum, nil
}

// GetAlertByID devuelve el registro de seguimiento; NOT_FOUND si no existe.
func (s *AlertService) GetAlertByID(ctx context.Context, id int64) (*entity.AlertTrackingRecord, error) {
	s.ledger.mu.RLock()
	list, err := repository.Load[entity.AlertTrackingRecord](ctx, s.ledger.store, repository.CollectionAlerts)
	s.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.NotFound("alerta %d no encontrada", id)
}

// UpdateAlertStatus valida el cambio de estado y hace upsert del registro de seguimiento.
// snoozeUntil es obligatorio (y futuro) para snoozed y no se admite en otros estados.
func (s *AlertService) UpdateAlertStatus(ctx context.Context, productID, warehouseID int64, patch AlertPatch) (*entity.AlertTrackingRecord, error) {
	now := s.ledger.clock.Now().UTC()
	if err := validatePatch(productID, warehouseID, patch, now); err != nil {
		s.log.Debug().Err(err).Int64("product_id", productID).Int64("warehouse_id", warehouseID).Msg("cambio de alerta rechazado")
		return nil, err
	}
	if _, err := s.ledger.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.ledger.requireWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}

	var (
		rec  entity.AlertTrackingRecord
		from string
	)
	err := s.ledger.Atomically(ctx, func(tx *LedgerTx) error {
		alerts, err := LoadInTx[entity.AlertTrackingRecord](tx, repository.CollectionAlerts)
		if err != nil {
			return err
		}
		key := entity.StockKey{ProductID: productID, WarehouseID: warehouseID}
		idx := -1
		for i := range alerts {
			if alerts[i].Key() == key {
				idx = i
				break
			}
		}

		var current *entity.AlertTrackingRecord
		if idx >= 0 {
			current = &alerts[idx]
		}
		from = inventory.EffectiveAlertStatus(current, tx.Now())
		if !inventory.CanTransitionAlert(from, patch.Status) {
			return domain.InvalidState("transición de alerta inválida: %s → %s", from, patch.Status)
		}

		if idx < 0 {
			alerts = append(alerts, entity.AlertTrackingRecord{
				ID:          repository.NextID(alerts),
				ProductID:   productID,
				WarehouseID: warehouseID,
			})
			idx = len(alerts) - 1
		}
		alerts[idx].Status = patch.Status
		alerts[idx].SnoozeUntil = nil
		if patch.Status == entity.AlertStatusSnoozed {
			until := patch.SnoozeUntil.UTC()
			alerts[idx].SnoozeUntil = &until
		}
		if patch.Notes != nil {
			alerts[idx].Notes = strings.TrimSpace(*patch.Notes)
		}
		alerts[idx].UpdatedAt = tx.Now()
		rec = alerts[idx]
		return StageRecords(tx, repository.CollectionAlerts, alerts)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.metrics.AlertTransitioned(rec.Status)
	s.log.Info().
		Int64("alert_id", rec.ID).
		Int64("product_id", productID).
		Int64("warehouse_id", warehouseID).
		Str("from", from).
		Str("to", rec.Status).
		Msg("alerta actualizada")
	return &rec, nil
}

func validatePatch(productID, warehouseID int64, patch AlertPatch, now time.Time) error {
	if productID <= 0 || warehouseID <= 0 {
		return domain.Validation("productId y warehouseId son obligatorios")
	}
	if !entity.IsAlertStatus(patch.Status) {
		return domain.Validation("status de alerta inválido: %q", patch.Status)
	}
	if patch.Status != entity.AlertStatusSnoozed {
		if patch.SnoozeUntil != nil {
			return domain.Validation("snoozeUntil solo aplica al status snoozed")
		}
		return nil
	}
	if patch.SnoozeUntil == nil || patch.SnoozeUntil.IsZero() {
		return domain.Validation("snoozeUntil es obligatorio para el status snoozed")
	}
	if !patch.SnoozeUntil.After(now) {
		return domain.Validation("snoozeUntil debe ser una fecha futura")
	}
	return nil
}

// candidates construye la vista de todas las alertas candidatas (sin filtrar por estado).
func (s *AlertService) candidates(ctx context.Context, warehouseID int64) ([]AlertView, error) {
	var (
		stock  []entity.StockRecord
		alerts []entity.AlertTrackingRecord
	)
	s.ledger.mu.RLock()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stock, err = repository.Load[entity.StockRecord](gctx, s.ledger.store, repository.CollectionStock)
		return err
	})
	g.Go(func() error {
		var err error
		alerts, err = repository.Load[entity.AlertTrackingRecord](gctx, s.ledger.store, repository.CollectionAlerts)
		return err
	})
	err := g.Wait()
	s.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	products, warehouses, err := s.ledger.catalog(ctx)
	if err != nil {
		return nil, err
	}

	tracking := make(map[entity.StockKey]*entity.AlertTrackingRecord, len(alerts))
	for i := range alerts {
		tracking[alerts[i].Key()] = &alerts[i]
	}

	now := s.ledger.clock.Now()
	views := make([]AlertView, 0)
	for _, rec := range stock {
		if warehouseID > 0 && rec.WarehouseID != warehouseID {
			continue
		}
		p, ok := products[rec.ProductID]
		if !ok || p.ReorderPoint <= 0 {
			continue
		}
		stockStatus := inventory.Classify(rec.Quantity, p.ReorderPoint)
		if !stockStatus.IsAlertCandidate() {
			continue
		}

		tr := tracking[rec.Key()]
		v := AlertView{
			ID:            rec.Key().String(),
			ProductID:     rec.ProductID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			WarehouseID:   rec.WarehouseID,
			WarehouseName: warehouses[rec.WarehouseID].Name,
			Quantity:      rec.Quantity,
			ReorderPoint:  p.ReorderPoint,
			StockStatus:   stockStatus,
			Severity:      inventory.SeverityFor(stockStatus),
			Status:        inventory.EffectiveAlertStatus(tr, now),
		}
		if tr != nil {
			v.TrackingID = tr.ID
			v.Notes = tr.Notes
			updated := tr.UpdatedAt
			v.UpdatedAt = &updated
			if v.Status == entity.AlertStatusSnoozed {
				v.SnoozeUntil = tr.SnoozeUntil
			}
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if a.Severity != b.Severity {
			return a.Severity == entity.AlertSeverityCritical
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})
	return views, nil
}
