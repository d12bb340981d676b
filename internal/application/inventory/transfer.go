package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Resultados de traslado para métricas.
const (
	transferCompleted = "completed"
	transferRejected  = "rejected"
	transferFailed    = "failed"
)

// TransferEngine ejecuta traslados entre bodegas como una sola unidad atómica y mantiene
// el log de auditoría de traslados.
//
// A diferencia del ajuste genérico del ledger (que recorta a cero), un traslado exige que el
// origen tenga stock suficiente antes de tocar cualquier cantidad.
type TransferEngine struct {
	ledger *Ledger
	log    *logger.Logger
}

// NewTransferEngine construye el motor de traslados sobre el ledger.
func NewTransferEngine(ledger *Ledger) *TransferEngine {
	return &TransferEngine{ledger: ledger, log: ledger.baseLog.Component("transfers")}
}

// TransferInput solicitud de traslado.
type TransferInput struct {
	ProductID       int64
	FromWarehouseID int64
	ToWarehouseID   int64
	Quantity        int64
	Notes           string
}

// TransferFilter filtros de QueryTransfers. WarehouseID coincide con origen o destino.
// From/To acotan createdAt (inclusive).
type TransferFilter struct {
	ProductID   int64
	WarehouseID int64
	Status      string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// TransferPage página de traslados, más reciente primero.
type TransferPage struct {
	Items  []entity.Transfer
	Total  int
	Limit  int
	Offset int
}

// ExecuteTransfer valida, verifica stock en origen y aplica ambos ajustes más el registro de
// auditoría en un único lote. Un rechazo no modifica ningún registro.
func (e *TransferEngine) ExecuteTransfer(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	t, err := e.execute(ctx, in)
	switch {
	case err == nil:
		e.ledger.metrics.TransferExecuted(transferCompleted)
		e.log.Info().
			Str("reference_number", t.ReferenceNumber).
			Int64("product_id", t.ProductID).
			Int64("from_warehouse_id", t.FromWarehouseID).
			Int64("to_warehouse_id", t.ToWarehouseID).
			Int64("quantity", t.Quantity).
			Msg("traslado completado")
	case errors.Is(err, domain.ErrStorage):
		e.ledger.metrics.TransferExecuted(transferFailed)
		e.log.Error().Err(err).Int64("product_id", in.ProductID).Msg("traslado fallido")
	default:
		e.ledger.metrics.TransferExecuted(transferRejected)
		e.log.Debug().Err(err).Int64("product_id", in.ProductID).Msg("traslado rechazado")
	}
	return t, err
}

func (e *TransferEngine) execute(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	if in.ProductID <= 0 || in.FromWarehouseID <= 0 || in.ToWarehouseID <= 0 {
		return nil, domain.Validation("productId, fromWarehouseId y toWarehouseId son obligatorios")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.Validation("la bodega origen y destino deben ser distintas")
	}
	if in.Quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser positiva")
	}
	if _, err := e.ledger.requireProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	for _, id := range []int64{in.FromWarehouseID, in.ToWarehouseID} {
		if _, err := e.ledger.requireWarehouse(ctx, id); err != nil {
			return nil, err
		}
	}

	var transfer entity.Transfer
	err := e.ledger.Atomically(ctx, func(tx *LedgerTx) error {
		available, err := tx.Quantity(in.ProductID, in.FromWarehouseID)
		if err != nil {
			return err
		}
		if available < in.Quantity {
			return domain.InsufficientStock("stock insuficiente en bodega %d: disponible %d, solicitado %d",
				in.FromWarehouseID, available, in.Quantity)
		}

		transfers, err := LoadInTx[entity.Transfer](tx, repository.CollectionTransfers)
		if err != nil {
			return err
		}
		transfer = entity.Transfer{
			ID:              repository.NextID(transfers),
			ReferenceNumber: uniqueReference(transfers, tx.Now()),
			ProductID:       in.ProductID,
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			Quantity:        in.Quantity,
			Status:          entity.TransferStatusCompleted,
			CreatedAt:       tx.Now(),
			Notes:           strings.TrimSpace(in.Notes),
		}

		if _, err := tx.Adjust(AdjustInput{
			ProductID:   in.ProductID,
			WarehouseID: in.FromWarehouseID,
			Delta:       -in.Quantity,
			Reason:      entity.ReasonTransferOut,
			Reference:   transfer.ReferenceNumber,
		}); err != nil {
			return err
		}
		if _, err := tx.Adjust(AdjustInput{
			ProductID:   in.ProductID,
			WarehouseID: in.ToWarehouseID,
			Delta:       in.Quantity,
			Reason:      entity.ReasonTransferIn,
			Reference:   transfer.ReferenceNumber,
		}); err != nil {
			return err
		}

		transfers = append(transfers, transfer)
		return StageRecords(tx, repository.CollectionTransfers, transfers)
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// QueryTransfers lectura pura con filtros y paginación (limit por defecto 20, máximo 100).
func (e *TransferEngine) QueryTransfers(ctx context.Context, f TransferFilter) (*TransferPage, error) {
	if f.Status != "" && !entity.IsTransferStatus(f.Status) {
		return nil, domain.Validation("status de traslado inválido: %q", f.Status)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.Validation("rango de fechas inválido: from posterior a to")
	}

	e.ledger.mu.RLock()
	list, err := repository.Load[entity.Transfer](ctx, e.ledger.store, repository.CollectionTransfers)
	e.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Transfer, 0, len(list))
	for _, t := range list {
		if matchTransfer(t, f) {
			filtered = append(filtered, t)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	limit, offset := normalizePage(f.Limit, f.Offset)
	start, end := bounds(len(filtered), limit, offset)
	return &TransferPage{
		Items:  filtered[start:end],
		Total:  len(filtered),
		Limit:  limit,
		Offset: offset,
	}, nil
}

// GetTransferByID búsqueda puntual; NOT_FOUND si no existe.
func (e *TransferEngine) GetTransferByID(ctx context.Context, id int64) (*entity.Transfer, error) {
	e.ledger.mu.RLock()
	list, err := repository.Load[entity.Transfer](ctx, e.ledger.store, repository.CollectionTransfers)
	e.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.NotFound("traslado %d no encontrado", id)
}

func matchTransfer(t entity.Transfer, f TransferFilter) bool {
	if f.ProductID > 0 && t.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID > 0 && t.FromWarehouseID != f.WarehouseID && t.ToWarehouseID != f.WarehouseID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.From != nil && t.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && t.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// uniqueReference genera TRF-YYYYMMDD-XXXXXXXX y reintenta ante colisión con el log existente.
func uniqueReference(existing []entity.Transfer, now time.Time) string {
	used := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		used[t.ReferenceNumber] = struct{}{}
	}
	for {
		ref := fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
		if _, dup := used[ref]; !dup {
			return ref
		}
	}
}
