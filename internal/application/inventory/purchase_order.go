package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// Eventos de órdenes de compra para métricas.
const (
	poCreated  = "created"
	poReceived = "received"
	poRejected = "rejected"
)

// PurchaseOrderService ciclo de vida pending → received de las órdenes de compra.
// La recepción acredita el stock y marca la orden en el mismo lote, por lo que un reintento
// tras un fallo nunca acredita dos veces.
type PurchaseOrderService struct {
	ledger *Ledger
	log    *logger.Logger
}

// NewPurchaseOrderService construye el servicio de órdenes sobre el ledger.
func NewPurchaseOrderService(ledger *Ledger) *PurchaseOrderService {
	return &PurchaseOrderService{ledger: ledger, log: ledger.baseLog.Component("purchase_orders")}
}

// CreatePurchaseOrderInput datos para crear una orden pendiente.
type CreatePurchaseOrderInput struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	Notes       string
}

// PurchaseOrderFilter filtros de ListPurchaseOrders (cero / vacío = sin filtro).
type PurchaseOrderFilter struct {
	Status      string
	ProductID   int64
	WarehouseID int64
}

// ReorderInput solicitud de reposición. Quantity 0 usa la cantidad sugerida por la política.
type ReorderInput struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	Notes       string
}

// ReorderResult respuesta simple de ReorderStock: los problemas de validación no son errores.
type ReorderResult struct {
	Success bool
	Message string
	Order   *entity.PurchaseOrder
}

// CreatePurchaseOrder persiste una orden nueva con status pending.
// El costo unitario se toma del producto al momento de crear.
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, in CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if in.ProductID <= 0 || in.WarehouseID <= 0 {
		return nil, domain.Validation("productId y warehouseId son obligatorios")
	}
	if in.Quantity <= 0 {
		return nil, domain.Validation("la cantidad debe ser positiva")
	}
	product, err := s.ledger.requireProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.requireWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}

	var order entity.PurchaseOrder
	err = s.ledger.Atomically(ctx, func(tx *LedgerTx) error {
		orders, err := LoadInTx[entity.PurchaseOrder](tx, repository.CollectionPurchaseOrders)
		if err != nil {
			return err
		}
		order = entity.PurchaseOrder{
			ID:            repository.NextID(orders),
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Quantity:      in.Quantity,
			Status:        entity.PurchaseOrderPending,
			UnitCost:      product.UnitCost,
			EstimatedCost: product.UnitCost.Mul(decimal.NewFromInt(in.Quantity)),
			Notes:         strings.TrimSpace(in.Notes),
			CreatedAt:     tx.Now(),
		}
		orders = append(orders, order)
		return StageRecords(tx, repository.CollectionPurchaseOrders, orders)
	})
	if err != nil {
		return nil, err
	}

	s.ledger.metrics.PurchaseOrderEvent(poCreated)
	s.log.Info().
		Int64("order_id", order.ID).
		Int64("product_id", order.ProductID).
		Int64("warehouse_id", order.WarehouseID).
		Int64("quantity", order.Quantity).
		Msg("orden de compra creada")
	return &order, nil
}

// ReceivePurchaseOrder acredita la cantidad de la orden y la marca received, exactamente una vez.
// Una segunda recepción devuelve INVALID_STATE sin tocar el stock.
func (s *PurchaseOrderService) ReceivePurchaseOrder(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := s.ledger.Atomically(ctx, func(tx *LedgerTx) error {
		orders, err := LoadInTx[entity.PurchaseOrder](tx, repository.CollectionPurchaseOrders)
		if err != nil {
			return err
		}
		idx := -1
		for i := range orders {
			if orders[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.NotFound("orden de compra %d no encontrada", id)
		}
		if orders[idx].Status == entity.PurchaseOrderReceived {
			return domain.InvalidState("la orden de compra %d ya fue recibida", id)
		}

		if _, err := tx.Adjust(AdjustInput{
			ProductID:   orders[idx].ProductID,
			WarehouseID: orders[idx].WarehouseID,
			Delta:       orders[idx].Quantity,
			Reason:      entity.ReasonPurchaseOrderReceipt,
			Reference:   fmt.Sprintf("PO-%d", id),
		}); err != nil {
			return err
		}

		now := tx.Now()
		orders[idx].Status = entity.PurchaseOrderReceived
		orders[idx].ReceivedAt = &now
		order = orders[idx]
		return StageRecords(tx, repository.CollectionPurchaseOrders, orders)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrStorage) {
			s.ledger.metrics.PurchaseOrderEvent(poRejected)
			s.log.Debug().Err(err).Int64("order_id", id).Msg("recepción rechazada")
		}
		return nil, err
	}

	s.ledger.metrics.PurchaseOrderEvent(poReceived)
	s.log.Info().
		Int64("order_id", order.ID).
		Int64("product_id", order.ProductID).
		Int64("warehouse_id", order.WarehouseID).
		Int64("quantity", order.Quantity).
		Msg("orden de compra recibida")
	return &order, nil
}

// ListPurchaseOrders lista órdenes, más reciente primero.
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, f PurchaseOrderFilter) ([]entity.PurchaseOrder, error) {
	if f.Status != "" && f.Status != entity.PurchaseOrderPending && f.Status != entity.PurchaseOrderReceived {
		return nil, domain.Validation("status de orden inválido: %q", f.Status)
	}

	s.ledger.mu.RLock()
	list, err := repository.Load[entity.PurchaseOrder](ctx, s.ledger.store, repository.CollectionPurchaseOrders)
	s.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	out := make([]entity.PurchaseOrder, 0, len(list))
	for _, o := range list {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ProductID > 0 && o.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID > 0 && o.WarehouseID != f.WarehouseID {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetPurchaseOrder búsqueda puntual; NOT_FOUND si no existe.
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	s.ledger.mu.RLock()
	list, err := repository.Load[entity.PurchaseOrder](ctx, s.ledger.store, repository.CollectionPurchaseOrders)
	s.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, domain.NotFound("orden de compra %d no encontrada", id)
}

// ReorderStock crea una orden de reposición. Los errores esperados (validación, entidad
// inexistente) vuelven como Success=false con mensaje; solo los fallos de almacenamiento son error.
func (s *PurchaseOrderService) ReorderStock(ctx context.Context, in ReorderInput) (*ReorderResult, error) {
	if in.Quantity < 0 {
		return &ReorderResult{Message: "la cantidad no puede ser negativa"}, nil
	}
	qty := in.Quantity
	if qty == 0 && in.ProductID > 0 && in.WarehouseID > 0 {
		suggested, err := s.suggestedQuantity(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return reorderFailure(err)
		}
		qty = suggested
	}

	order, err := s.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    qty,
		Notes:       in.Notes,
	})
	if err != nil {
		return reorderFailure(err)
	}
	return &ReorderResult{
		Success: true,
		Message: fmt.Sprintf("orden de compra %d creada por %d unidades", order.ID, order.Quantity),
		Order:   order,
	}, nil
}

func (s *PurchaseOrderService) suggestedQuantity(ctx context.Context, productID, warehouseID int64) (int64, error) {
	product, err := s.ledger.requireProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	rec, err := s.ledger.GetStock(ctx, productID, warehouseID)
	if err != nil {
		return 0, err
	}
	var current int64
	if rec != nil {
		current = rec.Quantity
	}
	return inventory.SuggestedOrderQuantity(current, product.ReorderPoint), nil
}

func reorderFailure(err error) (*ReorderResult, error) {
	if errors.Is(err, domain.ErrStorage) {
		return nil, err
	}
	return &ReorderResult{Message: err.Error()}, nil
}
