package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// ReplenishmentSuggestion sugerencia de reposición para un registro bajo su punto de reorden.
type ReplenishmentSuggestion struct {
	ProductID          int64
	SKU                string
	ProductName        string
	WarehouseID        int64
	WarehouseName      string
	CurrentStock       int64
	ReorderPoint       int64
	IdealStock         int64 // ceil(ReorderPoint * 1.5)
	SuggestedOrderQty  int64 // IdealStock - CurrentStock, mínimo 1
	UnitCost           decimal.Decimal
	EstimatedOrderCost decimal.Decimal // SuggestedOrderQty * UnitCost
	Priority           int             // 1 = más urgente
}

// ReplenishmentList devuelve los registros de stock por debajo del punto de reorden con la
// cantidad sugerida de pedido, ordenados por déficit. warehouseID = 0 considera todas las bodegas.
func (s *PurchaseOrderService) ReplenishmentList(ctx context.Context, warehouseID int64) ([]ReplenishmentSuggestion, error) {
	s.ledger.mu.RLock()
	stock, err := repository.Load[entity.StockRecord](ctx, s.ledger.store, repository.CollectionStock)
	s.ledger.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	products, warehouses, err := s.ledger.catalog(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Registros bajo el punto de reorden
	suggestions := make([]ReplenishmentSuggestion, 0)
	for _, rec := range stock {
		if warehouseID > 0 && rec.WarehouseID != warehouseID {
			continue
		}
		p, ok := products[rec.ProductID]
		if !ok || p.ReorderPoint <= 0 || rec.Quantity >= p.ReorderPoint {
			continue
		}

		// 2. Cantidad sugerida y costo estimado
		suggested := inventory.SuggestedOrderQuantity(rec.Quantity, p.ReorderPoint)
		suggestions = append(suggestions, ReplenishmentSuggestion{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			WarehouseID:        rec.WarehouseID,
			WarehouseName:      warehouses[rec.WarehouseID].Name,
			CurrentStock:       rec.Quantity,
			ReorderPoint:       p.ReorderPoint,
			IdealStock:         inventory.IdealStock(p.ReorderPoint),
			SuggestedOrderQty:  suggested,
			UnitCost:           p.UnitCost,
			EstimatedOrderCost: p.UnitCost.Mul(decimal.NewFromInt(suggested)),
		})
	}

	// 3. Ordenar: mayor déficit absoluto, luego mayor déficit relativo, luego por ids.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA, defB := a.ReorderPoint-a.CurrentStock, b.ReorderPoint-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		// déficit relativo defA/rpA > defB/rpB sin división
		if relA, relB := defA*b.ReorderPoint, defB*a.ReorderPoint; relA != relB {
			return relA > relB
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.WarehouseID < b.WarehouseID
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
