package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments. Delta negativo descuenta.
type AdjustStockRequest struct {
	ProductID   int64  `json:"product_id"`
	WarehouseID int64  `json:"warehouse_id"`
	Delta       int64  `json:"delta"`
	Reason      string `json:"reason,omitempty"`
	Reference   string `json:"reference,omitempty"`
}

// StockRecordResponse cantidad de un producto en una bodega.
type StockRecordResponse struct {
	ProductID   int64     `json:"product_id"`
	WarehouseID int64     `json:"warehouse_id"`
	Quantity    int64     `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// AdjustStockResponse resultado del ajuste: applied puede diferir de requested si se recortó a cero.
type AdjustStockResponse struct {
	Stock     StockRecordResponse `json:"stock"`
	Requested int64               `json:"requested"`
	Applied   int64               `json:"applied"`
	Clamped   bool                `json:"clamped"`
	Reason    string              `json:"reason"`
}

// StockLevelResponse registro de stock con catálogo y clasificación.
type StockLevelResponse struct {
	ProductID     int64     `json:"product_id"`
	SKU           string    `json:"sku"`
	ProductName   string    `json:"product_name"`
	WarehouseID   int64     `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	Quantity      int64     `json:"quantity"`
	ReorderPoint  int64     `json:"reorder_point"`
	Status        string    `json:"status"` // critical-low | low-stock | healthy | overstocked
	LastUpdated   time.Time `json:"last_updated"`
}

// StockListResponse listado de stock.
type StockListResponse struct {
	Items []StockLevelResponse `json:"items"`
	Total int                  `json:"total"`
}

// MovementResponse entrada del log de actividad.
type MovementResponse struct {
	ID                int64     `json:"id"`
	ProductID         int64     `json:"product_id"`
	WarehouseID       int64     `json:"warehouse_id"`
	Requested         int64     `json:"requested"`
	Applied           int64     `json:"applied"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	Reason            string    `json:"reason"`
	Reference         string    `json:"reference,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// MovementListResponse página del log de actividad.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ValuationResponse valorización del inventario (Σ cantidad × costo unitario).
type ValuationResponse struct {
	WarehouseID int64           `json:"warehouse_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          int64           `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        int64           `json:"warehouse_id"`
	WarehouseName      string          `json:"warehouse_name"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"`
	IdealStock         int64           `json:"ideal_stock"`          // ceil(ReorderPoint * 1.5)
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// ReplenishmentListResponse lista de reposición.
type ReplenishmentListResponse struct {
	Total          int                          `json:"total"`
	Replenishments []ReplenishmentSuggestionDTO `json:"replenishments"`
}
