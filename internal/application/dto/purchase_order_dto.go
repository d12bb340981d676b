package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	ProductID   int64  `json:"product_id"`
	WarehouseID int64  `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
}

// ReorderRequest body para POST /api/purchase-orders/reorder. Quantity 0 = cantidad sugerida.
type ReorderRequest struct {
	ProductID   int64  `json:"product_id"`
	WarehouseID int64  `json:"warehouse_id"`
	Quantity    int64  `json:"quantity,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	WarehouseID   int64           `json:"warehouse_id"`
	Quantity      int64           `json:"quantity"`
	Status        string          `json:"status"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ReceivedAt    *time.Time      `json:"received_at,omitempty"`
}

// PurchaseOrderListResponse listado de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Total int                     `json:"total"`
}

// ReorderResponse respuesta simple de reorden: success=false con mensaje ante problemas de validación.
type ReorderResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Order   *PurchaseOrderResponse `json:"order,omitempty"`
}
