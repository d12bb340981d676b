package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra: pending → received (terminal).
const (
	PurchaseOrderPending  = "pending"
	PurchaseOrderReceived = "received"
)

// PurchaseOrder pedido de reposición. Acredita stock exactamente una vez al recibirse.
type PurchaseOrder struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"productId"`
	WarehouseID   int64           `json:"warehouseId"`
	Quantity      int64           `json:"quantity"`
	Status        string          `json:"status"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	EstimatedCost decimal.Decimal `json:"estimatedCost"` // Quantity * UnitCost al momento de crear
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	ReceivedAt    *time.Time      `json:"receivedAt,omitempty"`
}

func (o PurchaseOrder) RecordID() int64 { return o.ID }
