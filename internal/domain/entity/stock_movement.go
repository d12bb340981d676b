package entity

import "time"

// Motivos de ajuste de stock registrados en el log de actividad.
const (
	ReasonManualAdjustment     = "manual-adjustment"
	ReasonPurchaseOrderReceipt = "purchase-order-receipt"
	ReasonTransferOut          = "transfer-out"
	ReasonTransferIn           = "transfer-in"
)

// StockMovement entrada append-only del log de actividad: un ajuste aplicado por el ledger.
// Requested es el delta pedido; Applied el efectivo tras el recorte a cero.
type StockMovement struct {
	ID                int64     `json:"id"`
	ProductID         int64     `json:"productId"`
	WarehouseID       int64     `json:"warehouseId"`
	Requested         int64     `json:"requested"`
	Applied           int64     `json:"applied"`
	ResultingQuantity int64     `json:"resultingQuantity"`
	Reason            string    `json:"reason"`
	Reference         string    `json:"reference,omitempty"` // número de traslado, id de orden, etc.
	CreatedAt         time.Time `json:"createdAt"`
}

func (m StockMovement) RecordID() int64 { return m.ID }
