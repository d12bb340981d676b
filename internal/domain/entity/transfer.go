package entity

import "time"

// Estados de un traslado. En el modelo síncrono solo se persisten traslados completados.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// Transfer registro de auditoría de un traslado entre bodegas. Inmutable una vez completado.
type Transfer struct {
	ID              int64     `json:"id"`
	ReferenceNumber string    `json:"referenceNumber"`
	ProductID       int64     `json:"productId"`
	FromWarehouseID int64     `json:"fromWarehouseId"`
	ToWarehouseID   int64     `json:"toWarehouseId"`
	Quantity        int64     `json:"quantity"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	Notes           string    `json:"notes,omitempty"`
}

func (t Transfer) RecordID() int64 { return t.ID }

// IsTransferStatus indica si s es un estado de traslado reconocido.
func IsTransferStatus(s string) bool {
	switch s {
	case TransferStatusPending, TransferStatusCompleted, TransferStatusFailed:
		return true
	}
	return false
}
