package entity

import "time"

// Estados de seguimiento de una alerta. "active" es el implícito cuando no hay registro.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
	AlertStatusSnoozed      = "snoozed"
)

// Severidades derivadas de la clasificación del stock (no se persisten).
const (
	AlertSeverityCritical = "critical"
	AlertSeverityWarning  = "warning"
)

// AlertTrackingRecord interacción del usuario sobre una condición de stock bajo.
// SnoozeUntil es obligatorio si y solo si Status = snoozed.
type AlertTrackingRecord struct {
	ID          int64      `json:"id"`
	ProductID   int64      `json:"productId"`
	WarehouseID int64      `json:"warehouseId"`
	Status      string     `json:"status"`
	SnoozeUntil *time.Time `json:"snoozeUntil,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (a AlertTrackingRecord) RecordID() int64 { return a.ID }

// Key devuelve la identidad (productId, warehouseId) del registro.
func (a AlertTrackingRecord) Key() StockKey {
	return StockKey{ProductID: a.ProductID, WarehouseID: a.WarehouseID}
}

// IsAlertStatus indica si s es uno de los cuatro estados reconocidos.
func IsAlertStatus(s string) bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusSnoozed:
		return true
	}
	return false
}
