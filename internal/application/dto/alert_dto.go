package dto

import "time"

// UpdateAlertStatusRequest body para PATCH /api/alerts/:productId/:warehouseId.
// snooze_until es obligatorio si y solo si status = snoozed.
type UpdateAlertStatusRequest struct {
	Status      string     `json:"status"`
	SnoozeUntil *time.Time `json:"snooze_until,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// AlertResponse alerta derivada del stock con el seguimiento superpuesto.
type AlertResponse struct {
	ID            string     `json:"id"` // "<productId>-<warehouseId>"
	ProductID     int64      `json:"product_id"`
	ProductName   string     `json:"product_name"`
	SKU           string     `json:"sku"`
	WarehouseID   int64      `json:"warehouse_id"`
	WarehouseName string     `json:"warehouse_name"`
	Quantity      int64      `json:"quantity"`
	ReorderPoint  int64      `json:"reorder_point"`
	StockStatus   string     `json:"stock_status"`
	Severity      string     `json:"severity"` // critical | warning
	Status        string     `json:"status"`
	SnoozeUntil   *time.Time `json:"snooze_until,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	TrackingID    int64      `json:"tracking_id,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// AlertListResponse listado de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Total int             `json:"total"`
}

// AlertTrackingResponse registro de seguimiento persistido.
type AlertTrackingResponse struct {
	ID          int64      `json:"id"`
	ProductID   int64      `json:"product_id"`
	WarehouseID int64      `json:"warehouse_id"`
	Status      string     `json:"status"`
	SnoozeUntil *time.Time `json:"snooze_until,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AlertSummaryResponse conteos por severidad y estado efectivo.
type AlertSummaryResponse struct {
	Total      int            `json:"total"`
	BySeverity map[string]int `json:"by_severity"`
	ByStatus   map[string]int `json:"by_status"`
}
