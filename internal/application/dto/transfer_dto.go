package dto

import "time"

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID       int64  `json:"product_id"`
	FromWarehouseID int64  `json:"from_warehouse_id"`
	ToWarehouseID   int64  `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Notes           string `json:"notes,omitempty"`
}

// TransferResponse registro de auditoría de un traslado.
type TransferResponse struct {
	ID              int64     `json:"id"`
	ReferenceNumber string    `json:"reference_number"`
	ProductID       int64     `json:"product_id"`
	FromWarehouseID int64     `json:"from_warehouse_id"`
	ToWarehouseID   int64     `json:"to_warehouse_id"`
	Quantity        int64     `json:"quantity"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	Notes           string    `json:"notes,omitempty"`
}

// TransferListResponse página de traslados, más reciente primero.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
