package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// ReorderPoint es el umbral bajo el cual el stock se clasifica como bajo o crítico.
type Product struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	ReorderPoint int64           `json:"reorderPoint"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (p Product) RecordID() int64 { return p.ID }
