package entity

import (
	"fmt"
	"time"
)

// StockKey identifica un registro de stock: un producto en una bodega.
type StockKey struct {
	ProductID   int64
	WarehouseID int64
}

func (k StockKey) String() string {
	return fmt.Sprintf("%d-%d", k.ProductID, k.WarehouseID)
}

// StockRecord cantidad autoritativa de un producto en una bodega.
// Solo el Stock Ledger lo modifica; nunca se elimina (la cantidad puede llegar a cero).
type StockRecord struct {
	ProductID   int64     `json:"productId"`
	WarehouseID int64     `json:"warehouseId"`
	Quantity    int64     `json:"quantity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Key devuelve la identidad (productId, warehouseId) del registro.
func (s StockRecord) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}
