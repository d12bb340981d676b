package repository

import (
	"context"
	"encoding/json"
)

// Nombres de las colecciones persistidas. Las formas de registro (entity.*) son el esquema.
const (
	CollectionStock          = "stock"
	CollectionMovements      = "movements"
	CollectionTransfers      = "transfers"
	CollectionPurchaseOrders = "purchase_orders"
	CollectionAlerts         = "alerts"
	CollectionProducts       = "products"
	CollectionWarehouses     = "warehouses"
)

// CollectionWrite reemplazo completo de una colección.
type CollectionWrite struct {
	Collection string
	Records    []json.RawMessage
}

// RecordStore puerto de persistencia por colecciones completas (DIP).
//
// LoadAll devuelve los registros en el orden en que se guardaron; una colección inexistente
// es una lista vacía. SaveAll reemplaza cada colección indicada; con varias escrituras el lote
// es todo-o-nada y ningún lector observa un estado intermedio.
type RecordStore interface {
	LoadAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	SaveAll(ctx context.Context, writes ...CollectionWrite) error
}
