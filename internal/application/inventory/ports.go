package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Recorder recibe los eventos de negocio ya confirmados (métricas).
// Lo implementa infrastructure/metrics; nopRecorder cuando no hay métricas.
type Recorder interface {
	StockAdjusted(reason string, clamped bool)
	TransferExecuted(result string)
	PurchaseOrderEvent(event string)
	AlertTransitioned(status string)
}

// Valuator capacidad opcional de un RecordStore para calcular la valorización en el backend.
type Valuator interface {
	StockValuation(ctx context.Context, warehouseID int64) (decimal.Decimal, error)
}

type unwrapper interface {
	Unwrap() repository.RecordStore
}

// valuatorOf busca un Valuator a través de los decoradores del store.
func valuatorOf(store repository.RecordStore) (Valuator, bool) {
	for store != nil {
		if v, ok := store.(Valuator); ok {
			return v, true
		}
		u, ok := store.(unwrapper)
		if !ok {
			return nil, false
		}
		store = u.Unwrap()
	}
	return nil, false
}

type nopRecorder struct{}

func (nopRecorder) StockAdjusted(string, bool) {}
func (nopRecorder) TransferExecuted(string)    {}
func (nopRecorder) PurchaseOrderEvent(string)  {}
func (nopRecorder) AlertTransitioned(string)   {}
