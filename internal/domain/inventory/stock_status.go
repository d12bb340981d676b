// Package inventory contiene las políticas puras de dominio sobre cantidades de stock.
package inventory

import "github.com/shopspring/decimal"

// StockStatus clasificación de un registro de stock frente a su punto de reorden.
type StockStatus string

const (
	StatusCriticalLow StockStatus = "critical-low"
	StatusLowStock    StockStatus = "low-stock"
	StatusHealthy     StockStatus = "healthy"
	StatusOverstocked StockStatus = "overstocked"
)

var (
	lowStockFactor    = decimal.RequireFromString("1.2")
	overstockedFactor = decimal.RequireFromString("3.0")
)

// Classify aplica la política de umbrales:
//
//	quantity <  reorderPoint       → critical-low
//	quantity <= reorderPoint × 1.2 → low-stock
//	quantity >  reorderPoint × 3.0 → overstocked
//	en otro caso                   → healthy
//
// Se usa decimal para que reorderPoint × 1.2 sea exacto (en float64 10 × 1.2 = 12.000000000000002).
func Classify(quantity, reorderPoint int64) StockStatus {
	q := decimal.NewFromInt(quantity)
	rp := decimal.NewFromInt(reorderPoint)
	switch {
	case q.LessThan(rp):
		return StatusCriticalLow
	case q.LessThanOrEqual(rp.Mul(lowStockFactor)):
		return StatusLowStock
	case q.GreaterThan(rp.Mul(overstockedFactor)):
		return StatusOverstocked
	default:
		return StatusHealthy
	}
}

// IsAlertCandidate indica si el estado debe aparecer como alerta de stock bajo.
func (s StockStatus) IsAlertCandidate() bool {
	return s == StatusCriticalLow || s == StatusLowStock
}
