package inventory

import "github.com/shopspring/decimal"

var idealStockFactor = decimal.RequireFromString("1.5")

// IdealStock nivel objetivo de reposición: ReorderPoint * 1.5, redondeado hacia arriba.
func IdealStock(reorderPoint int64) int64 {
	return decimal.NewFromInt(reorderPoint).Mul(idealStockFactor).Ceil().IntPart()
}

// SuggestedOrderQuantity cantidad sugerida de pedido: IdealStock - StockActual, mínimo 1.
func SuggestedOrderQuantity(current, reorderPoint int64) int64 {
	qty := IdealStock(reorderPoint) - current
	if qty < 1 {
		return 1
	}
	return qty
}
