package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// InventoryHandler expone el ledger de stock: consulta, ajustes, actividad y valorización.
type InventoryHandler struct {
	ledger *inventory.Ledger
	orders *inventory.PurchaseOrderService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger, orders *inventory.PurchaseOrderService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, orders: orders}
}

// ListStock godoc
// @Summary      Listar stock por producto y bodega
// @Description  Cada registro incluye su clasificación (critical-low, low-stock, healthy, overstocked).
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  int     false  "Filtrar por producto"
// @Param        warehouse_id  query  int     false  "Filtrar por bodega"
// @Param        status        query  string  false  "Filtrar por clasificación"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	productID, ok1 := queryID(c, "product_id")
	warehouseID, ok2 := queryID(c, "warehouse_id")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_QUERY", "product_id y warehouse_id deben ser enteros positivos")
	}
	levels, err := h.ledger.ListStock(c.UserContext(), inventory.StockFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Status:      c.Query("status"),
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, toStockLevelResponse(l))
	}
	return c.JSON(dto.StockListResponse{Items: items, Total: len(items)})
}

// GetStock godoc
// @Summary      Obtener stock de un producto en una bodega
// @Tags         inventory
// @Produce      json
// @Param        productId    path  int  true  "ID del producto"
// @Param        warehouseId  path  int  true  "ID de la bodega"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{productId}/{warehouseId} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID, ok1 := paramID(c, "productId")
	warehouseID, ok2 := paramID(c, "warehouseId")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_ID", "productId y warehouseId deben ser enteros positivos")
	}
	rec, err := h.ledger.GetStock(c.UserContext(), productID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin registro de stock"})
	}
	return c.JSON(toStockRecordResponse(*rec))
}

// Adjust godoc
// @Summary      Ajustar stock
// @Description  Aplica max(0, actual + delta). La respuesta indica si el ajuste se recortó a cero.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Adjust(c.UserContext(), inventory.AdjustInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		Reference:   in.Reference,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{
		Stock:     toStockRecordResponse(res.Record),
		Requested: res.Requested,
		Applied:   res.Applied,
		Clamped:   res.Clamped,
		Reason:    res.Reason,
	})
}

// ListMovements godoc
// @Summary      Log de actividad de stock
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  int  false  "Filtrar por producto"
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Param        limit         query  int  false  "Límite"  default(20)
// @Param        offset        query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID, ok1 := queryID(c, "product_id")
	warehouseID, ok2 := queryID(c, "warehouse_id")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_QUERY", "product_id y warehouse_id deben ser enteros positivos")
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	moves, total, err := h.ledger.ListMovements(c.UserContext(), inventory.MovementFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(moves))
	for _, m := range moves {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	})
}

// Valuation godoc
// @Summary      Valorización del inventario
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  int  false  "Bodega (vacío = todas)"
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	warehouseID, ok := queryID(c, "warehouse_id")
	if !ok {
		return badRequest(c, "INVALID_QUERY", "warehouse_id debe ser un entero positivo")
	}
	total, err := h.ledger.Valuation(c.UserContext(), warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ValuationResponse{WarehouseID: warehouseID, Total: total})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición sugerida
// @Description  Registros por debajo del punto de reorden con cantidad sugerida y costo estimado.
// @Tags         inventory
// @Produce      json
// @Param        warehouse_id  query  int  false  "Bodega (vacío = todas)"
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	warehouseID, ok := queryID(c, "warehouse_id")
	if !ok {
		return badRequest(c, "INVALID_QUERY", "warehouse_id debe ser un entero positivo")
	}
	list, err := h.orders.ReplenishmentList(c.UserContext(), warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		items = append(items, toReplenishmentDTO(s))
	}
	return c.JSON(dto.ReplenishmentListResponse{Total: len(items), Replenishments: items})
}
