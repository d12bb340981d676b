package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// PurchaseOrderHandler maneja el ciclo de vida de las órdenes de compra.
type PurchaseOrderHandler struct {
	svc *inventory.PurchaseOrderService
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(svc *inventory.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{svc: svc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Orden"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	po, err := h.svc.CreatePurchaseOrder(c.UserContext(), inventory.CreatePurchaseOrderInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseOrderResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Produce      json
// @Param        status        query  string  false  "pending | received"
// @Param        product_id    query  int     false  "Filtrar por producto"
// @Param        warehouse_id  query  int     false  "Filtrar por bodega"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	productID, ok1 := queryID(c, "product_id")
	warehouseID, ok2 := queryID(c, "warehouse_id")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_QUERY", "product_id y warehouse_id deben ser enteros positivos")
	}
	orders, err := h.svc.ListPurchaseOrders(c.UserContext(), inventory.PurchaseOrderFilter{
		Status:      c.Query("status"),
		ProductID:   productID,
		WarehouseID: warehouseID,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *toPurchaseOrderResponse(&orders[i]))
	}
	return c.JSON(dto.PurchaseOrderListResponse{Items: items, Total: len(items)})
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	po, err := h.svc.GetPurchaseOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}

// Receive godoc
// @Summary      Recibir orden de compra
// @Description  Acredita la cantidad en la bodega destino exactamente una vez. Requiere rol admin o bodeguero.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_STATE si ya fue recibida"
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	po, err := h.svc.ReceivePurchaseOrder(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toPurchaseOrderResponse(po))
}

// Reorder godoc
// @Summary      Reorden rápida
// @Description  Crea una orden pendiente; quantity vacío usa la cantidad sugerida. Los problemas de validación responden success=false.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReorderRequest  true  "Reorden"
// @Success      200   {object}  dto.ReorderResponse
// @Router       /api/purchase-orders/reorder [post]
func (h *PurchaseOrderHandler) Reorder(c *fiber.Ctx) error {
	var in dto.ReorderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.svc.ReorderStock(c.UserContext(), inventory.ReorderInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReorderResponse{
		Success: res.Success,
		Message: res.Message,
		Order:   toPurchaseOrderResponse(res.Order),
	})
}
