package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// TransferHandler maneja los traslados entre bodegas.
type TransferHandler struct {
	engine *inventory.TransferEngine
}

// NewTransferHandler construye el handler.
func NewTransferHandler(engine *inventory.TransferEngine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// Create godoc
// @Summary      Ejecutar traslado
// @Description  Descuenta en origen y acredita en destino en una sola unidad atómica.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	tr, err := h.engine.ExecuteTransfer(c.UserContext(), inventory.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(*tr))
}

// List godoc
// @Summary      Consultar traslados
// @Tags         transfers
// @Produce      json
// @Param        product_id    query  int     false  "Filtrar por producto"
// @Param        warehouse_id  query  int     false  "Origen o destino"
// @Param        status        query  string  false  "pending | completed | failed"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	productID, ok1 := queryID(c, "product_id")
	warehouseID, ok2 := queryID(c, "warehouse_id")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_QUERY", "product_id y warehouse_id deben ser enteros positivos")
	}
	from, ok1 := queryTime(c, "from")
	to, ok2 := queryTime(c, "to")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_QUERY", "from y to deben tener formato RFC3339")
	}
	page, err := h.engine.QueryTransfers(c.UserContext(), inventory.TransferFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Status:      c.Query("status"),
		From:        from,
		To:          to,
		Limit:       c.QueryInt("limit", 0),
		Offset:      c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toTransferResponse(t))
	}
	return c.JSON(dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: page.Total},
	})
}

// GetByID godoc
// @Summary      Obtener traslado por ID
// @Tags         transfers
// @Produce      json
// @Param        id   path  int  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	tr, err := h.engine.GetTransferByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTransferResponse(*tr))
}
