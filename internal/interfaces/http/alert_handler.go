package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// AlertHandler expone las alertas de stock bajo y su seguimiento.
type AlertHandler struct {
	svc *inventory.AlertService
}

// NewAlertHandler construye el handler.
func NewAlertHandler(svc *inventory.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// List godoc
// @Summary      Consultar alertas
// @Description  Sin status solo devuelve alertas activas; status=all devuelve todas.
// @Tags         alerts
// @Produce      json
// @Param        severity      query  string  false  "critical | warning"
// @Param        status        query  string  false  "active | acknowledged | resolved | snoozed | all"
// @Param        warehouse_id  query  int     false  "Filtrar por bodega"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	warehouseID, ok := queryID(c, "warehouse_id")
	if !ok {
		return badRequest(c, "INVALID_QUERY", "warehouse_id debe ser un entero positivo")
	}
	views, err := h.svc.QueryAlerts(c.UserContext(), inventory.AlertFilter{
		Severity:    c.Query("severity"),
		Status:      c.Query("status"),
		WarehouseID: warehouseID,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.AlertResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toAlertResponse(v))
	}
	return c.JSON(dto.AlertListResponse{Items: items, Total: len(items)})
}

// Summary godoc
// @Summary      Resumen de alertas
// @Tags         alerts
// @Produce      json
// @Param        warehouse_id  query  int  false  "Filtrar por bodega"
// @Success      200  {object}  dto.AlertSummaryResponse
// @Router       /api/alerts/summary [get]
func (h *AlertHandler) Summary(c *fiber.Ctx) error {
	warehouseID, ok := queryID(c, "warehouse_id")
	if !ok {
		return badRequest(c, "INVALID_QUERY", "warehouse_id debe ser un entero positivo")
	}
	sum, err := h.svc.Summary(c.UserContext(), warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AlertSummaryResponse{Total: sum.Total, BySeverity: sum.BySeverity, ByStatus: sum.ByStatus})
}

// GetByID godoc
// @Summary      Obtener registro de seguimiento de alerta
// @Tags         alerts
// @Produce      json
// @Param        id   path  int  true  "ID del registro de seguimiento"
// @Success      200  {object}  dto.AlertTrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	rec, err := h.svc.GetAlertByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAlertTrackingResponse(rec))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una alerta
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId    path  int  true  "ID del producto"
// @Param        warehouseId  path  int  true  "ID de la bodega"
// @Param        body  body  dto.UpdateAlertStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.AlertTrackingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "INVALID_STATE: una alerta resuelta solo admite reabrirse (active)"
// @Router       /api/alerts/{productId}/{warehouseId} [patch]
func (h *AlertHandler) UpdateStatus(c *fiber.Ctx) error {
	productID, ok1 := paramID(c, "productId")
	warehouseID, ok2 := paramID(c, "warehouseId")
	if !ok1 || !ok2 {
		return badRequest(c, "INVALID_ID", "productId y warehouseId deben ser enteros positivos")
	}
	var in dto.UpdateAlertStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	rec, err := h.svc.UpdateAlertStatus(c.UserContext(), productID, warehouseID, inventory.AlertPatch{
		Status:      in.Status,
		SnoozeUntil: in.SnoozeUntil,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAlertTrackingResponse(rec))
}
