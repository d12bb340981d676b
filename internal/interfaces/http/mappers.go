package http

import (
	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

func toStockRecordResponse(r entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		LastUpdated: r.LastUpdated,
	}
}

func toStockLevelResponse(l inventory.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:     l.Record.ProductID,
		SKU:           l.SKU,
		ProductName:   l.ProductName,
		WarehouseID:   l.Record.WarehouseID,
		WarehouseName: l.WarehouseName,
		Quantity:      l.Record.Quantity,
		ReorderPoint:  l.ReorderPoint,
		Status:        string(l.Status),
		LastUpdated:   l.Record.LastUpdated,
	}
}

func toMovementResponse(m entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		WarehouseID:       m.WarehouseID,
		Requested:         m.Requested,
		Applied:           m.Applied,
		ResultingQuantity: m.ResultingQuantity,
		Reason:            m.Reason,
		Reference:         m.Reference,
		CreatedAt:         m.CreatedAt,
	}
}

func toTransferResponse(t entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:              t.ID,
		ReferenceNumber: t.ReferenceNumber,
		ProductID:       t.ProductID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Quantity:        t.Quantity,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		Notes:           t.Notes,
	}
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.PurchaseOrderResponse{
		ID:            o.ID,
		ProductID:     o.ProductID,
		WarehouseID:   o.WarehouseID,
		Quantity:      o.Quantity,
		Status:        o.Status,
		UnitCost:      o.UnitCost,
		EstimatedCost: o.EstimatedCost,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		ReceivedAt:    o.ReceivedAt,
	}
}

func toReplenishmentDTO(s inventory.ReplenishmentSuggestion) dto.ReplenishmentSuggestionDTO {
	return dto.ReplenishmentSuggestionDTO{
		ProductID:          s.ProductID,
		SKU:                s.SKU,
		ProductName:        s.ProductName,
		WarehouseID:        s.WarehouseID,
		WarehouseName:      s.WarehouseName,
		CurrentStock:       s.CurrentStock,
		ReorderPoint:       s.ReorderPoint,
		IdealStock:         s.IdealStock,
		SuggestedOrderQty:  s.SuggestedOrderQty,
		UnitCost:           s.UnitCost,
		EstimatedOrderCost: s.EstimatedOrderCost,
		Priority:           s.Priority,
	}
}

func toAlertResponse(v inventory.AlertView) dto.AlertResponse {
	return dto.AlertResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		ProductName:   v.ProductName,
		SKU:           v.SKU,
		WarehouseID:   v.WarehouseID,
		WarehouseName: v.WarehouseName,
		Quantity:      v.Quantity,
		ReorderPoint:  v.ReorderPoint,
		StockStatus:   string(v.StockStatus),
		Severity:      v.Severity,
		Status:        v.Status,
		SnoozeUntil:   v.SnoozeUntil,
		Notes:         v.Notes,
		TrackingID:    v.TrackingID,
		UpdatedAt:     v.UpdatedAt,
	}
}

func toAlertTrackingResponse(r *entity.AlertTrackingRecord) dto.AlertTrackingResponse {
	return dto.AlertTrackingResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Status:      r.Status,
		SnoozeUntil: r.SnoozeUntil,
		Notes:       r.Notes,
		UpdatedAt:   r.UpdatedAt,
	}
}
