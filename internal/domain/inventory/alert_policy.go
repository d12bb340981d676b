package inventory

import (
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// alertTransitions transiciones permitidas desde cada estado efectivo.
var alertTransitions = map[string][]string{
	entity.AlertStatusActive:       {entity.AlertStatusAcknowledged, entity.AlertStatusResolved, entity.AlertStatusSnoozed},
	entity.AlertStatusAcknowledged: {entity.AlertStatusActive, entity.AlertStatusResolved, entity.AlertStatusSnoozed},
	entity.AlertStatusSnoozed:      {entity.AlertStatusActive, entity.AlertStatusAcknowledged, entity.AlertStatusResolved, entity.AlertStatusSnoozed},
	entity.AlertStatusResolved:     {entity.AlertStatusActive},
}

// CanTransitionAlert indica si from → to es una transición válida.
// Repetir el estado actual siempre es válido (actualiza notas o reprograma el snooze);
// una alerta resuelta solo se reabre.
func CanTransitionAlert(from, to string) bool {
	if from == to {
		return entity.IsAlertStatus(to)
	}
	for _, s := range alertTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// EffectiveAlertStatus estado de una alerta en el instante now.
// Sin registro la alerta está activa; un snooze vencido vuelve a activa sin transición almacenada.
func EffectiveAlertStatus(rec *entity.AlertTrackingRecord, now time.Time) string {
	if rec == nil {
		return entity.AlertStatusActive
	}
	if rec.Status == entity.AlertStatusSnoozed {
		if rec.SnoozeUntil == nil || !rec.SnoozeUntil.After(now) {
			return entity.AlertStatusActive
		}
	}
	return rec.Status
}

// SeverityFor severidad derivada de la clasificación; "" si no es candidata a alerta.
func SeverityFor(status StockStatus) string {
	switch status {
	case StatusCriticalLow:
		return entity.AlertSeverityCritical
	case StatusLowStock:
		return entity.AlertSeverityWarning
	}
	return ""
}
