package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// alertFixture A en critical-low (5 < 10) y B en low-stock (11 <= 12).
func alertFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.seed(t, f.whA, 5)
	f.seed(t, f.whB, 11)
	return f
}

func TestQueryAlerts_DerivaCandidatasDelStock(t *testing.T) {
	f := alertFixture(t)

	alerts, err := f.alerts.QueryAlerts(context.Background(), AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "1-1", alerts[0].ID)
	assert.Equal(t, entity.AlertSeverityCritical, alerts[0].Severity)
	assert.Equal(t, inventory.StatusCriticalLow, alerts[0].StockStatus)
	assert.Equal(t, entity.AlertStatusActive, alerts[0].Status)
	assert.Zero(t, alerts[0].TrackingID)

	assert.Equal(t, entity.AlertSeverityWarning, alerts[1].Severity)
	assert.Equal(t, "Bodega B", alerts[1].WarehouseName)

	critical, err := f.alerts.QueryAlerts(context.Background(), AlertFilter{Severity: entity.AlertSeverityCritical})
	require.NoError(t, err)
	assert.Len(t, critical, 1)

	onlyB, err := f.alerts.QueryAlerts(context.Background(), AlertFilter{WarehouseID: f.whB})
	require.NoError(t, err)
	require.Len(t, onlyB, 1)
	assert.Equal(t, f.whB, onlyB[0].WarehouseID)
}

func TestQueryAlerts_StockSanoNoEsCandidato(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.whA, 13)

	alerts, err := f.alerts.QueryAlerts(context.Background(), AlertFilter{Status: AlertStatusAll})
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestQueryAlerts_FiltrosInvalidos(t *testing.T) {
	f := alertFixture(t)

	_, err := f.alerts.QueryAlerts(context.Background(), AlertFilter{Status: "dormida"})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	_, err = f.alerts.QueryAlerts(context.Background(), AlertFilter{Severity: "info"})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestUpdateAlertStatus_SnoozeSinFechaSeRechazaYReintento(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()

	_, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusSnoozed})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, f.collectionLen(t, repository.CollectionAlerts))

	tomorrow := fixtureNow.Add(24 * time.Hour)
	rec, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusSnoozed, SnoozeUntil: &tomorrow})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusSnoozed, rec.Status)
	require.NotNil(t, rec.SnoozeUntil)
	assert.True(t, rec.SnoozeUntil.Equal(tomorrow))
	assert.True(t, rec.UpdatedAt.Equal(fixtureNow))

	active, err := f.alerts.QueryAlerts(ctx, AlertFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, f.whB, active[0].WarehouseID)

	snoozed, err := f.alerts.QueryAlerts(ctx, AlertFilter{Status: entity.AlertStatusSnoozed})
	require.NoError(t, err)
	require.Len(t, snoozed, 1)
	assert.Equal(t, rec.ID, snoozed[0].TrackingID)

	// vencido el snooze la alerta vuelve a activa sin transición almacenada
	f.clock.Advance(25 * time.Hour)
	active, err = f.alerts.QueryAlerts(ctx, AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Nil(t, active[0].SnoozeUntil)

	stored, err := f.alerts.GetAlertByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusSnoozed, stored.Status)
}

func TestUpdateAlertStatus_Validaciones(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()
	past := fixtureNow.Add(-time.Minute)
	future := fixtureNow.Add(time.Hour)

	cases := []struct {
		name  string
		patch AlertPatch
	}{
		{"status desconocido", AlertPatch{Status: "archived"}},
		{"status vacío", AlertPatch{}},
		{"snooze en el pasado", AlertPatch{Status: entity.AlertStatusSnoozed, SnoozeUntil: &past}},
		{"snoozeUntil con otro status", AlertPatch{Status: entity.AlertStatusAcknowledged, SnoozeUntil: &future}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, tc.patch)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}

	_, err := f.alerts.UpdateAlertStatus(ctx, 404, f.whA, AlertPatch{Status: entity.AlertStatusResolved})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, 0, f.collectionLen(t, repository.CollectionAlerts))
}

func TestUpdateAlertStatus_Transiciones(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()
	notes := "  proveedor avisado "

	ack, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "proveedor avisado", ack.Notes)
	assert.Equal(t, int64(1), ack.ID)

	hidden, err := f.alerts.QueryAlerts(ctx, AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, hidden, 1)

	resolved, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusResolved})
	require.NoError(t, err)
	assert.Equal(t, ack.ID, resolved.ID)
	assert.Equal(t, "proveedor avisado", resolved.Notes)

	_, err = f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged})
	assert.True(t, errors.Is(err, domain.ErrInvalidState))

	reopened, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusActive})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusActive, reopened.Status)
	assert.Equal(t, 1, f.collectionLen(t, repository.CollectionAlerts))
}

func TestUpdateAlertStatus_SnoozeVencidoCuentaComoActivo(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()
	soon := fixtureNow.Add(time.Hour)

	_, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusSnoozed, SnoozeUntil: &soon})
	require.NoError(t, err)
	f.clock.Advance(2 * time.Hour)

	// el snooze vencido ya es active: repetir active solo limpia la fecha
	rec, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusActive})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusActive, rec.Status)
	assert.Nil(t, rec.SnoozeUntil)

	rec, err = f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged})
	require.NoError(t, err)
	assert.Nil(t, rec.SnoozeUntil)
}

func TestUpdateAlertStatus_MismoEstadoActualizaNotas(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()
	first, second := "llamar proveedor", "proveedor confirma entrega el lunes"

	ack, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged, Notes: &first})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	again, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged, Notes: &second})
	require.NoError(t, err)
	assert.Equal(t, ack.ID, again.ID)
	assert.Equal(t, entity.AlertStatusAcknowledged, again.Status)
	assert.Equal(t, second, again.Notes)
	assert.True(t, again.UpdatedAt.Equal(fixtureNow.Add(time.Minute)))

	_, err = f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusResolved})
	require.NoError(t, err)
	resolved, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusResolved, Notes: &first})
	require.NoError(t, err)
	assert.Equal(t, first, resolved.Notes)

	_, err = f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusAcknowledged})
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, 1, f.collectionLen(t, repository.CollectionAlerts))
}

// ─── Reapertura por recuperación del stock ───────────────────────────────────

func TestAlertaResueltaReapareceEnNuevoEpisodioDeStockBajo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.whA, 3)

	rec, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusResolved})
	require.NoError(t, err)
	active, err := f.alerts.QueryAlerts(ctx, AlertFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	// sigue en stock bajo: la resolución se mantiene
	_, err = f.ledger.Adjust(ctx, AdjustInput{ProductID: f.productID, WarehouseID: f.whA, Delta: 1})
	require.NoError(t, err)
	stored, err := f.alerts.GetAlertByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, stored.Status)

	f.clock.Advance(time.Hour)
	_, err = f.ledger.Adjust(ctx, AdjustInput{ProductID: f.productID, WarehouseID: f.whA, Delta: 50})
	require.NoError(t, err)
	stored, err = f.alerts.GetAlertByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusActive, stored.Status)
	assert.True(t, stored.UpdatedAt.Equal(fixtureNow.Add(time.Hour)))

	_, err = f.ledger.Adjust(ctx, AdjustInput{ProductID: f.productID, WarehouseID: f.whA, Delta: -53})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.quantity(t, f.whA))

	active, err = f.alerts.QueryAlerts(ctx, AlertFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, entity.AlertSeverityCritical, active[0].Severity)
	assert.Equal(t, rec.ID, active[0].TrackingID)
}

func TestTrasladoQueRecuperaStockReabreAlertaPospuesta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.whA, 2)
	f.seed(t, f.whB, 40)

	tomorrow := fixtureNow.Add(24 * time.Hour)
	_, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whA, AlertPatch{Status: entity.AlertStatusSnoozed, SnoozeUntil: &tomorrow})
	require.NoError(t, err)

	_, err = f.transfers.ExecuteTransfer(ctx, TransferInput{ProductID: f.productID, FromWarehouseID: f.whB, ToWarehouseID: f.whA, Quantity: 20})
	require.NoError(t, err)

	all, err := f.alerts.QueryAlerts(ctx, AlertFilter{Status: AlertStatusAll})
	require.NoError(t, err)
	assert.Empty(t, all)

	raw, err := repository.Load[entity.AlertTrackingRecord](ctx, f.store, repository.CollectionAlerts)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, entity.AlertStatusActive, raw[0].Status)
	assert.Nil(t, raw[0].SnoozeUntil)
}

func TestGetAlertByID_NoEncontrada(t *testing.T) {
	f := alertFixture(t)
	_, err := f.alerts.GetAlertByID(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAlertSummary_Conteos(t *testing.T) {
	f := alertFixture(t)
	ctx := context.Background()
	_, err := f.alerts.UpdateAlertStatus(ctx, f.productID, f.whB, AlertPatch{Status: entity.AlertStatusAcknowledged})
	require.NoError(t, err)

	sum, err := f.alerts.Summary(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.BySeverity[entity.AlertSeverityCritical])
	assert.Equal(t, 1, sum.BySeverity[entity.AlertSeverityWarning])
	assert.Equal(t, 1, sum.ByStatus[entity.AlertStatusActive])
	assert.Equal(t, 1, sum.ByStatus[entity.AlertStatusAcknowledged])
	assert.Equal(t, 0, sum.ByStatus[entity.AlertStatusSnoozed])
}
