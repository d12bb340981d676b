package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	apphttp "github.com/jhoicas/inventory-tracker/internal/interfaces/http"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/recordstore"
	pkgjwt "github.com/jhoicas/inventory-tracker/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// newAPI monta el router completo sobre el store indicado.
func newAPI(store repository.RecordStore) *fiber.App {
	products := recordstore.NewProductRepository(store)
	warehouses := recordstore.NewWarehouseRepository(store)
	clock := clockwork.NewRealClock()
	ledger := inventory.NewLedger(store, products, warehouses, inventory.WithClock(clock))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(products, clock),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouses, clock),
		Ledger:      ledger,
		Transfers:   inventory.NewTransferEngine(ledger),
		Orders:      inventory.NewPurchaseOrderService(ledger),
		Alerts:      inventory.NewAlertService(ledger),
		JWTSecret:   testJWTSecret,
	})
	return app
}

// call envía body como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// seedCatalog crea el producto P-001 (reorden 10) y dos bodegas vía API.
func seedCatalog(t *testing.T, app *fiber.App) (productID, whA, whB int64) {
	t.Helper()
	var p dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
		map[string]any{"sku": "P-001", "name": "Tornillo", "reorder_point": 10, "unit_cost": "2.50"}, &p)
	require.Equal(t, http.StatusCreated, status)

	var a, b dto.WarehouseResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses", pkgjwt.RoleAdmin, map[string]any{"name": "Bodega A"}, &a))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/warehouses", pkgjwt.RoleAdmin, map[string]any{"name": "Bodega B"}, &b))
	return p.ID, a.ID, b.ID
}

// brokenStore falla en toda escritura.
type brokenStore struct {
	repository.RecordStore
}

func (brokenStore) SaveAll(context.Context, ...repository.CollectionWrite) error {
	return errors.New("disco lleno")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := newAPI(memory.NewStore())
	var body map[string]string
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestProductos_FiltroPorSKU(t *testing.T) {
	app := newAPI(memory.NewStore())
	productID, _, _ := seedCatalog(t, app)

	var out dto.ProductListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products?sku=p-001", "", nil, &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, productID, out.Items[0].ID)
	assert.Equal(t, 1, out.Page.Total)

	out = dto.ProductListResponse{}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products?sku=NO-EXISTE", "", nil, &out))
	assert.Empty(t, out.Items)
	assert.Zero(t, out.Page.Total)

	var e dto.ErrorResponse
	require.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
		map[string]any{"sku": "P-001", "name": "Duplicado"}, &e))
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestMutacionSinToken_Retorna401(t *testing.T) {
	app := newAPI(memory.NewStore())
	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/inventory/adjustments", "", map[string]any{"product_id": 1, "warehouse_id": 1, "delta": 5}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

func TestAjusteYConsultaDeStock(t *testing.T) {
	app := newAPI(memory.NewStore())
	productID, whA, _ := seedCatalog(t, app)

	var adj dto.AdjustStockResponse
	status := call(t, app, http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleBodeguero,
		map[string]any{"product_id": productID, "warehouse_id": whA, "delta": 5}, &adj)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(5), adj.Stock.Quantity)

	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleBodeguero,
		map[string]any{"product_id": productID, "warehouse_id": whA, "delta": -9}, &adj)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), adj.Stock.Quantity)
	assert.Equal(t, int64(-5), adj.Applied)
	assert.True(t, adj.Clamped)

	var list dto.StockListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/stock?status=critical-low", "", nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "P-001", list.Items[0].SKU)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/inventory/stock?status=regular", "", nil, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/inventory/stock/1/99", "", nil, nil))

	var moves dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/movements?limit=1", "", nil, &moves))
	assert.Equal(t, 2, moves.Page.Total)
	require.Len(t, moves.Items, 1)
	assert.Equal(t, int64(-9), moves.Items[0].Requested)
}

func TestTraslado_InsuficienteYExitoso(t *testing.T) {
	app := newAPI(memory.NewStore())
	productID, whA, whB := seedCatalog(t, app)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleAdmin,
		map[string]any{"product_id": productID, "warehouse_id": whA, "delta": 50}, nil))

	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero,
		map[string]any{"product_id": productID, "from_warehouse_id": whA, "to_warehouse_id": whB, "quantity": 100}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	var tr dto.TransferResponse
	status = call(t, app, http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero,
		map[string]any{"product_id": productID, "from_warehouse_id": whA, "to_warehouse_id": whB, "quantity": 10}, &tr)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "completed", tr.Status)
	assert.Regexp(t, `^TRF-\d{8}-[0-9A-F]{8}$`, tr.ReferenceNumber)

	var page dto.TransferListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/transfers?warehouse_id=2", "", nil, &page))
	assert.Equal(t, 1, page.Page.Total)
	assert.Equal(t, 20, page.Page.Limit)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/transfers?from=ayer", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/transfers/77", "", nil, nil))
}

func TestOrdenDeCompra_RecepcionRequiereRolYEsUnica(t *testing.T) {
	app := newAPI(memory.NewStore())
	productID, whA, _ := seedCatalog(t, app)

	var po dto.PurchaseOrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/purchase-orders", pkgjwt.RoleAdmin,
		map[string]any{"product_id": productID, "warehouse_id": whA, "quantity": 20}, &po))
	assert.Equal(t, "pending", po.Status)
	assert.Equal(t, "50", po.EstimatedCost.String())

	receive := "/api/purchase-orders/1/receive"
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, receive, pkgjwt.RoleConsulta, nil, nil))

	var received dto.PurchaseOrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, receive, pkgjwt.RoleBodeguero, nil, &received))
	assert.Equal(t, "received", received.Status)
	assert.NotNil(t, received.ReceivedAt)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, receive, pkgjwt.RoleAdmin, nil, &e))
	assert.Equal(t, "INVALID_STATE", e.Code)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/purchase-orders/99", "", nil, nil))
}

func TestReorden_ErrorEsperadoResponde200SinExito(t *testing.T) {
	app := newAPI(memory.NewStore())
	_, whA, _ := seedCatalog(t, app)

	var res dto.ReorderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/purchase-orders/reorder", pkgjwt.RoleAdmin,
		map[string]any{"product_id": 404, "warehouse_id": whA}, &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Nil(t, res.Order)
}

func TestAlertas_ConsultaYCambioDeEstado(t *testing.T) {
	app := newAPI(memory.NewStore())
	productID, whA, _ := seedCatalog(t, app)
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleAdmin,
		map[string]any{"product_id": productID, "warehouse_id": whA, "delta": 3}, nil))

	var list dto.AlertListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/alerts", "", nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "critical", list.Items[0].Severity)
	assert.Equal(t, "active", list.Items[0].Status)

	path := "/api/alerts/1/1"
	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPatch, path, pkgjwt.RoleAdmin, map[string]any{"status": "snoozed"}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	until := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	var rec dto.AlertTrackingResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPatch, path, pkgjwt.RoleAdmin,
		map[string]any{"status": "snoozed", "snooze_until": until}, &rec))
	assert.Equal(t, "snoozed", rec.Status)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/alerts", "", nil, &list))
	assert.Zero(t, list.Total)

	var sum dto.AlertSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/alerts/summary", "", nil, &sum))
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, 1, sum.ByStatus["snoozed"])

	var got dto.AlertTrackingResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/alerts/1", "", nil, &got))
	assert.Equal(t, rec.ID, got.ID)
}

func TestFalloDeAlmacenamiento_Retorna500SinDetalle(t *testing.T) {
	store := memory.NewStore()
	productID, whA, _ := seedCatalog(t, newAPI(store))

	app := newAPI(brokenStore{RecordStore: store})
	var e dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/inventory/adjustments", pkgjwt.RoleAdmin,
		map[string]any{"product_id": productID, "warehouse_id": whA, "delta": 1}, &e)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", e.Code)
	assert.NotContains(t, e.Message, "disco")
}
