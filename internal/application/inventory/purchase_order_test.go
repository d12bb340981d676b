package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
)

func TestPurchaseOrder_RecibirAcreditaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, f.whA, 5)

	po, err := f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, po.Status)
	assert.Nil(t, po.ReceivedAt)
	assert.True(t, decimal.RequireFromString("2.50").Equal(po.UnitCost))
	assert.True(t, decimal.RequireFromString("50").Equal(po.EstimatedCost))

	f.clock.Advance(2 * time.Hour)
	received, err := f.orders.ReceivePurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.True(t, received.ReceivedAt.Equal(fixtureNow.Add(2*time.Hour)))
	assert.Equal(t, int64(25), f.quantity(t, f.whA))

	_, err = f.orders.ReceivePurchaseOrder(ctx, po.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, int64(25), f.quantity(t, f.whA))

	moves, _, err := f.ledger.ListMovements(ctx, MovementFilter{})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonPurchaseOrderReceipt, moves[0].Reason)
	assert.Equal(t, "PO-1", moves[0].Reference)
}

func TestPurchaseOrder_RecepcionesConcurrentesAcreditanUnaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po, err := f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: 20})
	require.NoError(t, err)

	var g errgroup.Group
	results := make([]error, 8)
	for i := range results {
		g.Go(func() error {
			_, results[i] = f.orders.ReceivePurchaseOrder(ctx, po.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(20), f.quantity(t, f.whA))
}

func TestPurchaseOrder_FalloAlConfirmarPermiteReintentoSinDobleCredito(t *testing.T) {
	store := &failingStore{RecordStore: memory.NewStore()}
	f := newFixtureWithStore(t, store)
	ctx := context.Background()
	po, err := f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: 20})
	require.NoError(t, err)

	store.failNext(1)
	_, err = f.orders.ReceivePurchaseOrder(ctx, po.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, int64(0), f.quantity(t, f.whA))

	got, err := f.orders.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status)

	_, err = f.orders.ReceivePurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	_, err = f.orders.ReceivePurchaseOrder(ctx, po.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidState))
	assert.Equal(t, int64(20), f.quantity(t, f.whA))
}

func TestPurchaseOrder_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: 0})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: 99, WarehouseID: f.whA, Quantity: 3})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = f.orders.ReceivePurchaseOrder(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.orders.GetPurchaseOrder(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListPurchaseOrders_FiltraYOrdena(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, wh := range []int64{f.whA, f.whB, f.whA} {
		_, err := f.orders.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{ProductID: f.productID, WarehouseID: wh, Quantity: 1})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
	_, err := f.orders.ReceivePurchaseOrder(ctx, 1)
	require.NoError(t, err)

	all, err := f.orders.ListPurchaseOrders(ctx, PurchaseOrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID)

	pending, err := f.orders.ListPurchaseOrders(ctx, PurchaseOrderFilter{Status: entity.PurchaseOrderPending, WarehouseID: f.whA})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)

	_, err = f.orders.ListPurchaseOrders(ctx, PurchaseOrderFilter{Status: "cancelled"})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

// ─── Reorder ─────────────────────────────────────────────────────────────────

func TestReorderStock_CantidadSugerida(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.whA, 4)

	res, err := f.orders.ReorderStock(context.Background(), ReorderInput{ProductID: f.productID, WarehouseID: f.whA})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	// ceil(10 * 1.5) - 4
	assert.Equal(t, int64(11), res.Order.Quantity)
	assert.Equal(t, entity.PurchaseOrderPending, res.Order.Status)
}

func TestReorderStock_CantidadExplicita(t *testing.T) {
	f := newFixture(t)

	res, err := f.orders.ReorderStock(context.Background(), ReorderInput{ProductID: f.productID, WarehouseID: f.whB, Quantity: 30})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, int64(30), res.Order.Quantity)
	assert.NotEmpty(t, res.Message)
}

func TestReorderStock_ErroresEsperadosNoSonError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.orders.ReorderStock(ctx, ReorderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: -1})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.Order)

	res, err = f.orders.ReorderStock(ctx, ReorderInput{ProductID: 123, WarehouseID: f.whA, Quantity: 5})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "123")
}

func TestReorderStock_FalloDeAlmacenamientoEsError(t *testing.T) {
	store := &failingStore{RecordStore: memory.NewStore()}
	f := newFixtureWithStore(t, store)

	store.failNext(1)
	res, err := f.orders.ReorderStock(context.Background(), ReorderInput{ProductID: f.productID, WarehouseID: f.whA, Quantity: 5})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrStorage))
}

// ─── Replenishment ───────────────────────────────────────────────────────────

func TestReplenishmentList_OrdenaPorDeficit(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.whA, 8) // déficit 2
	f.seed(t, f.whB, 1) // déficit 9

	list, err := f.orders.ReplenishmentList(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, f.whB, list[0].WarehouseID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(15), list[0].IdealStock)
	assert.Equal(t, int64(14), list[0].SuggestedOrderQty)
	assert.True(t, decimal.RequireFromString("35").Equal(list[0].EstimatedOrderCost))

	assert.Equal(t, f.whA, list[1].WarehouseID)
	assert.Equal(t, 2, list[1].Priority)
	assert.Equal(t, int64(7), list[1].SuggestedOrderQty)

	onlyA, err := f.orders.ReplenishmentList(context.Background(), f.whA)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "Bodega A", onlyA[0].WarehouseName)
}
