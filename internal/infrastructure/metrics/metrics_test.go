package metrics

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
)

func TestContadores(t *testing.T) {
	m := New()
	m.StockAdjusted("manual-adjustment", true)
	m.StockAdjusted("manual-adjustment", true)
	m.TransferExecuted("completed")
	m.PurchaseOrderEvent("received")
	m.AlertTransitioned("snoozed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.adjustments.WithLabelValues("manual-adjustment", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purchaseOrders.WithLabelValues("received")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertTransition.WithLabelValues("snoozed")))
}

func TestInstrumentStore_DelegaYMide(t *testing.T) {
	m := New()
	base := memory.NewStore()
	store := m.InstrumentStore("memory", base)

	err := store.SaveAll(context.Background(), repository.CollectionWrite{
		Collection: "stock",
		Records:    []json.RawMessage{json.RawMessage(`{"productId":1}`)},
	})
	require.NoError(t, err)
	got, err := store.LoadAll(context.Background(), "stock")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.Equal(t, 2, testutil.CollectAndCount(m.storeOp))
	u, ok := store.(interface{ Unwrap() repository.RecordStore })
	require.True(t, ok)
	assert.Same(t, base, u.Unwrap())
}
