// Package metrics expone los contadores Prometheus del motor de inventario.
package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Metrics colectores de la aplicación sobre un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	adjustments     *prometheus.CounterVec
	transfers       *prometheus.CounterVec
	purchaseOrders  *prometheus.CounterVec
	alertTransition *prometheus.CounterVec
	storeOp         *prometheus.HistogramVec
}

// New registra los colectores (más los de proceso y runtime de Go).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_adjustments_total",
			Help: "Ajustes de stock aplicados por el ledger.",
		}, []string{"reason", "clamped"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_transfers_total",
			Help: "Traslados entre bodegas por resultado.",
		}, []string{"result"}),
		purchaseOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_purchase_orders_total",
			Help: "Eventos del ciclo de vida de órdenes de compra.",
		}, []string{"event"}),
		alertTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_alert_transitions_total",
			Help: "Transiciones de estado de alertas por estado destino.",
		}, []string{"status"}),
		storeOp: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_store_operation_seconds",
			Help:    "Duración de operaciones del RecordStore.",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend", "op"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.adjustments, m.transfers, m.purchaseOrders, m.alertTransition, m.storeOp,
	)
	return m
}

// Handler handler HTTP de exposición para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso directo (pruebas).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// StockAdjusted cuenta un ajuste aplicado.
func (m *Metrics) StockAdjusted(reason string, clamped bool) {
	m.adjustments.WithLabelValues(reason, strconv.FormatBool(clamped)).Inc()
}

// TransferExecuted cuenta un traslado; result: completed, rejected, failed.
func (m *Metrics) TransferExecuted(result string) {
	m.transfers.WithLabelValues(result).Inc()
}

// PurchaseOrderEvent cuenta created, received o rejected.
func (m *Metrics) PurchaseOrderEvent(event string) {
	m.purchaseOrders.WithLabelValues(event).Inc()
}

// AlertTransitioned cuenta una transición persistida hacia status.
func (m *Metrics) AlertTransitioned(status string) {
	m.alertTransition.WithLabelValues(status).Inc()
}

// InstrumentStore envuelve un RecordStore midiendo la duración de cada operación.
func (m *Metrics) InstrumentStore(backend string, next repository.RecordStore) repository.RecordStore {
	return &instrumentedStore{next: next, backend: backend, hist: m.storeOp}
}

type instrumentedStore struct {
	next    repository.RecordStore
	backend string
	hist    *prometheus.HistogramVec
}

func (s *instrumentedStore) LoadAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	defer s.observe("load", time.Now())
	return s.next.LoadAll(ctx, collection)
}

func (s *instrumentedStore) SaveAll(ctx context.Context, writes ...repository.CollectionWrite) error {
	defer s.observe("save", time.Now())
	return s.next.SaveAll(ctx, writes...)
}

func (s *instrumentedStore) observe(op string, start time.Time) {
	s.hist.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

// Unwrap devuelve el store original (para detectar capacidades como StockValuation).
func (s *instrumentedStore) Unwrap() repository.RecordStore { return s.next }
