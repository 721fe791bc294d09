// Package metrics provides Prometheus instrumentation for the simulator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "papersim_ticks_total",
		Help: "Total number of simulation ticks advanced",
	})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "papersim_tick_duration_seconds",
		Help:    "Time spent advancing one tick",
		Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	// OrdersTotal counts executed orders by side and source (manual or bot name).
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersim_orders_total",
		Help: "Total number of executed orders",
	}, []string{"side", "source"})

	OrderRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersim_order_rejections_total",
		Help: "Orders rejected by the ledger",
	}, []string{"reason"})

	NewsEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersim_news_events_total",
		Help: "News shocks generated, by impact",
	}, []string{"impact"})

	NetWorth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "papersim_net_worth",
		Help: "Most recent portfolio net worth",
	})

	Cash = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "papersim_cash",
		Help: "Current cash balance",
	})

	Sentiment = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "papersim_market_sentiment",
		Help: "Global market sentiment in [-1, 1]",
	})

	ActiveBots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "papersim_active_bots",
		Help: "Number of active trading bots",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "papersim_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersim_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "papersim_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request metrics. The chi route pattern is used as the
// path label when available so instrument IDs don't explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
