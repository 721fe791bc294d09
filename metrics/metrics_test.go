package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/widgets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets/42", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/widgets/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestHandlerExposesSimulatorMetrics(t *testing.T) {
	TicksTotal.Inc()
	OrdersTotal.WithLabelValues("BUY", "manual").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "papersim_ticks_total"))
	assert.True(t, strings.Contains(body, `papersim_orders_total{side="BUY",source="manual"}`))
}
