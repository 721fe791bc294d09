package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/logging"
	"github.com/rustyeddy/papersim/market"
	"github.com/rustyeddy/papersim/orderbook"
	"github.com/rustyeddy/papersim/pricing"
	"github.com/rustyeddy/papersim/sim"
	"github.com/rustyeddy/papersim/strategies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSim(t *testing.T) *sim.State {
	t.Helper()

	cfg := sim.DefaultOptions()
	cfg.Cash = 10_000
	s := sim.New(cfg, pricing.NewRand(1), sim.WithLogger(logging.Discard()))
	require.NoError(t, s.RegisterInstrument(market.Instrument{ID: "X", BasePrice: 100, Volatility: 0.01}))
	require.NoError(t, s.RegisterInstrument(market.Instrument{ID: "Y", BasePrice: 50, Volatility: 0.02}))
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestInstrumentsAndPrices(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()

	insts := decode[[]market.Instrument](t, do(t, h, http.MethodGet, "/api/v1/instruments", nil))
	require.Len(t, insts, 2)
	assert.Equal(t, "X", insts[0].ID)

	rec := do(t, h, http.MethodGet, "/api/v1/instruments/X/price", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[priceResponse](t, rec)
	assert.InDelta(t, 100, p.Price, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/v1/instruments/nope/price", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown instrument")

	rec = do(t, h, http.MethodGet, "/api/v1/instruments/X/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]pricing.PricePoint](t, rec), 1)
}

func TestOrderBookEndpoint(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()

	rec := do(t, h, http.MethodGet, "/api/v1/instruments/X/orderbook?depth=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	book := decode[orderbook.Book](t, rec)
	assert.Len(t, book.Bids, 3)
	assert.Len(t, book.Asks, 3)

	rec = do(t, h, http.MethodGet, "/api/v1/instruments/X/orderbook?depth=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/instruments/nope/orderbook", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/instruments/X/orderbook?depth=1099511627776", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "depth too large")
}

func TestPlaceOrder(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"buy", OrderRequest{InstrumentID: "X", Side: "buy", Quantity: 10}, http.StatusCreated},
		{"sell", OrderRequest{InstrumentID: "X", Side: "SELL", Quantity: 4}, http.StatusCreated},
		{"oversell", OrderRequest{InstrumentID: "X", Side: "SELL", Quantity: 100}, http.StatusUnprocessableEntity},
		{"insufficient funds", OrderRequest{InstrumentID: "X", Side: "BUY", Quantity: 1000}, http.StatusUnprocessableEntity},
		{"zero quantity", OrderRequest{InstrumentID: "X", Side: "BUY", Quantity: 0}, http.StatusBadRequest},
		{"unknown instrument", OrderRequest{InstrumentID: "Z", Side: "BUY", Quantity: 1}, http.StatusNotFound},
		{"bad side", OrderRequest{InstrumentID: "X", Side: "SHORT", Quantity: 1}, http.StatusBadRequest},
		{"bad body", "{not json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/orders", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	snap := decode[ledger.Snapshot](t, do(t, h, http.MethodGet, "/api/v1/portfolio", nil))
	assert.InDelta(t, 10_000-600, snap.Cash, 1e-6)
	require.Len(t, snap.Positions, 1)
	assert.InDelta(t, 6, snap.Positions[0].Quantity, 1e-9)

	txs := decode[[]ledger.Transaction](t, do(t, h, http.MethodGet, "/api/v1/transactions?limit=1", nil))
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.SideSell, txs[0].Type)

	rec := do(t, h, http.MethodGet, "/api/v1/transactions?limit=-2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBotsEndpoints(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/bots", strategies.BotConfig{
		Name: "mo", Instrument: "X", Strategy: "momentum", OrderSize: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, strategies.Inactive, decodeState(t, rec))

	rec = do(t, h, http.MethodPost, "/api/v1/bots", strategies.BotConfig{
		Name: "mo", Instrument: "X", Strategy: "momentum", OrderSize: 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/bots", strategies.BotConfig{
		Name: "bad", Instrument: "X", Strategy: "astrology", OrderSize: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/bots/mo", map[string]bool{"active": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, strategies.Active, decodeState(t, rec))

	rec = do(t, h, http.MethodPatch, "/api/v1/bots/ghost", map[string]bool{"active": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/bots", nil)
	assert.Contains(t, rec.Body.String(), `"name":"mo"`)
	assert.Contains(t, rec.Body.String(), `"state":"ACTIVE"`)
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) strategies.State {
	t.Helper()
	var v struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	if v.State == "ACTIVE" {
		return strategies.Active
	}
	return strategies.Inactive
}

func TestTickEndpoint(t *testing.T) {
	s := newTestSim(t)
	h := NewServer(s).Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/tick", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rep struct {
		Tick          int64              `json:"tick"`
		UpdatedPrices map[string]float64 `json:"updated_prices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, int64(1), rep.Tick)
	assert.Len(t, rep.UpdatedPrices, 2)
	assert.Equal(t, int64(1), s.TickCount())

	rec = do(t, h, http.MethodGet, "/api/v1/news?limit=5", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/networth", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClockEndpoints(t *testing.T) {
	s := newTestSim(t)
	clock := sim.NewClock(s, time.Millisecond)
	h := NewServer(s, WithClock(clock)).Routes()
	t.Cleanup(clock.Stop)

	status := decode[clockResponse](t, do(t, h, http.MethodGet, "/api/v1/clock", nil))
	assert.False(t, status.Running)
	assert.Equal(t, "1ms", status.Interval)

	rec := do(t, h, http.MethodPost, "/api/v1/clock/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[clockResponse](t, rec).Running)

	rec = do(t, h, http.MethodPost, "/api/v1/clock/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Eventually(t, func() bool { return s.TickCount() > 0 }, time.Second, time.Millisecond)

	rec = do(t, h, http.MethodPost, "/api/v1/clock/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[clockResponse](t, rec).Running)
}

func TestClockRoutesAbsentWithoutClock(t *testing.T) {
	h := NewServer(newTestSim(t)).Routes()
	rec := do(t, h, http.MethodGet, "/api/v1/clock", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebSocketStreamsTicks(t *testing.T) {
	s := newTestSim(t)
	hub := NewHub(logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(NewServer(s, WithHub(hub)).Routes())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/v1/tick", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "tick", msg.Type)
	assert.Contains(t, string(msg.Data), `"tick":1`)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, time.Millisecond)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{sim.ErrUnknownInstrument, http.StatusNotFound},
		{market.ErrUnknownInstrument, http.StatusNotFound},
		{sim.ErrUnknownBot, http.StatusNotFound},
		{ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{ledger.ErrInsufficientPosition, http.StatusUnprocessableEntity},
		{ledger.ErrInvalidQuantity, http.StatusBadRequest},
		{sim.ErrClockRunning, http.StatusConflict},
		{market.ErrRegistryFrozen, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
