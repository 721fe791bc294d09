// Package api exposes a running simulation over JSON/HTTP, with a
// WebSocket stream of tick reports.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/market"
	"github.com/rustyeddy/papersim/metrics"
	"github.com/rustyeddy/papersim/orderbook"
	"github.com/rustyeddy/papersim/sim"
)

type Server struct {
	state *sim.State
	clock *sim.Clock
	hub   *Hub
	log   *slog.Logger
}

type Option func(*Server)

// WithClock enables the /clock endpoints.
func WithClock(c *sim.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithHub enables the /ws stream. The caller runs the hub.
func WithHub(h *Hub) Option {
	return func(s *Server) { s.hub = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func NewServer(state *sim.State, opts ...Option) *Server {
	s := &Server{state: state, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tick": s.state.TickCount()})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.hub != nil {
			r.Get("/ws", s.hub.ServeWS)
		}

		r.Get("/instruments", s.listInstruments)
		r.Get("/instruments/{id}/price", s.getPrice)
		r.Get("/instruments/{id}/history", s.getHistory)
		r.Get("/instruments/{id}/orderbook", s.getOrderBook)
		r.Get("/correlations", s.listCorrelations)

		r.Post("/orders", s.placeOrder)
		r.Get("/portfolio", s.getPortfolio)
		r.Get("/transactions", s.getTransactions)
		r.Get("/networth", s.getNetWorth)
		r.Get("/news", s.getNews)

		r.Get("/bots", s.listBots)
		r.Post("/bots", s.addBot)
		r.Patch("/bots/{name}", s.setBotActive)

		r.Post("/tick", s.tick)
		if s.clock != nil {
			r.Get("/clock", s.clockStatus)
			r.Post("/clock/start", s.clockStart)
			r.Post("/clock/stop", s.clockStop)
		}
	})
	return r
}

// NewHTTPServer wraps Routes in an http.Server with the timeouts used in
// production.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps simulation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sim.ErrUnknownInstrument),
		errors.Is(err, sim.ErrUnknownBot):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientPosition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, orderbook.ErrDepthTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, sim.ErrDuplicateBot),
		errors.Is(err, sim.ErrClockRunning),
		errors.Is(err, market.ErrRegistryFrozen):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// intQuery reads a non-negative integer query parameter.
func intQuery(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
