package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rustyeddy/papersim/ledger"
	"github.com/rustyeddy/papersim/strategies"
)

// OrderRequest is the JSON body for POST /orders.
type OrderRequest struct {
	InstrumentID string  `json:"instrument_id"`
	Side         string  `json:"side"` // "BUY" or "SELL"
	Quantity     float64 `json:"quantity"`
}

type botActiveRequest struct {
	Active bool `json:"active"`
}

type priceResponse struct {
	InstrumentID string  `json:"instrument_id"`
	Price        float64 `json:"price"`
	Tick         int64   `json:"tick"`
}

type clockResponse struct {
	Running  bool   `json:"running"`
	Interval string `json:"interval"`
	Tick     int64  `json:"tick"`
}

func (s *Server) listInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Instruments())
}

func (s *Server) listCorrelations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Correlations())
}

func (s *Server) getPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.state.GetPrice(id)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{InstrumentID: id, Price: p, Tick: s.state.TickCount()})
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.state.GetHistory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) getOrderBook(w http.ResponseWriter, r *http.Request) {
	depth, err := intQuery(r, "depth", 0)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	book, err := s.state.GetOrderBook(chi.URLParam(r, "id"), depth)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var (
		tx  ledger.Transaction
		err error
	)
	switch ledger.Side(strings.ToUpper(req.Side)) {
	case ledger.SideBuy:
		tx, err = s.state.Buy(req.InstrumentID, req.Quantity)
	case ledger.SideSell:
		tx, err = s.state.Sell(req.InstrumentID, req.Quantity)
	default:
		writeError(w, "side must be BUY or SELL", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}

	if s.hub != nil {
		s.hub.Broadcast("transaction", tx)
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) getPortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.GetPortfolioSnapshot())
}

func (s *Server) getTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 50)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.state.GetTransactionLog(limit))
}

func (s *Server) getNetWorth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.NetWorthSeries())
}

func (s *Server) getNews(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 20)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.state.GetNews(limit))
}

func (s *Server) listBots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Bots())
}

func (s *Server) addBot(w http.ResponseWriter, r *http.Request) {
	var cfg strategies.BotConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st, err := s.state.AddBot(cfg)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeError(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) setBotActive(w http.ResponseWriter, r *http.Request) {
	var req botActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st, err := s.state.SetBotActive(chi.URLParam(r, "name"), req.Active)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// tick advances the simulation by one step on demand.
func (s *Server) tick(w http.ResponseWriter, r *http.Request) {
	rep := s.state.Tick()
	if s.hub != nil {
		s.hub.Broadcast("tick", rep)
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) clockStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, clockResponse{
		Running:  s.clock.Running(),
		Interval: s.clock.Interval().String(),
		Tick:     s.state.TickCount(),
	})
}

func (s *Server) clockStart(w http.ResponseWriter, r *http.Request) {
	// The clock must outlive this request.
	if err := s.clock.Start(context.WithoutCancel(r.Context())); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	s.clockStatus(w, r)
}

func (s *Server) clockStop(w http.ResponseWriter, r *http.Request) {
	s.clock.Stop()
	s.clockStatus(w, r)
}
