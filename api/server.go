// Package api provides the HTTP REST API server for TrinoPricer.
//
// It exposes endpoints for priced option chains, raw chain records,
// calendar inspection, and a WebSocket stream of pricing batches.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/trinopricer/internal/calendar"
	"github.com/seenimoa/trinopricer/internal/config"
	"github.com/seenimoa/trinopricer/internal/datasource"
	"github.com/seenimoa/trinopricer/internal/engine"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	cal      *calendar.Calendar
	provider datasource.ChainProvider
	engine   *engine.Engine
	wsHub    *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
// The chain provider is injected so tests and offline runs can substitute
// a static one.
func NewServer(cfg *config.Config, provider datasource.ChainProvider) *Server {
	cal := cfg.BuildCalendar()
	eng := engine.New(engine.Config{
		Calendar:    cal,
		Rate:        cfg.Market.RiskFreeRate,
		Yield:       cfg.Market.DividendYield,
		Concurrency: cfg.Engine.Concurrency,
	})

	srv := &Server{
		cfg:      cfg,
		cal:      cal,
		provider: provider,
		engine:   eng,
		wsHub:    NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Priced option chain (the main endpoint)
		r.Get("/price/{symbol}", s.handlePriceChain)

		// Raw chain records as fetched from the provider
		r.Get("/chain/{symbol}", s.handleChain)

		// Trading calendar inspection
		r.Get("/calendar/{year}", s.handleCalendarYear)
		r.Get("/expiry/{date}", s.handleExpiry)

		// WebSocket stream of pricing batches
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	years := s.cal.Years()
	sort.Ints(years)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":         "ok",
			"provider":       s.provider.Name(),
			"market_status":  utils.MarketStatus(),
			"calendar_years": years,
			"time_ist":       utils.FormatDateTimeIST(utils.NowIST()),
		},
	})
}

// handlePriceChain fetches the chain for a symbol and runs the full
// pricing pass over it. Provider failures surface as errors before any
// pricing happens; pricing itself is fail-soft per contract.
func (s *Server) handlePriceChain(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	symbol = utils.NormalizeSymbol(symbol)

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	records, err := s.provider.FetchChain(ctx, symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("fetch option chain: %v", err))
		return
	}

	chain, err := s.engine.PriceChain(ctx, symbol, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{Type: "priced_chain", Data: chain})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    chain,
	})
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	records, err := s.provider.FetchChain(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("fetch option chain: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    records,
	})
}

func (s *Server) handleCalendarYear(w http.ResponseWriter, r *http.Request) {
	var year int
	if _, err := fmt.Sscanf(chi.URLParam(r, "year"), "%d", &year); err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	yc, ok := s.cal.Year(year)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no calendar configured for %d", year))
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"year":               year,
			"total_trading_days": yc.TotalTradingDays,
			"holidays":           yc.Holidays,
		},
	})
}

// handleExpiry reports the time-to-expiry breakdown for a DD-Mon-YYYY
// date. Degenerate results (unparsable date, unconfigured year) come
// back as the zero tuple, mirroring the pricing behavior.
func (s *Server) handleExpiry(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	tte := s.cal.TimeToExpiry(date, utils.NowIST())

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"expiry":       date,
			"t":            tte.T,
			"fraction":     tte.Fraction,
			"trading_days": tte.TradingDays,
			"raw_days":     s.cal.RawDaysToExpiry(date, utils.NowIST()),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
