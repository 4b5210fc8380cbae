package hashlife

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Server exposes a Universe's external interface over HTTP/JSON, guarding
// every handler with a single mutex since a Universe itself is not
// concurrency-safe. One Server owns exactly one Universe.
type Server struct {
	universe *Universe
	config   *Config
	logger   *log.Logger
	metrics  *Metrics
	httpSrv  *http.Server
	limiter  *rate.Limiter

	mu        sync.Mutex
	lastStats CacheStats
	shutdown  chan os.Signal
	wg        sync.WaitGroup
}

// NewServer constructs a Server around universe. A nil config uses
// DefaultConfig.
func NewServer(universe *Universe, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		universe: universe,
		config:   config,
		logger:   log.New(os.Stdout, "[hashlife] ", log.LstdFlags),
		shutdown: make(chan os.Signal, 1),
	}
	if config.EnableMetrics {
		s.metrics = NewMetrics()
	}
	if config.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimitRPS), config.RateLimitBurst)
	}
	return s
}

// apiResponse is the envelope every JSON handler writes.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Start blocks serving HTTP until it receives SIGINT/SIGTERM, then drains
// in-flight requests and returns.
func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()
	s.setupRoutes(router)

	s.httpSrv = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Printf("listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Printf("server error: %v", err)
		}
	}()

	select {
	case <-s.shutdown:
	case <-ctx.Done():
	}
	return s.gracefulShutdown()
}

func (s *Server) gracefulShutdown() error {
	s.logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return err
	}
	s.wg.Wait()
	s.logger.Println("stopped")
	return nil
}

func (s *Server) setupRoutes(router *mux.Router) {
	router.Use(s.recoveryMiddleware)
	if s.limiter != nil {
		router.Use(s.rateLimitMiddleware)
	}
	if s.metrics != nil {
		router.Use(s.metricsMiddleware)
	}
	if s.config.LogRequests {
		router.Use(s.loggingMiddleware)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/cells", s.handleSetCells).Methods("POST")
	api.HandleFunc("/cells", s.handleGetCells).Methods("GET")
	api.HandleFunc("/step", s.handleStep).Methods("POST")
	api.HandleFunc("/render", s.handleRender).Methods("GET")
	api.HandleFunc("/clear", s.handleClear).Methods("POST")

	if s.metrics != nil {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Printf("panic: %v", err)
				s.sendError(w, fmt.Sprintf("internal error: %v", err), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.sendError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.mu.Lock()
		s.lastStats = s.metrics.Observe(s.universe, s.lastStats)
		s.mu.Unlock()
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func (s *Server) sendError(w http.ResponseWriter, msg string, status int) {
	if s.metrics != nil {
		s.metrics.ErrorsTotal.Inc()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendJSON(w, map[string]interface{}{
		"population":  s.universe.Population(),
		"generation":  s.universe.Generation(),
		"root_level":  s.universe.RootLevel(),
		"cache_stats": s.universe.CacheStats(),
	})
}

type setCellsRequest struct {
	Cells [][2]Dim `json:"cells"`
}

func (s *Server) handleSetCells(w http.ResponseWriter, r *http.Request) {
	var req setCellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.universe.SetCells(req.Cells); err != nil {
		s.sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.sendJSON(w, map[string]interface{}{"population": s.universe.Population()})
}

func (s *Server) handleGetCells(w http.ResponseWriter, r *http.Request) {
	x0, y0, x1, y1, err := parseRect(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	cells := s.universe.GetCells(x0, y0, x1, y1)
	s.mu.Unlock()

	s.sendJSON(w, map[string]interface{}{"cells": cells})
}

type stepRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < req.Count; i++ {
		start := time.Now()
		if err := s.universe.Step(); err != nil {
			s.sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if s.metrics != nil {
			s.metrics.ObserveStep(time.Since(start))
		}
	}

	s.sendJSON(w, map[string]interface{}{
		"generation": s.universe.Generation(),
		"population": s.universe.Population(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	x0, y0, x1, y1, err := parseRect(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	minSize := Dim(1)
	if v := r.URL.Query().Get("min_size"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.sendError(w, "invalid min_size", http.StatusBadRequest)
			return
		}
		minSize = Dim(parsed)
	}

	s.mu.Lock()
	regions := s.universe.GetRenderRegions(x0, y0, x1, y1, minSize)
	s.mu.Unlock()

	s.sendJSON(w, map[string]interface{}{"regions": regions})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.universe.Clear()
	s.mu.Unlock()

	s.sendJSON(w, map[string]string{"status": "cleared"})
}

func parseRect(r *http.Request) (x0, y0, x1, y1 Dim, err error) {
	q := r.URL.Query()
	for _, pair := range []struct {
		name string
		dst  *Dim
	}{
		{"x0", &x0}, {"y0", &y0}, {"x1", &x1}, {"y1", &y1},
	} {
		v := q.Get(pair.name)
		if v == "" {
			return 0, 0, 0, 0, fmt.Errorf("missing query parameter %q", pair.name)
		}
		parsed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return 0, 0, 0, 0, fmt.Errorf("invalid query parameter %q: %w", pair.name, perr)
		}
		*pair.dst = Dim(parsed)
	}
	return x0, y0, x1, y1, nil
}
