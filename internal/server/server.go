package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jkaplan/jobtrail/internal/config"
	"github.com/jkaplan/jobtrail/internal/db"
	"github.com/jkaplan/jobtrail/internal/draft"
	"github.com/jkaplan/jobtrail/internal/ledger"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	ledger     *ledger.Ledger
	cfg        config.Config
	validator  *validator.Validate

	// sessions holds live import sessions keyed by ID. Snapshots are
	// written through to the database when one is configured.
	mu       sync.Mutex
	sessions map[uuid.UUID]*draft.Session
}

// New creates a new server instance backed by the configured database
func New(cfg config.Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	led, err := ledger.New(ctx, db.NewClaimStore(database), ledger.Config{
		AutoApproveConfidence: cfg.AutoApproveConfidence,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open claim ledger: %w", err)
	}

	s := &Server{
		db:        database,
		ledger:    led,
		cfg:       cfg,
		validator: validator.New(),
		sessions:  make(map[uuid.UUID]*draft.Session),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Resume import endpoints
	mux.HandleFunc("POST /import/parse", s.handleParse)
	mux.HandleFunc("POST /import/parse/best", s.handleParseBest)

	// Import session endpoints
	mux.HandleFunc("GET /import/sessions", s.handleListSessions)
	mux.HandleFunc("GET /import/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /import/sessions/{id}/save", s.handleSaveSession)
	mux.HandleFunc("POST /import/sessions/{id}/skip", s.handleSkipSession)

	// Draft edit endpoints
	mux.HandleFunc("POST /import/sessions/{id}/companies", s.handleAddCompany)
	mux.HandleFunc("DELETE /import/sessions/{id}/companies/{company_id}", s.handleDeleteCompany)
	mux.HandleFunc("POST /import/sessions/{id}/companies/{company_id}/roles", s.handleAddRole)
	mux.HandleFunc("DELETE /import/sessions/{id}/roles/{role_id}", s.handleDeleteRole)
	mux.HandleFunc("POST /import/sessions/{id}/items", s.handleAddItem)
	mux.HandleFunc("DELETE /import/sessions/{id}/items/{item_id}", s.handleDeleteItem)
	mux.HandleFunc("POST /import/sessions/{id}/items/{item_id}/move", s.handleMoveItem)
	mux.HandleFunc("PUT /import/sessions/{id}/items/{item_id}/status", s.handleSetItemStatus)

	// Claim ledger endpoints
	mux.HandleFunc("POST /claims", s.handleCreateClaim)
	mux.HandleFunc("GET /claims", s.handleListClaims)
	mux.HandleFunc("GET /claims/{id}", s.handleGetClaim)
	mux.HandleFunc("PUT /claims/{id}", s.handleUpdateClaim)
	mux.HandleFunc("DELETE /claims/{id}", s.handleDeleteClaim)
	mux.HandleFunc("GET /claims/{id}/dependents", s.handleClaimDependents)
	mux.HandleFunc("POST /claims/merge", s.handleMergeClaims)
	mux.HandleFunc("POST /claims/approve", s.handleApproveClaims)

	// Opportunity tracking endpoints
	mux.HandleFunc("POST /opportunities", s.handleCreateOpportunity)
	mux.HandleFunc("GET /opportunities", s.handleListOpportunities)
	mux.HandleFunc("GET /opportunities/{id}", s.handleGetOpportunity)
	mux.HandleFunc("PUT /opportunities/{id}/status", s.handleUpdateOpportunityStatus)
	mux.HandleFunc("DELETE /opportunities/{id}", s.handleDeleteOpportunity)

	// Debug report endpoint
	mux.HandleFunc("GET /debug/report", s.handleDebugReport)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
