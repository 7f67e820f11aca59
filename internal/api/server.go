package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/insurelab/claimlens/internal/docs"
	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/qa"
	"github.com/insurelab/claimlens/internal/store"
)

// ClaimProcessor is the claim pipeline surface the API exposes
type ClaimProcessor interface {
	Process(ctx context.Context, claim model.ClaimInput, email, phone string) model.ClaimDecisionRecord
	Reprocess(ctx context.Context, claimID, email, phone string) (model.ClaimDecisionRecord, error)
}

// Server is the HTTP API over the claim pipeline, document ingestion, and
// policy Q&A
type Server struct {
	processor ClaimProcessor
	claims    store.ClaimRepository
	documents store.DocumentRepository
	ingestor  *docs.Processor
	qa        *qa.Service

	httpServer *http.Server
}

// NewServer wires the API routes
func NewServer(addr string, processor ClaimProcessor, claims store.ClaimRepository,
	documents store.DocumentRepository, ingestor *docs.Processor, qaService *qa.Service) *Server {

	s := &Server{
		processor: processor,
		claims:    claims,
		documents: documents,
		ingestor:  ingestor,
		qa:        qaService,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/claims", func(r chi.Router) {
		r.Post("/process", s.handleProcessClaim)
		r.Get("/", s.handleListClaims)
		r.Get("/stats/summary", s.handleClaimStats)
		r.Route("/{claimID}", func(r chi.Router) {
			r.Get("/", s.handleGetClaim)
			r.Post("/reprocess", s.handleReprocessClaim)
			r.Patch("/status", s.handleUpdateClaimStatus)
		})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleUploadDocument)
		r.Get("/", s.handleListDocuments)
		r.Delete("/{documentID}", s.handleDeleteDocument)
	})

	r.Route("/queries", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/search", s.handleSearch)
	})

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// ListenAndServe starts serving until the listener fails or Shutdown is called
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
