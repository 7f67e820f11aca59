package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/insurelab/claimlens/internal/model"
	"github.com/insurelab/claimlens/internal/stats"
	"github.com/insurelab/claimlens/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /claims/process?notification_email=...&notification_phone=...
func (s *Server) handleProcessClaim(w http.ResponseWriter, r *http.Request) {
	var claim model.ClaimInput
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim payload: "+err.Error())
		return
	}
	if err := claim.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	email := r.URL.Query().Get("notification_email")
	phone := r.URL.Query().Get("notification_phone")

	record := s.processor.Process(r.Context(), claim, email, phone)
	writeJSON(w, http.StatusOK, record)
}

// GET /claims?decision=APPROVED&limit=20&offset=0
func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	filter := store.ClaimFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
	}
	if d := r.URL.Query().Get("decision"); d != "" {
		decision := model.Decision(d)
		if !decision.Valid() {
			writeError(w, http.StatusBadRequest, "unknown decision filter: "+d)
			return
		}
		filter.Decision = decision
	}

	records, err := s.claims.ListClaims(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []model.ClaimDecisionRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": records, "count": len(records)})
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "claimID")

	record, err := s.claims.GetClaim(r.Context(), claimID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// POST /claims/{claimID}/reprocess runs the pipeline again on the stored
// input and returns the new record under a fresh claim ID
func (s *Server) handleReprocessClaim(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "claimID")
	email := r.URL.Query().Get("notification_email")
	phone := r.URL.Query().Get("notification_phone")

	record, err := s.processor.Reprocess(r.Context(), claimID, email, phone)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (s *Server) handleUpdateClaimStatus(w http.ResponseWriter, r *http.Request) {
	claimID := chi.URLParam(r, "claimID")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid status payload: "+err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusUnprocessableEntity, "status must not be empty")
		return
	}

	err := s.claims.UpdateClaimStatus(r.Context(), claimID, req.Status, req.Notes)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"claim_id": claimID, "status": req.Status})
}

func (s *Server) handleClaimStats(w http.ResponseWriter, r *http.Request) {
	summary, err := stats.Summarize(r.Context(), s.claims)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type uploadDocumentRequest struct {
	Filename   string `json:"filename"`
	PolicyType string `json:"policy_type"`
	Text       string `json:"text"`
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req uploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document payload: "+err.Error())
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusUnprocessableEntity, "filename must not be empty")
		return
	}

	doc, err := s.ingestor.Ingest(r.Context(), req.Filename, req.PolicyType, req.Text)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.ListDocuments(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	err := s.ingestor.Delete(r.Context(), documentID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type askRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload: "+err.Error())
		return
	}

	answer, err := s.qa.Ask(r.Context(), req.Question, req.DocumentID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type searchRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid search payload: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusUnprocessableEntity, "query must not be empty")
		return
	}

	passages, err := s.qa.Search(r.Context(), req.Query, req.DocumentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if passages == nil {
		passages = []model.Passage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": passages, "count": len(passages)})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
