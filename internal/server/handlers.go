package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"keyfix/internal/corrector"
	"keyfix/internal/customdict"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Layout: s.Engine().Layout().Name(),
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) fixHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	res := s.Engine().Fix(text)
	fixesTotal.WithLabelValues(string(res.State)).Inc()
	s.writeJSON(w, http.StatusOK, FixResponse{RequestID: requestID(r.Context()), FixResult: res})
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	a := s.Engine().Analyze(text)
	for _, sg := range a.Suggestions {
		suggestionsTotal.WithLabelValues(sg.Operation.String()).Inc()
	}
	s.writeJSON(w, http.StatusOK, AnalyzeResponse{RequestID: requestID(r.Context()), Analysis: a})
}

func (s *Server) cleanHandler(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, CleanResponse{
		RequestID: requestID(r.Context()),
		Original:  text,
		Text:      s.Engine().Clean(text),
	})
}

func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		s.writeErrorResponse(w, "texts are required", http.StatusBadRequest)
		return
	}
	if len(req.Texts) > s.maxBatchItems {
		s.writeErrorResponse(w, fmt.Sprintf("batch too large (maximum %d items)", s.maxBatchItems), http.StatusBadRequest)
		return
	}
	op := corrector.OpLayoutFix
	if req.Operation != "" {
		parsed, err := corrector.ParseOperation(req.Operation)
		if err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		op = parsed
	}
	workers := req.Workers
	if workers <= 0 || (s.batchWorkers > 0 && workers > s.batchWorkers) {
		workers = s.batchWorkers
	}

	results, err := s.Engine().ProcessBatch(r.Context(), req.Texts, op, workers)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	batchSize.Observe(float64(len(req.Texts)))
	batchItemsTotal.WithLabelValues(op.String(), "ok").Add(float64(len(results) - failed))
	batchItemsTotal.WithLabelValues(op.String(), "error").Add(float64(failed))

	s.writeJSON(w, http.StatusOK, BatchResponse{
		RequestID: requestID(r.Context()),
		Operation: op,
		Count:     len(results),
		Failed:    failed,
		Results:   results,
	})
}

// customWordHandler lists (GET) or adds (POST) custom words.
func (s *Server) customWordHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeErrorResponse(w, "custom dictionary is disabled", http.StatusServiceUnavailable)
		return
	}
	switch r.Method {
	case http.MethodGet:
		words, err := s.store.All(r.Context())
		if err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, WordsResponse{Words: words, Count: len(words)})
	case http.MethodPost:
		var req WordRequest
		if !s.decode(w, r, &req) {
			return
		}
		word, err := customdict.Normalize(req.Word)
		if err != nil {
			s.writeErrorResponse(w, "word is required", http.StatusBadRequest)
			return
		}
		if err := s.store.Add(r.Context(), word); err != nil {
			customWordsTotal.WithLabelValues("add", "error").Inc()
			s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		customWordsTotal.WithLabelValues("add", "ok").Inc()
		if err := s.Reload(r.Context()); err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusCreated, WordResponse{Status: "ok", Word: word})
	default:
		s.writeErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) deleteWordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeErrorResponse(w, "custom dictionary is disabled", http.StatusServiceUnavailable)
		return
	}
	word, err := customdict.Normalize(strings.TrimPrefix(r.URL.Path, "/api/v1/custom-word/"))
	if err != nil {
		s.writeErrorResponse(w, "word is required", http.StatusBadRequest)
		return
	}
	if err := s.store.Remove(r.Context(), word); err != nil {
		customWordsTotal.WithLabelValues("remove", "error").Inc()
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	customWordsTotal.WithLabelValues("remove", "ok").Inc()
	if err := s.Reload(r.Context()); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, WordResponse{Status: "ok", Word: word})
}

// readText decodes a TextRequest from a POST body. Blank text is rejected.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req TextRequest
	if !s.decode(w, r, &req) {
		return "", false
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeErrorResponse(w, "text is required", http.StatusBadRequest)
		return "", false
	}
	return req.Text, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeErrorResponse(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		s.writeErrorResponse(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}
