package server

import (
	"errors"
	"net/http"
	"strings"

	"garage/internal/inventory"
)

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req := collectRequest{Quantity: 1}
	if !s.decode(w, r, &req) {
		return
	}

	record, err := s.svc.AddOne(req.ToyNumber, req.Quantity)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "added": fromRecord(record)})
}

func (s *Server) handleCollectBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req bulkRequest
	if !s.decode(w, r, &req) {
		return
	}

	results, err := s.svc.AddBulk(req.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fromBulkResults(results))
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, total, err := s.svc.List(r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CollectionResponse{Models: fromRecords(rows), Total: total})
}

// handleCollectionJSON dumps the full ledger as a bare array, without the
// {models, total} envelope handleCollection wraps around filtered listings.
func (s *Server) handleCollectionJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, _, err := s.svc.List("")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fromRecords(rows))
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows, err := s.svc.Missing()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ModelsResponse{Models: fromRecords(rows)})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	groups, err := s.svc.Progress()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ProgressResponse{Groups: groups})
}

func (s *Server) handleToyInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	toyNumber := strings.TrimPrefix(r.URL.Path, "/api/toys/")
	if toyNumber == "" || strings.Contains(toyNumber, "/") {
		s.writeError(w, http.StatusNotFound, "toy not found")
		return
	}

	record, err := s.svc.LookupInfo(toyNumber)
	if err != nil {
		if errors.Is(err, inventory.ErrUnknownToy) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "info": fromRecord(record)})
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req adjustRequest
	if !s.decode(w, r, &req) {
		return
	}

	newQuantity, err := s.svc.Adjust(req.ToyNumber, req.Delta)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AdjustResponse{ToyNumber: req.ToyNumber, NewQuantity: newQuantity})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req deleteRequest
	if !s.decode(w, r, &req) {
		return
	}

	removed, err := s.svc.Delete(req.ToyNumber)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "model not in collection")
		return
	}
	s.writeJSON(w, http.StatusOK, DeleteResponse{Removed: true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := s.svc.Export()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="collection.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req reloadRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.svc.ForceReload(req.Store); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := s.svc.Status()
	s.writeJSON(w, http.StatusOK, CacheResponse{Master: status.Master, Collection: status.Collection})
}
