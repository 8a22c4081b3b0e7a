package http

import (
	"fmt"
	"net/http"
	"time"

	"smartspend/internal/backup"
	"smartspend/internal/log"
)

func (s *Server) handleBackupExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := s.store.Snapshot(r.Context())
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to snapshot for export",
			log.FieldError, err, log.FieldOperation, log.OpExport)
		respondError(w, http.StatusInternalServerError, "failed to export backup")
		return
	}

	now := time.Now()
	payload, err := backup.ExportJSON(data, now)
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to encode backup",
			log.FieldError, err, log.FieldOperation, log.OpExport)
		respondError(w, http.StatusInternalServerError, "failed to export backup")
		return
	}

	filename := fmt.Sprintf("smartspend-backup-%s.json", now.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)

	reqLog(r).InfoContext(r.Context(), "Backup exported",
		"transactions", len(data.Transactions),
		log.FieldBackupVersion, backup.SchemaVersion)
}

func (s *Server) handleBackupExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := s.store.Snapshot(r.Context())
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to snapshot for CSV export",
			log.FieldError, err, log.FieldOperation, log.OpExport)
		respondError(w, http.StatusInternalServerError, "failed to export CSV")
		return
	}

	filename := fmt.Sprintf("smartspend-transactions-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(backup.ExportCSV(data))
}

type importResponse struct {
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
	Members      int `json:"members"`
}

func (s *Server) handleBackupImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw, err := readBody(r, maxImportBodySize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	data, err := backup.Import(raw, backup.ImportOptions{})
	if err != nil {
		reqLog(r).WarnContext(r.Context(), "Rejected malformed backup",
			log.FieldError, err, log.FieldOperation, log.OpImport)
		respondError(w, http.StatusBadRequest, "malformed backup document")
		return
	}

	if err := s.service.ReplaceAll(r.Context(), data); err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to apply imported backup",
			log.FieldError, err, log.FieldOperation, log.OpImport)
		respondError(w, http.StatusInternalServerError, "failed to apply backup")
		return
	}

	s.invalidateStats()

	reqLog(r).InfoContext(r.Context(), "Backup imported",
		"transactions", len(data.Transactions),
		"categories", len(data.Categories),
		"members", len(data.Members),
		log.FieldOperation, log.OpImport)

	respondJSON(w, http.StatusOK, importResponse{
		Transactions: len(data.Transactions),
		Categories:   len(data.Categories),
		Members:      len(data.Members),
	})
}
