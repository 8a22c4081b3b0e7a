package http

import (
	"net/http"

	"smartspend/internal/core"
	"smartspend/internal/log"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.store.Settings(r.Context())
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to load settings", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to load settings")
			return
		}
		respondJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		var settings core.AppSettings
		if err := decodeJSON(r, &settings); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := settings.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.store.SaveSettings(r.Context(), settings); err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to save settings", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
		reqLog(r).InfoContext(r.Context(), "Settings updated",
			"language", settings.Language,
			"currency", settings.Currency)
		respondJSON(w, http.StatusOK, settings)

	default:
		w.Header().Set("Allow", "GET, PUT")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
