package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/log"
	"smartspend/internal/store"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.Transactions(r.Context())
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to list transactions", log.FieldError, err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}
	tx.Name = sanitizeInput(tx.Name)
	tx.Note = sanitizeInput(tx.Note)

	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.service.CreateTransaction(r.Context(), tx); err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to create transaction",
			log.FieldError, err,
			log.FieldTransactionID, tx.ID,
			log.FieldOperation, log.OpCreate)
		respondError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	s.invalidateStats()

	reqLog(r).InfoContext(r.Context(), "Transaction created",
		log.FieldTransactionID, tx.ID,
		log.FieldAmount, tx.Amount,
		log.FieldCategoryID, tx.CategoryID)

	respondJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/transactions/")
	if id == "" {
		respondError(w, http.StatusNotFound, "missing transaction id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTransaction(w, r, id)
	case http.MethodPut:
		s.updateTransaction(w, r, id)
	case http.MethodDelete:
		s.deleteTransaction(w, r, id)
	default:
		w.Header().Set("Allow", "GET, PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request, id string) {
	tx, err := s.store.Transaction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to get transaction",
			log.FieldError, err, log.FieldTransactionID, id)
		respondError(w, http.StatusInternalServerError, "failed to get transaction")
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx.ID = id
	tx.Name = sanitizeInput(tx.Name)
	tx.Note = sanitizeInput(tx.Note)
	if tx.Timestamp == 0 {
		tx.Timestamp = time.Now().UnixMilli()
	}

	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err := s.service.UpdateTransaction(r.Context(), tx)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to update transaction",
			log.FieldError, err,
			log.FieldTransactionID, id,
			log.FieldOperation, log.OpUpdate)
		respondError(w, http.StatusInternalServerError, "failed to update transaction")
		return
	}

	s.invalidateStats()

	reqLog(r).InfoContext(r.Context(), "Transaction updated", log.FieldTransactionID, id)
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	err := s.service.DeleteTransaction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		reqLog(r).ErrorContext(r.Context(), "Failed to delete transaction",
			log.FieldError, err,
			log.FieldTransactionID, id,
			log.FieldOperation, log.OpDelete)
		respondError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}

	s.invalidateStats()

	reqLog(r).InfoContext(r.Context(), "Transaction deleted", log.FieldTransactionID, id)
	respondJSON(w, http.StatusNoContent, nil)
}
