package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"smartspend/internal/core"
	"smartspend/internal/log"
	"smartspend/internal/store"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cats, err := s.store.Categories(r.Context())
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to list categories", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to list categories")
			return
		}
		respondJSON(w, http.StatusOK, cats)

	case http.MethodPost:
		var c core.Category
		if err := decodeJSON(r, &c); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.Name = sanitizeInput(c.Name)
		if err := c.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.store.AddCategory(r.Context(), c); err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to add category",
				log.FieldError, err, log.FieldCategoryID, c.ID)
			respondError(w, http.StatusInternalServerError, "failed to add category")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusCreated, c)

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/categories/")
	if id == "" {
		respondError(w, http.StatusNotFound, "missing category id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var c core.Category
		if err := decodeJSON(r, &c); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		c.ID = id
		c.Name = sanitizeInput(c.Name)
		if err := c.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		err := s.store.UpdateCategory(r.Context(), c)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to update category",
				log.FieldError, err, log.FieldCategoryID, id)
			respondError(w, http.StatusInternalServerError, "failed to update category")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		err := s.store.DeleteCategory(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to delete category",
				log.FieldError, err, log.FieldCategoryID, id)
			respondError(w, http.StatusInternalServerError, "failed to delete category")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusNoContent, nil)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		members, err := s.store.Members(r.Context())
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to list members", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to list members")
			return
		}
		respondJSON(w, http.StatusOK, members)

	case http.MethodPost:
		var m core.Member
		if err := decodeJSON(r, &m); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.Name = sanitizeInput(m.Name)
		if err := m.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := s.store.AddMember(r.Context(), m); err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to add member",
				log.FieldError, err, log.FieldMemberID, m.ID)
			respondError(w, http.StatusInternalServerError, "failed to add member")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusCreated, m)

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/members/")
	if id == "" {
		respondError(w, http.StatusNotFound, "missing member id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var m core.Member
		if err := decodeJSON(r, &m); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		m.ID = id
		m.Name = sanitizeInput(m.Name)
		if err := m.Validate(); err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		err := s.store.UpdateMember(r.Context(), m)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "member not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to update member",
				log.FieldError, err, log.FieldMemberID, id)
			respondError(w, http.StatusInternalServerError, "failed to update member")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusOK, m)

	case http.MethodDelete:
		err := s.store.DeleteMember(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "member not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to delete member",
				log.FieldError, err, log.FieldMemberID, id)
			respondError(w, http.StatusInternalServerError, "failed to delete member")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusNoContent, nil)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleReflectionTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := s.store.ReflectionTags(r.Context())
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to list reflection tags", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to list reflection tags")
			return
		}
		respondJSON(w, http.StatusOK, tags)

	case http.MethodPost:
		var tag core.ReflectionTag
		if err := decodeJSON(r, &tag); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if tag.ID == "" {
			tag.ID = uuid.NewString()
		}
		tag.Name = sanitizeInput(tag.Name)
		if tag.Name == "" {
			respondError(w, http.StatusUnprocessableEntity, "tag name is required")
			return
		}
		if err := s.store.AddReflectionTag(r.Context(), tag); err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to add reflection tag", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to add reflection tag")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusCreated, tag)

	default:
		w.Header().Set("Allow", "GET, POST")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleReflectionTagByID(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "/api/reflection-tags/")
	if id == "" {
		respondError(w, http.StatusNotFound, "missing tag id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var tag core.ReflectionTag
		if err := decodeJSON(r, &tag); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		tag.ID = id
		tag.Name = sanitizeInput(tag.Name)
		if tag.Name == "" {
			respondError(w, http.StatusUnprocessableEntity, "tag name is required")
			return
		}
		err := s.store.UpdateReflectionTag(r.Context(), tag)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "reflection tag not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to update reflection tag", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to update reflection tag")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusOK, tag)

	case http.MethodDelete:
		err := s.store.DeleteReflectionTag(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "reflection tag not found")
			return
		}
		if err != nil {
			reqLog(r).ErrorContext(r.Context(), "Failed to delete reflection tag", log.FieldError, err)
			respondError(w, http.StatusInternalServerError, "failed to delete reflection tag")
			return
		}
		s.invalidateStats()
		respondJSON(w, http.StatusNoContent, nil)

	default:
		w.Header().Set("Allow", "PUT, DELETE")
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
