package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vaidashi/order-admin/pkg/errors"
)

// ApiResponse is the admin API response envelope.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Health represents the health check response.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// setFieldRequest is the body of PUT /edit/field.
type setFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := Health{
		Status:    "ok",
		Version:   "0.1.0",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    health,
	})
}

// getOrdersHandler returns the filtered view. A search query parameter
// sets the search term first; without one the current view is returned
// as is.
func (s *Server) getOrdersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Has("search") {
		s.collection.SetSearchTerm(query.Get("search"))
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    s.collection.Orders(),
	})
}

// refreshOrdersHandler reloads the snapshot from the store.
func (s *Server) refreshOrdersHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.collection.Load(r.Context()); err != nil {
		s.respondWithError(w, errors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    s.collection.Orders(),
	})
}

// deleteOrderHandler deletes an order at the store and resyncs.
func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.collection.Remove(r.Context(), id); err != nil {
		s.respondWithError(w, errors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    s.collection.Orders(),
	})
}

// beginEditHandler opens an edit session for a cached order.
func (s *Server) beginEditHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, ok := s.collection.Get(id)

	if !ok {
		s.respondWithError(w, http.StatusNotFound, "order not found in current view")
		return
	}

	s.editSession.BeginEdit(order)
	draft, _ := s.editSession.Draft()

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    draft,
	})
}

// getDraftHandler returns the current draft.
func (s *Server) getDraftHandler(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.editSession.Draft()

	if !ok {
		s.respondWithError(w, http.StatusNotFound, "no order is being edited")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    draft,
	})
}

// setFieldHandler applies one field edit to the draft and returns the
// draft with the derived total recomputed.
func (s *Server) setFieldHandler(w http.ResponseWriter, r *http.Request) {
	var req setFieldRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := s.editSession.SetField(req.Name, req.Value); err != nil {
		s.respondWithError(w, errors.StatusCode(err), err.Error())
		return
	}

	draft, _ := s.editSession.Draft()

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    draft,
	})
}

// commitHandler submits the draft to the store. On failure the session
// keeps the draft so the user can retry without re-entering anything.
func (s *Server) commitHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.editSession.Commit(r.Context()); err != nil {
		s.respondWithError(w, errors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    s.collection.Orders(),
	})
}

// cancelHandler discards the draft. No store call is made.
func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.editSession.Cancel(); err != nil {
		s.respondWithError(w, errors.StatusCode(err), err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true})
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, ApiResponse{
		Success: false,
		Error:   message,
	})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)

	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
