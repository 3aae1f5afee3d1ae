package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/vaidashi/order-admin/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// listOrdersHandler returns the full order set as a bare array.
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := s.repo.GetAll(r.Context())

	if err != nil {
		s.logger.Error("Failed to list orders", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	s.respondWithJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	order, err := s.repo.GetByID(r.Context(), id)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("Failed to get order", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	s.respondWithJSON(w, http.StatusOK, order)
}

// createOrderHandler stores a new order. The store assigns the identity;
// any client-sent id is ignored.
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var order models.Order

	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	order.ID = models.GenerateID("ord")
	if order.Status == "" {
		order.Status = string(models.OrderStatusPending)
	}

	if msg, ok := validateOrder(&order); !ok {
		s.respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.repo.Create(r.Context(), &order); err != nil {
		s.logger.Error("Failed to create order", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	s.publisher.Publish(EventOrderCreated, order.ID, &order)
	s.respondWithJSON(w, http.StatusCreated, order)
}

// updateOrderHandler replaces the stored record matching the path id with
// the full order-shaped body.
func (s *Server) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var order models.Order

	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	// The path, not the body, names the record.
	order.ID = id

	if msg, ok := validateOrder(&order); !ok {
		s.respondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.repo.Update(r.Context(), &order); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("Failed to update order", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	s.publisher.Publish(EventOrderUpdated, id, &order)
	s.respondWithJSON(w, http.StatusOK, order)
}

func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		s.logger.Error("Failed to delete order", "error", err, "orderID", id)
		s.respondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	s.publisher.Publish(EventOrderDeleted, id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// validateOrder enforces the wire contract: a recognized status, a
// non-negative integer quantity and non-negative decimal prices. Empty
// numeric fields are allowed — the admin preserves raw form input, and a
// cleared derived total is a legal state.
func validateOrder(order *models.Order) (string, bool) {
	if !models.ValidStatus(order.Status) {
		return fmt.Sprintf("unrecognized status %q", order.Status), false
	}

	if order.Quantity != "" {
		qty, err := strconv.Atoi(order.Quantity)
		if err != nil || qty < 0 {
			return "quantity must be a non-negative integer", false
		}
	}

	decimals := map[string]string{
		"unitPrice":       order.UnitPrice,
		"deliveryCharges": order.DeliveryCharges,
		"totalPrice":      order.TotalPrice,
	}
	for name, raw := range decimals {
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < 0 {
			return fmt.Sprintf("%s must be a non-negative decimal", name), false
		}
	}

	return "", true
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, errorResponse{Error: message})
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
