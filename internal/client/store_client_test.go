package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

func TestListOrders(t *testing.T) {
	orders := []models.Order{
		{ID: "1", OrderID: "ORD-1", ItemName: "Bolt", Quantity: "10"},
		{ID: "2", OrderID: "ORD-2", ItemName: "Nut", Quantity: "3"},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		json.NewEncoder(w).Encode(orders)
	}))
	defer srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})

	got, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, orders, got)
}

func TestUpdateOrderSendsFullRecord(t *testing.T) {
	var received models.Order

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/orders/1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(received)
	}))
	defer srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})
	order := models.Order{ID: "1", OrderID: "ORD-1", Quantity: "20", TotalPrice: "25.00", Status: "pending"}

	updated, err := c.UpdateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, order, received)
	assert.Equal(t, order, updated)
}

func TestDeleteOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})
	require.NoError(t, c.DeleteOrder(context.Background(), "9"))
}

func TestStoreRejectionsMapToStoreErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "order not found"})
		default:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "quantity must be a non-negative integer"})
		}
	}))
	defer srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})

	err := c.DeleteOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Contains(t, err.Error(), "order not found")

	_, err = c.UpdateOrder(context.Background(), models.Order{ID: "1"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestUnreachableStoreIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})

	_, err := c.ListOrders(context.Background())
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestBreakerOpensAfterRepeatedTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})

	for i := 0; i < 5; i++ {
		_, err := c.ListOrders(context.Background())
		assert.ErrorIs(t, err, errors.ErrTransport)
	}

	// Threshold reached: the next call fails fast without a dial.
	_, err := c.ListOrders(context.Background())
	assert.ErrorIs(t, err, errors.ErrServiceUnavailable)
}

func TestStoreRejectionDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "order not found"})
	}))
	defer srv.Close()

	c := NewOrderStoreClient(srv.URL, logger.NopLogger{})

	for i := 0; i < 10; i++ {
		err := c.DeleteOrder(context.Background(), "missing")
		assert.ErrorIs(t, err, errors.ErrNotFound)
	}
}
