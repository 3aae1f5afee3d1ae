package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/circuitbreaker"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

// OrderStoreClient talks to the remote order store over HTTP.
//
// Failures map onto two families: transport errors (store unreachable,
// timeout) and store errors (the store answered with a rejection). The
// client never retries on its own; retry is a user action. A circuit
// breaker fails calls fast once the store has been unreachable repeatedly.
type OrderStoreClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	breaker    *circuitbreaker.CircuitBreaker
}

// errorBody is the error envelope the store uses for rejections.
type errorBody struct {
	Error string `json:"error"`
}

// NewOrderStoreClient creates a client for the store at baseURL.
func NewOrderStoreClient(baseURL string, logger logger.Logger) *OrderStoreClient {
	return &OrderStoreClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 5,
			ResetTimeout:     10 * time.Second,
			HalfOpenMaxCalls: 1,
		}),
	}
}

// ListOrders fetches the full order set.
func (c *OrderStoreClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order

	err := c.do(ctx, http.MethodGet, c.baseURL+"/orders", nil, &orders)

	if err != nil {
		c.logger.Error("Failed to list orders", "error", err)
		return nil, err
	}

	return orders, nil
}

// UpdateOrder submits a full order record as an update-by-id request.
func (c *OrderStoreClient) UpdateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	var updated models.Order

	url := fmt.Sprintf("%s/orders/%s", c.baseURL, order.ID)
	err := c.do(ctx, http.MethodPut, url, order, &updated)

	if err != nil {
		c.logger.Error("Failed to update order", "error", err, "orderID", order.ID)
		return models.Order{}, err
	}

	return updated, nil
}

// DeleteOrder removes the order with the given identity.
func (c *OrderStoreClient) DeleteOrder(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, id)
	err := c.do(ctx, http.MethodDelete, url, nil, nil)

	if err != nil {
		c.logger.Error("Failed to delete order", "error", err, "orderID", id)
		return err
	}

	return nil
}

// do runs one request through the circuit breaker and maps the outcome
// onto the transport/store error taxonomy. out may be nil when the
// response body is not needed.
func (c *OrderStoreClient) do(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	if !c.breaker.Allow() {
		return errors.NewServiceUnavailableError("order store circuit open")
	}

	err := c.roundTrip(ctx, method, url, body, out)

	if errors.IsTransport(err) {
		c.breaker.Failure()
	} else {
		// A store rejection means the store is reachable.
		c.breaker.Success()
	}

	return err
}

func (c *OrderStoreClient) roundTrip(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reqBody io.Reader

	if body != nil {
		payload, err := json.Marshal(body)

		if err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to marshal request: %v", err))
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)

	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to create request: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return errors.NewTimeoutError("order store request timed out")
		}
		return errors.NewTransportError(fmt.Sprintf("failed to reach order store: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)

	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode >= 400 {
		return c.mapStoreError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.NewInternalError(fmt.Sprintf("failed to parse response: %v", err))
		}
	}

	return nil
}

func (c *OrderStoreClient) mapStoreError(statusCode int, body []byte) error {
	message := fmt.Sprintf("order store returned %d", statusCode)

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		message = eb.Error
	}

	switch statusCode {
	case http.StatusNotFound:
		return errors.NewNotFoundError(message)
	case http.StatusBadRequest:
		return errors.NewInvalidInputError(message)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return errors.NewServiceUnavailableError(message)
	case http.StatusGatewayTimeout:
		return errors.NewTimeoutError(message)
	default:
		return errors.NewStoreError(message, statusCode)
	}
}
