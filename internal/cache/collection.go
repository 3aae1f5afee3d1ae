package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

// Store is the slice of the remote order store the collection needs.
type Store interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Collection holds the last-fetched order snapshot and a filtered view
// derived from a search term. The filtered view is always recomputed from
// (snapshot, term), never mutated on its own.
type Collection struct {
	mu         sync.RWMutex
	store      Store
	logger     logger.Logger
	orders     []models.Order
	filtered   []models.Order
	searchTerm string
	loading    int32
}

// NewCollection creates an empty collection backed by the given store.
func NewCollection(store Store, logger logger.Logger) *Collection {
	return &Collection{
		store:  store,
		logger: logger,
	}
}

// Load fetches the full order set and replaces the snapshot. The search
// term resets to show all. On failure the previous snapshot is kept
// unchanged. A second Load while one is outstanding is rejected.
func (c *Collection) Load(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&c.loading, 0, 1) {
		return errors.NewConflictError("a load is already in progress")
	}
	defer atomic.StoreInt32(&c.loading, 0)

	orders, err := c.store.ListOrders(ctx)

	if err != nil {
		c.logger.Warn("Order load failed, keeping previous snapshot", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders = orders
	c.searchTerm = ""
	c.filtered = filterByOrderID(c.orders, "")

	c.logger.Info("Order snapshot replaced", "count", len(orders))
	return nil
}

// SetSearchTerm recomputes the filtered view. Pure and synchronous.
func (c *Collection) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchTerm = term
	c.filtered = filterByOrderID(c.orders, term)
}

// Remove asks the store to delete the order, then reloads to resync.
// The snapshot is never mutated before the store confirms.
func (c *Collection) Remove(ctx context.Context, id string) error {
	if err := c.store.DeleteOrder(ctx, id); err != nil {
		return err
	}

	return c.Load(ctx)
}

// Orders returns a copy of the filtered view.
func (c *Collection) Orders() []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Order, len(c.filtered))
	copy(out, c.filtered)
	return out
}

// All returns a copy of the full snapshot, ignoring the search term.
func (c *Collection) All() []models.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// Get looks up an order in the full snapshot by store identity.
func (c *Collection) Get(id string) (models.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, order := range c.orders {
		if order.ID == id {
			return order, true
		}
	}
	return models.Order{}, false
}

// SearchTerm returns the current search term.
func (c *Collection) SearchTerm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchTerm
}

// filterByOrderID returns the orders whose human-facing OrderID contains
// term as a case-insensitive substring. An empty term matches everything.
func filterByOrderID(orders []models.Order, term string) []models.Order {
	out := make([]models.Order, 0, len(orders))

	needle := strings.ToLower(term)
	for _, order := range orders {
		if needle == "" || strings.Contains(strings.ToLower(order.OrderID), needle) {
			out = append(out, order)
		}
	}

	return out
}
