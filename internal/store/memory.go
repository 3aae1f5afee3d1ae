package store

import (
	"context"
	"sync"

	"github.com/vaidashi/order-admin/internal/models"
)

// MemoryOrderRepository is an in-memory OrderRepository used for local
// development and tests. Listing preserves insertion order.
type MemoryOrderRepository struct {
	mu    sync.RWMutex
	items map[string]models.Order
	ids   []string
}

// NewMemoryOrderRepository creates an empty in-memory repository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		items: make(map[string]models.Order),
	}
}

// GetAll returns all orders in insertion order.
func (r *MemoryOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.items[id])
	}
	return out, nil
}

// GetByID returns the order or ErrNotFound.
func (r *MemoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

// Create stores a new order.
func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; !exists {
		r.ids = append(r.ids, order.ID)
	}
	// Stored by value so callers cannot mutate the repository's copy.
	r.items[order.ID] = *order
	return nil
}

// Update overwrites an existing order or returns ErrNotFound.
func (r *MemoryOrderRepository) Update(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return ErrNotFound
	}
	r.items[order.ID] = *order
	return nil
}

// Delete removes an order or returns ErrNotFound.
func (r *MemoryOrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}

	delete(r.items, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return nil
}

var _ OrderRepository = (*MemoryOrderRepository)(nil)
