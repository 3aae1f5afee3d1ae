package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

type fakeStore struct {
	orders    []models.Order
	listErr   error
	deleteErr error
	deleted   []string
	listCalls int
}

func (f *fakeStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	for i, order := range f.orders {
		if order.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			break
		}
	}
	return nil
}

func sampleOrders() []models.Order {
	return []models.Order{
		{ID: "1", OrderID: "ORD-100", ItemName: "Bolt"},
		{ID: "2", OrderID: "ORD-101", ItemName: "Nut"},
		{ID: "3", OrderID: "PO-7", ItemName: "Washer"},
	}
}

func TestLoadReplacesSnapshotAndResetsFilter(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})

	require.NoError(t, c.Load(context.Background()))
	c.SetSearchTerm("ord")
	assert.Len(t, c.Orders(), 2)

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, "", c.SearchTerm())
	assert.Len(t, c.Orders(), 3)
}

func TestLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})

	require.NoError(t, c.Load(context.Background()))
	c.SetSearchTerm("ord-10")

	store.listErr = errors.NewTransportError("store unreachable")

	err := c.Load(context.Background())
	require.Error(t, err)

	// Snapshot, filter and term all survive the failed load.
	assert.Len(t, c.All(), 3)
	assert.Len(t, c.Orders(), 2)
	assert.Equal(t, "ord-10", c.SearchTerm())
}

func TestSetSearchTermFiltersCaseInsensitively(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	c.SetSearchTerm("ord-1")

	filtered := c.Orders()
	require.Len(t, filtered, 2)
	assert.Equal(t, "ORD-100", filtered[0].OrderID)
	assert.Equal(t, "ORD-101", filtered[1].OrderID)
}

func TestSetSearchTermIsIdempotent(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	c.SetSearchTerm("po")
	once := c.Orders()

	c.SetSearchTerm("po")
	twice := c.Orders()

	assert.Equal(t, once, twice)
}

func TestEmptyTermShowsAll(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	c.SetSearchTerm("bolt") // matches nothing, filter is on OrderID only
	assert.Empty(t, c.Orders())

	c.SetSearchTerm("")
	assert.Equal(t, c.All(), c.Orders())
}

func TestRemoveDeletesThenReloads(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.Remove(context.Background(), "2"))

	assert.Equal(t, []string{"2"}, store.deleted)
	assert.Len(t, c.All(), 2)

	_, found := c.Get("2")
	assert.False(t, found)
}

func TestRemoveFailureLeavesViewUntouched(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	listCallsBefore := store.listCalls
	store.deleteErr = errors.NewNotFoundError("order not found")

	err := c.Remove(context.Background(), "2")
	require.Error(t, err)

	// No optimistic removal and no resync attempt after the failure.
	assert.Len(t, c.All(), 3)
	assert.Equal(t, listCallsBefore, store.listCalls)
}

func TestGetFindsByStoreIdentity(t *testing.T) {
	store := &fakeStore{orders: sampleOrders()}
	c := NewCollection(store, logger.NopLogger{})
	require.NoError(t, c.Load(context.Background()))

	order, found := c.Get("3")
	require.True(t, found)
	assert.Equal(t, "PO-7", order.OrderID)

	_, found = c.Get("missing")
	assert.False(t, found)
}
