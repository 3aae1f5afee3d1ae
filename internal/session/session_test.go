package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

type fakeUpdater struct {
	updates []models.Order
	err     error
}

func (f *fakeUpdater) UpdateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if f.err != nil {
		return models.Order{}, f.err
	}
	f.updates = append(f.updates, order)
	return order, nil
}

type fakeRefresher struct {
	loads int
	err   error
}

func (f *fakeRefresher) Load(ctx context.Context) error {
	f.loads++
	return f.err
}

func testOrder() models.Order {
	return models.Order{
		ID:              "1",
		OrderID:         "ORD-1",
		ItemName:        "Bolt",
		Quantity:        "10",
		SupplierName:    "Acme",
		UnitPrice:       "1.00",
		DeliveryCharges: "5.00",
		TotalPrice:      "15.00",
		Status:          "pending",
	}
}

func newSession(updater *fakeUpdater, refresher *fakeRefresher) *EditSession {
	return NewEditSession(updater, refresher, logger.NopLogger{})
}

func TestEditSessionStartsClosed(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})

	assert.Equal(t, StateClosed, s.State())

	_, ok := s.Draft()
	assert.False(t, ok)
}

func TestBeginEditClonesOrder(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	order := testOrder()

	s.BeginEdit(order)

	assert.Equal(t, StateEditing, s.State())

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, order, draft)

	// The draft is a value copy: mutating it never touches the source.
	require.NoError(t, s.SetField(FieldItemName, "Nut"))
	assert.Equal(t, "Bolt", order.ItemName)
}

func TestBeginEditReplacesOpenDraft(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})

	s.BeginEdit(testOrder())
	require.NoError(t, s.SetField(FieldItemName, "Nut"))

	other := testOrder()
	other.ID = "2"
	other.OrderID = "ORD-2"
	s.BeginEdit(other)

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, "2", draft.ID)
	assert.Equal(t, "Bolt", draft.ItemName)
}

func TestSetFieldRequiresOpenSession(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})

	err := s.SetField(FieldItemName, "Nut")
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestSetFieldRecomputesTotal(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	s.BeginEdit(testOrder())

	require.NoError(t, s.SetField(FieldQuantity, "20"))

	draft, _ := s.Draft()
	assert.Equal(t, "25.00", draft.TotalPrice)

	require.NoError(t, s.SetField(FieldUnitPrice, "2.50"))

	draft, _ = s.Draft()
	assert.Equal(t, "55.00", draft.TotalPrice)
}

func TestSetFieldClearsTotalOnUnparseableInput(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	s.BeginEdit(testOrder())

	require.NoError(t, s.SetField(FieldQuantity, "abc"))

	draft, _ := s.Draft()
	assert.Equal(t, "", draft.TotalPrice)

	// Fixing the input brings the total back.
	require.NoError(t, s.SetField(FieldQuantity, "4"))

	draft, _ = s.Draft()
	assert.Equal(t, "9.00", draft.TotalPrice)
}

func TestSetFieldNonTriggerFieldsKeepTotal(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	s.BeginEdit(testOrder())

	require.NoError(t, s.SetField(FieldItemName, "Washer"))
	require.NoError(t, s.SetField(FieldSupplierName, "Globex"))
	require.NoError(t, s.SetField(FieldStatus, "approved"))

	draft, _ := s.Draft()
	assert.Equal(t, "15.00", draft.TotalPrice)
}

func TestSetFieldRejectsTotalPrice(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	s.BeginEdit(testOrder())

	err := s.SetField(FieldTotalPrice, "99.99")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	draft, _ := s.Draft()
	assert.Equal(t, "15.00", draft.TotalPrice)
}

func TestSetFieldRejectsUnknownField(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})
	s.BeginEdit(testOrder())

	err := s.SetField("color", "red")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCancelDiscardsDraftWithoutIO(t *testing.T) {
	updater := &fakeUpdater{}
	refresher := &fakeRefresher{}
	s := newSession(updater, refresher)

	s.BeginEdit(testOrder())
	require.NoError(t, s.SetField(FieldQuantity, "99"))
	require.NoError(t, s.Cancel())

	assert.Equal(t, StateClosed, s.State())
	assert.Empty(t, updater.updates)
	assert.Zero(t, refresher.loads)

	err := s.Cancel()
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestCommitSubmitsDraftAndRefreshes(t *testing.T) {
	updater := &fakeUpdater{}
	refresher := &fakeRefresher{}
	s := newSession(updater, refresher)

	s.BeginEdit(testOrder())
	require.NoError(t, s.SetField(FieldQuantity, "20"))
	require.NoError(t, s.Commit(context.Background()))

	assert.Equal(t, StateClosed, s.State())
	require.Len(t, updater.updates, 1)
	assert.Equal(t, "20", updater.updates[0].Quantity)
	assert.Equal(t, "25.00", updater.updates[0].TotalPrice)
	assert.Equal(t, 1, refresher.loads)
}

func TestCommitFailurePreservesDraft(t *testing.T) {
	updater := &fakeUpdater{err: errors.NewStoreError("order not found", 404)}
	refresher := &fakeRefresher{}
	s := newSession(updater, refresher)

	s.BeginEdit(testOrder())
	require.NoError(t, s.SetField(FieldQuantity, "20"))
	require.NoError(t, s.SetField(FieldSupplierName, "Globex"))

	err := s.Commit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StateEditing, s.State())

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, "20", draft.Quantity)
	assert.Equal(t, "Globex", draft.SupplierName)
	assert.Equal(t, "25.00", draft.TotalPrice)
	assert.Zero(t, refresher.loads)

	// Retry after the store recovers.
	updater.err = nil
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, StateClosed, s.State())
}

func TestCommitRequiresOpenSession(t *testing.T) {
	s := newSession(&fakeUpdater{}, &fakeRefresher{})

	err := s.Commit(context.Background())
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestCommitSucceedsWhenRefreshFails(t *testing.T) {
	updater := &fakeUpdater{}
	refresher := &fakeRefresher{err: errors.NewTransportError("store down")}
	s := newSession(updater, refresher)

	s.BeginEdit(testOrder())

	// The commit itself succeeded; the stale view is a refresh problem.
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, StateClosed, s.State())
	assert.Len(t, updater.updates, 1)
}
