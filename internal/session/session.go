package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/vaidashi/order-admin/internal/models"
	"github.com/vaidashi/order-admin/pkg/errors"
	"github.com/vaidashi/order-admin/pkg/logger"
)

// State represents the edit session state.
type State int

const (
	StateClosed  State = iota // no draft held
	StateEditing              // a draft is held and mutable
)

// OrderUpdater submits a draft to the remote store.
type OrderUpdater interface {
	UpdateOrder(ctx context.Context, order models.Order) (models.Order, error)
}

// Refresher is signalled after a successful commit. In the admin this is
// the collection cache.
type Refresher interface {
	Load(ctx context.Context) error
}

// Editable field names, matching the wire format.
const (
	FieldItemName        = "itemName"
	FieldQuantity        = "quantity"
	FieldSupplierName    = "supplierName"
	FieldUnitPrice       = "unitPrice"
	FieldDeliveryCharges = "deliveryCharges"
	FieldStatus          = "status"
	FieldTotalPrice      = "totalPrice"
)

// EditSession holds at most one in-flight draft of an order being edited.
// It owns the draft exclusively: the draft is a value copy of the order,
// so the collection snapshot never observes in-progress edits.
type EditSession struct {
	mu        sync.Mutex
	state     State
	draft     models.Order
	updater   OrderUpdater
	refresher Refresher
	logger    logger.Logger
	// committing guards against re-entrant commits while one is outstanding.
	committing bool
}

// NewEditSession creates a closed session.
func NewEditSession(updater OrderUpdater, refresher Refresher, logger logger.Logger) *EditSession {
	return &EditSession{
		state:     StateClosed,
		updater:   updater,
		refresher: refresher,
		logger:    logger,
	}
}

// State returns the current session state.
func (s *EditSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft, if one is held.
func (s *EditSession) Draft() (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return models.Order{}, false
	}
	return s.draft, true
}

// BeginEdit clones the order into a fresh draft and opens the session.
// Opening over an already-open session replaces the draft; unsaved
// changes are discarded with a warning.
func (s *EditSession) BeginEdit(order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEditing {
		s.logger.Warn("Replacing open draft, unsaved changes discarded",
			"previousOrderID", s.draft.ID,
			"orderID", order.ID)
	}

	s.draft = order
	s.state = StateEditing
}

// SetField sets the named field on the draft to the value as entered.
// Changing unitPrice, quantity or deliveryCharges recomputes the derived
// total from the post-update values. totalPrice itself is read-only.
func (s *EditSession) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return errors.NewConflictError("no order is being edited")
	}

	switch name {
	case FieldItemName:
		s.draft.ItemName = value
	case FieldSupplierName:
		s.draft.SupplierName = value
	case FieldStatus:
		s.draft.Status = value
	case FieldQuantity:
		s.draft.Quantity = value
	case FieldUnitPrice:
		s.draft.UnitPrice = value
	case FieldDeliveryCharges:
		s.draft.DeliveryCharges = value
	case FieldTotalPrice:
		return errors.NewInvalidInputError("totalPrice is derived and cannot be set")
	default:
		return errors.NewInvalidInputError(fmt.Sprintf("unknown field %q", name))
	}

	if name == FieldQuantity || name == FieldUnitPrice || name == FieldDeliveryCharges {
		total, ok := ComputeTotalPrice(s.draft.UnitPrice, s.draft.Quantity, s.draft.DeliveryCharges)

		if ok {
			s.draft.TotalPrice = total
		} else {
			// A stale total is worse than no total.
			s.draft.TotalPrice = ""
		}
	}

	return nil
}

// Cancel discards the draft and closes the session. No I/O.
func (s *EditSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return errors.NewConflictError("no order is being edited")
	}

	s.draft = models.Order{}
	s.state = StateClosed
	return nil
}

// Commit submits the draft to the store. On success the session closes
// and the refresher is signalled; a failed refresh is logged but does
// not undo the commit. On failure the draft and the Editing state are
// kept so the input is not lost.
func (s *EditSession) Commit(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateEditing {
		s.mu.Unlock()
		return errors.NewConflictError("no order is being edited")
	}

	if s.committing {
		s.mu.Unlock()
		return errors.NewConflictError("a commit is already in progress")
	}

	s.committing = true
	draft := s.draft
	s.mu.Unlock()

	_, err := s.updater.UpdateOrder(ctx, draft)

	s.mu.Lock()
	s.committing = false

	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.draft = models.Order{}
	s.state = StateClosed
	s.mu.Unlock()

	s.logger.Info("Draft committed", "orderID", draft.ID)

	if err := s.refresher.Load(ctx); err != nil {
		// The commit already succeeded; the next refresh will catch up.
		s.logger.Warn("Refresh after commit failed", "error", err)
	}

	return nil
}
