package order

import (
	"errors"
	"time"
)

var (
	ErrForbidden          = errors.New("action not allowed for this actor")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidAdjustment  = errors.New("adjustment must be plus or minus 1, 3 or 5 minutes")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrFeedbackNotAllowed = errors.New("feedback is only allowed once, after the order is received")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
)

// Phase names the order stage whose remaining-minutes estimate is being
// adjusted.
type Phase string

const (
	PhasePrepare Phase = "prepare"
	PhasePickup  Phase = "pickup"
	PhaseDeliver Phase = "deliver"
)

// Default remaining-minutes estimates set at placement; the responsible role
// refines them with ± adjustments as the order progresses.
const (
	defaultPrepareMinutes = 15
	defaultPickupMinutes  = 10
	defaultDeliverMinutes = 20
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Place creates an order from a snapshot of cart items for one store.
func (s *Service) Place(userID, storeID int, name string, isTakeout bool, addressID *int, items []Item, fee float64) (Order, error) {
	if userID <= 0 || storeID <= 0 {
		return Order{}, ErrForbidden
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	total := fee
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}

	now := s.now().UTC().Format(time.RFC3339)
	o := Order{
		Name:           name,
		UserID:         userID,
		StoreID:        storeID,
		Items:          items,
		Status:         StatusPlaced,
		IsTakeout:      isTakeout,
		AddressID:      addressID,
		Fee:            fee,
		Total:          total,
		PrepareMinutes: defaultPrepareMinutes,
		PickupMinutes:  defaultPickupMinutes,
		DeliverMinutes: defaultDeliverMinutes,
		PlacedAt:       now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return s.repo.Create(o)
}

func (s *Service) GetByID(id int) (Order, error) {
	if id <= 0 {
		return Order{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

// ListForRole returns the orders an actor sees on their order screen:
// customers see their purchases, stores their incoming orders, drivers their
// assigned deliveries.
func (s *Service) ListForRole(role Role, actorID int) ([]Order, error) {
	switch role {
	case RoleCustomer:
		return s.repo.ListByUser(actorID)
	case RoleStore:
		return s.repo.ListByStore(actorID)
	case RoleDriver:
		return s.repo.ListByDriver(actorID)
	}
	return []Order{}, nil
}

// Available lists prepared takeout orders no driver has claimed yet.
func (s *Service) Available() ([]Order, error) {
	return s.repo.ListUnassignedTakeout(StatusPrepared)
}

// Apply performs one workflow action on behalf of an actor. The transition
// is validated against the workflow table before anything is written; the
// same table the client consults, so client and server never disagree about
// what is legal.
func (s *Service) Apply(orderID int, role Role, actorID int, action Action) (Order, error) {
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	var target Status

	switch {
	case role == RoleStore && action == ActionAccept:
		target = StatusAccepted
	case role == RoleStore && action == ActionReject:
		target = StatusRejected
	case role == RoleStore && action == ActionPrepare:
		target = StatusPrepared
	case role == RoleDriver && action == ActionAccept:
		target = StatusAcceptedByDriver
	case role == RoleDriver && action == ActionPickup:
		target = StatusPickedUp
	case role == RoleDriver && action == ActionDeliver:
		target = StatusDelivered
	case role == RoleCustomer && action == ActionReceive:
		target = StatusReceived
	case action == ActionCancel:
		st, ok := CancelStatus(role)
		if !ok {
			return Order{}, ErrForbidden
		}
		if !CanCancel(o, role) {
			return Order{}, ErrInvalidTransition
		}
		target = st
	default:
		return Order{}, ErrInvalidTransition
	}

	if !ValidateTransition(o.Status, target, role) {
		return Order{}, ErrInvalidTransition
	}
	if err := s.checkActor(o, role, actorID, action); err != nil {
		return Order{}, err
	}

	o.Status = target
	switch target {
	case StatusAccepted:
		o.AcceptedAt = now
	case StatusPrepared:
		o.PreparedAt = now
		o.PrepareProgress = 100
	case StatusAcceptedByDriver:
		o.DriverID = &actorID
	case StatusPickedUp:
		o.PickedUpAt = now
		o.PickupProgress = 100
	case StatusDelivered:
		o.DeliveredAt = now
		o.DeliverProgress = 100
	case StatusReceived:
		o.ReceivedAt = now
	}
	o.UpdatedAt = now

	return s.repo.Update(o)
}

// checkActor verifies the acting account is actually the order's store,
// customer, or driver. The driver accept action is the one case where an
// unassigned driver may act, claiming the order.
func (s *Service) checkActor(o Order, role Role, actorID int, action Action) error {
	switch role {
	case RoleStore:
		if o.StoreID != actorID {
			return ErrForbidden
		}
	case RoleCustomer:
		if o.UserID != actorID {
			return ErrForbidden
		}
	case RoleDriver:
		if action == ActionAccept {
			if o.DriverID != nil || !o.IsTakeout {
				return ErrForbidden
			}
			return nil
		}
		if o.DriverID == nil || *o.DriverID != actorID {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}

// AdjustTime moves a phase's remaining-minutes estimate by a permitted ±
// step. Which phase a role may adjust, and when, mirrors ResolveActions.
func (s *Service) AdjustTime(orderID int, role Role, actorID int, phase Phase, minutes int) (Order, error) {
	if !ValidAdjustment(minutes) {
		return Order{}, ErrInvalidAdjustment
	}
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}

	allowed := false
	switch phase {
	case PhasePrepare:
		allowed = role == RoleStore && o.StoreID == actorID && o.Status == StatusAccepted
	case PhasePickup:
		allowed = role == RoleDriver && o.DriverID != nil && *o.DriverID == actorID &&
			(o.Status == StatusAccepted || o.Status == StatusAcceptedByDriver)
	case PhaseDeliver:
		allowed = role == RoleDriver && o.DriverID != nil && *o.DriverID == actorID &&
			o.Status == StatusPickedUp
	}
	if !allowed {
		return Order{}, ErrForbidden
	}

	switch phase {
	case PhasePrepare:
		o.PrepareMinutes = clampMinutes(o.PrepareMinutes + minutes)
	case PhasePickup:
		o.PickupMinutes = clampMinutes(o.PickupMinutes + minutes)
	case PhaseDeliver:
		o.DeliverMinutes = clampMinutes(o.DeliverMinutes + minutes)
	}
	o.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	return s.repo.Update(o)
}

// AddFeedback records the customer's one-shot rating on a received order.
func (s *Service) AddFeedback(orderID, userID int, fb Feedback) (Order, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return Order{}, ErrInvalidRating
	}
	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, ErrForbidden
	}
	if o.Status != StatusReceived || o.Feedback != nil {
		return Order{}, ErrFeedbackNotAllowed
	}

	now := s.now().UTC().Format(time.RFC3339)
	fb.CreatedAt = now
	o.Feedback = &fb
	o.UpdatedAt = now

	return s.repo.Update(o)
}

// Stats aggregates an actor's orders by status; order screens show these
// counters and refresh them after every action.
func (s *Service) Stats(role Role, actorID int) (map[Status]int, error) {
	orders, err := s.ListForRole(role, actorID)
	if err != nil {
		return nil, err
	}
	stats := make(map[Status]int)
	for _, o := range orders {
		stats[o.Status]++
	}
	return stats, nil
}

func clampMinutes(m int) int {
	if m < 0 {
		return 0
	}
	return m
}
