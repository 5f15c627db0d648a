package order

// Role is the actor kind driving a workflow decision. Values match the user
// package's role strings; keeping a local type keeps this file free of
// dependencies so it stays a pure table lookup.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStore    Role = "store"
	RoleDriver   Role = "driver"
)

// Action is something an actor may do to an order in its current state.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionPrepare  Action = "prepare"
	ActionPickup   Action = "pickup"
	ActionDeliver  Action = "deliver"
	ActionReceive  Action = "receive"
	ActionFeedback Action = "feedback"
	ActionCancel   Action = "cancel"

	ActionAdjustPrepareTime Action = "adjust-prepare-time"
	ActionAdjustPickupTime  Action = "adjust-pickup-time"
	ActionAdjustDeliverTime Action = "adjust-deliver-time"
)

// AdjustmentSteps are the permitted magnitudes for phase-time adjustments,
// applied as plus or minus.
var AdjustmentSteps = []int{1, 3, 5}

// ResolveActions returns the actions role may take on the order right now.
// It is pure: it never mutates the order and unknown statuses or roles yield
// an empty set. Cancellation is a separate predicate, see CanCancel.
func ResolveActions(o Order, role Role) []Action {
	actions := []Action{}

	switch role {
	case RoleStore:
		switch o.Status {
		case StatusPlaced:
			actions = append(actions, ActionAccept, ActionReject)
		case StatusAccepted:
			actions = append(actions, ActionPrepare, ActionAdjustPrepareTime)
		}

	case RoleDriver:
		assigned := o.DriverID != nil
		switch o.Status {
		case StatusPrepared:
			if !assigned && o.IsTakeout {
				actions = append(actions, ActionAccept)
			}
			if assigned {
				actions = append(actions, ActionPickup)
			}
		case StatusAcceptedByDriver:
			if assigned {
				actions = append(actions, ActionPickup, ActionAdjustPickupTime)
			}
		case StatusAccepted:
			if assigned {
				actions = append(actions, ActionAdjustPickupTime)
			}
		case StatusPickedUp:
			if assigned {
				actions = append(actions, ActionDeliver, ActionAdjustDeliverTime)
			}
		}

	case RoleCustomer:
		switch o.Status {
		case StatusPickedUp, StatusPrepared, StatusDelivered:
			actions = append(actions, ActionReceive)
		case StatusReceived:
			if o.Feedback == nil {
				actions = append(actions, ActionFeedback)
			}
		}
	}

	return actions
}

// CanCancel reports whether role may cancel the order: only before hand-off
// (placed, accepted, prepared) and only when the order actually involves an
// actor of that role.
func CanCancel(o Order, role Role) bool {
	switch o.Status {
	case StatusPlaced, StatusAccepted, StatusPrepared:
	default:
		return false
	}

	switch role {
	case RoleCustomer:
		return o.UserID > 0
	case RoleStore:
		return o.StoreID > 0
	case RoleDriver:
		return o.DriverID != nil
	}
	return false
}

// transitions is the fixed role -> current status -> allowed next statuses
// table. The remote caller is validated against it defensively; the service
// applying mutations consults the same table, so there is a single source of
// truth for the state machine.
var transitions = map[Role]map[Status][]Status{
	RoleStore: {
		StatusPlaced:   {StatusAccepted, StatusRejected, StatusCanceledByStore},
		StatusAccepted: {StatusPrepared, StatusCanceledByStore},
		StatusPrepared: {StatusCanceledByStore},
	},
	RoleDriver: {
		StatusPlaced:           {StatusCanceledByDriver},
		StatusAccepted:         {StatusCanceledByDriver},
		StatusPrepared:         {StatusAcceptedByDriver, StatusPickedUp, StatusCanceledByDriver},
		StatusAcceptedByDriver: {StatusPickedUp},
		StatusPickedUp:         {StatusDelivered},
	},
	RoleCustomer: {
		StatusPlaced:    {StatusCanceledByCustomer},
		StatusAccepted:  {StatusCanceledByCustomer},
		StatusPrepared:  {StatusReceived, StatusCanceledByCustomer},
		StatusPickedUp:  {StatusReceived},
		StatusDelivered: {StatusReceived},
	},
}

// ValidateTransition reports whether role may move an order from current to
// next. Unknown roles or statuses simply return false.
func ValidateTransition(current, next Status, role Role) bool {
	byStatus, ok := transitions[role]
	if !ok {
		return false
	}
	for _, allowed := range byStatus[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidAdjustment reports whether minutes is a permitted ± step.
func ValidAdjustment(minutes int) bool {
	for _, step := range AdjustmentSteps {
		if minutes == step || minutes == -step {
			return true
		}
	}
	return false
}

// CancelStatus maps a role to its terminal cancellation status.
func CancelStatus(role Role) (Status, bool) {
	switch role {
	case RoleCustomer:
		return StatusCanceledByCustomer, true
	case RoleStore:
		return StatusCanceledByStore, true
	case RoleDriver:
		return StatusCanceledByDriver, true
	}
	return "", false
}
