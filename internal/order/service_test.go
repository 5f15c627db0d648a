package order

import (
	"errors"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
}

func newTestService(seed []Order) *Service {
	s := NewService(NewInMemoryRepository(seed))
	s.now = fixedClock()
	return s
}

func placeTestOrder(t *testing.T, s *Service, isTakeout bool) Order {
	t.Helper()
	items := []Item{
		{ProductID: 1, Name: "Boat noodles", Price: 60, Quantity: 2},
		{ProductID: 2, Name: "Dumplings", Price: 45, Quantity: 1},
	}
	o, err := s.Place(5, 3, "lunch", isTakeout, nil, items, 39)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	return o
}

func TestPlace_TotalsAndDefaults(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)

	if o.Status != StatusPlaced {
		t.Fatalf("new order status = %s, want placed", o.Status)
	}
	if want := 2*60.0 + 45.0 + 39.0; o.Total != want {
		t.Fatalf("total = %v, want %v", o.Total, want)
	}
	if o.PrepareMinutes != 15 || o.PickupMinutes != 10 || o.DeliverMinutes != 20 {
		t.Fatalf("default estimates wrong: %d/%d/%d", o.PrepareMinutes, o.PickupMinutes, o.DeliverMinutes)
	}
	if o.PlacedAt == "" || o.PlacedAt != o.CreatedAt {
		t.Fatalf("placedAt not stamped: %q", o.PlacedAt)
	}
}

func TestPlace_RejectsEmptyCart(t *testing.T) {
	s := newTestService(nil)
	if _, err := s.Place(5, 3, "", false, nil, nil, 0); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("empty order: got %v, want ErrEmptyOrder", err)
	}
}

func TestApply_HappyPathDelivery(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)

	o, err := s.Apply(o.ID, RoleStore, 3, ActionAccept)
	if err != nil || o.Status != StatusAccepted {
		t.Fatalf("accept: %v, status %s", err, o.Status)
	}
	o, err = s.Apply(o.ID, RoleStore, 3, ActionPrepare)
	if err != nil || o.Status != StatusPrepared {
		t.Fatalf("prepare: %v, status %s", err, o.Status)
	}
	if o.PrepareProgress != 100 {
		t.Fatalf("prepare progress = %d, want 100", o.PrepareProgress)
	}
	if o.PreparedAt == "" {
		t.Fatal("preparedAt not stamped")
	}
}

func TestApply_DriverClaimsTakeout(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, true)
	if _, err := s.Apply(o.ID, RoleStore, 3, ActionAccept); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := s.Apply(o.ID, RoleStore, 3, ActionPrepare); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	o, err := s.Apply(o.ID, RoleDriver, 9, ActionAccept)
	if err != nil {
		t.Fatalf("driver accept: %v", err)
	}
	if o.Status != StatusAcceptedByDriver {
		t.Fatalf("status = %s, want accepted-by-driver", o.Status)
	}
	if o.DriverID == nil || *o.DriverID != 9 {
		t.Fatalf("driver not assigned: %v", o.DriverID)
	}

	// a second driver cannot take a claimed order
	if _, err := s.Apply(o.ID, RoleDriver, 10, ActionAccept); !errors.Is(err, ErrForbidden) {
		t.Fatalf("second claim: got %v, want ErrForbidden", err)
	}

	o, err = s.Apply(o.ID, RoleDriver, 9, ActionPickup)
	if err != nil || o.Status != StatusPickedUp {
		t.Fatalf("pickup: %v, status %s", err, o.Status)
	}
	o, err = s.Apply(o.ID, RoleDriver, 9, ActionDeliver)
	if err != nil || o.Status != StatusDelivered {
		t.Fatalf("deliver: %v, status %s", err, o.Status)
	}
	o, err = s.Apply(o.ID, RoleCustomer, 5, ActionReceive)
	if err != nil || o.Status != StatusReceived {
		t.Fatalf("receive: %v, status %s", err, o.Status)
	}
}

func TestApply_DriverCannotClaimDeliveryOrder(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)
	s.Apply(o.ID, RoleStore, 3, ActionAccept)
	s.Apply(o.ID, RoleStore, 3, ActionPrepare)

	if _, err := s.Apply(o.ID, RoleDriver, 9, ActionAccept); !errors.Is(err, ErrForbidden) {
		t.Fatalf("claim non-takeout: got %v, want ErrForbidden", err)
	}
}

func TestApply_WrongActorForbidden(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)

	if _, err := s.Apply(o.ID, RoleStore, 99, ActionAccept); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other store: got %v, want ErrForbidden", err)
	}
	if _, err := s.Apply(o.ID, RoleCustomer, 5, ActionReceive); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("receive on placed: got %v, want ErrInvalidTransition", err)
	}
}

func TestApply_Cancel(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)

	canceled, err := s.Apply(o.ID, RoleCustomer, 5, ActionCancel)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != StatusCanceledByCustomer {
		t.Fatalf("status = %s, want canceled by customer", canceled.Status)
	}
	if !canceled.Status.Terminal() {
		t.Fatal("canceled order should be terminal")
	}

	// nothing moves a terminal order
	if _, err := s.Apply(o.ID, RoleStore, 3, ActionAccept); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("accept after cancel: got %v, want ErrInvalidTransition", err)
	}
}

func TestAdjustTime(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)
	if _, err := s.Apply(o.ID, RoleStore, 3, ActionAccept); err != nil {
		t.Fatalf("accept: %v", err)
	}

	o, err := s.AdjustTime(o.ID, RoleStore, 3, PhasePrepare, 5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if o.PrepareMinutes != 20 {
		t.Fatalf("prepareMinutes = %d, want 20", o.PrepareMinutes)
	}

	o, err = s.AdjustTime(o.ID, RoleStore, 3, PhasePrepare, -3)
	if err != nil || o.PrepareMinutes != 17 {
		t.Fatalf("adjust down: %v, minutes %d", err, o.PrepareMinutes)
	}

	if _, err := s.AdjustTime(o.ID, RoleStore, 3, PhasePrepare, 2); !errors.Is(err, ErrInvalidAdjustment) {
		t.Fatalf("step 2: got %v, want ErrInvalidAdjustment", err)
	}
	if _, err := s.AdjustTime(o.ID, RoleDriver, 9, PhasePickup, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unassigned driver adjust: got %v, want ErrForbidden", err)
	}
}

func TestAdjustTime_NeverBelowZero(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)
	s.Apply(o.ID, RoleStore, 3, ActionAccept)

	var err error
	for i := 0; i < 5; i++ {
		o, err = s.AdjustTime(o.ID, RoleStore, 3, PhasePrepare, -5)
		if err != nil {
			t.Fatalf("adjust %d: %v", i, err)
		}
	}
	if o.PrepareMinutes != 0 {
		t.Fatalf("prepareMinutes = %d, want clamp at 0", o.PrepareMinutes)
	}
}

func TestAddFeedback(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)
	s.Apply(o.ID, RoleStore, 3, ActionAccept)
	s.Apply(o.ID, RoleStore, 3, ActionPrepare)
	s.Apply(o.ID, RoleCustomer, 5, ActionReceive)

	if _, err := s.AddFeedback(o.ID, 5, Feedback{Rating: 6}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("rating 6: got %v, want ErrInvalidRating", err)
	}
	if _, err := s.AddFeedback(o.ID, 99, Feedback{Rating: 4}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other user: got %v, want ErrForbidden", err)
	}

	got, err := s.AddFeedback(o.ID, 5, Feedback{Rating: 4, Comment: "fast"})
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if got.Feedback == nil || got.Feedback.Rating != 4 {
		t.Fatalf("feedback not stored: %+v", got.Feedback)
	}

	if _, err := s.AddFeedback(o.ID, 5, Feedback{Rating: 5}); !errors.Is(err, ErrFeedbackNotAllowed) {
		t.Fatalf("second feedback: got %v, want ErrFeedbackNotAllowed", err)
	}
}

func TestFeedbackBeforeReceiveRejected(t *testing.T) {
	s := newTestService(nil)
	o := placeTestOrder(t, s, false)
	if _, err := s.AddFeedback(o.ID, 5, Feedback{Rating: 4}); !errors.Is(err, ErrFeedbackNotAllowed) {
		t.Fatalf("feedback on placed: got %v, want ErrFeedbackNotAllowed", err)
	}
}

func TestAvailable_OnlyUnclaimedPreparedTakeout(t *testing.T) {
	s := newTestService(nil)

	takeout := placeTestOrder(t, s, true)
	s.Apply(takeout.ID, RoleStore, 3, ActionAccept)
	s.Apply(takeout.ID, RoleStore, 3, ActionPrepare)

	delivery := placeTestOrder(t, s, false)
	s.Apply(delivery.ID, RoleStore, 3, ActionAccept)
	s.Apply(delivery.ID, RoleStore, 3, ActionPrepare)

	pending := placeTestOrder(t, s, true)
	_ = pending

	got, err := s.Available()
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(got) != 1 || got[0].ID != takeout.ID {
		t.Fatalf("available = %+v, want only order %d", got, takeout.ID)
	}

	s.Apply(takeout.ID, RoleDriver, 9, ActionAccept)
	got, err = s.Available()
	if err != nil {
		t.Fatalf("available after claim: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("claimed order still listed: %+v", got)
	}
}

func TestStats(t *testing.T) {
	s := newTestService(nil)
	a := placeTestOrder(t, s, false)
	b := placeTestOrder(t, s, false)
	s.Apply(b.ID, RoleStore, 3, ActionAccept)
	_ = a

	stats, err := s.Stats(RoleCustomer, 5)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats[StatusPlaced] != 1 || stats[StatusAccepted] != 1 {
		t.Fatalf("stats = %v", stats)
	}
}
