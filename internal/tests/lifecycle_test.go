package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/Steerify/Suretruqs-sub000/internal/domain"
)

// ──────────────────────────────────────────────
// 5. FULL SHIPMENT LIFECYCLE
// ──────────────────────────────────────────────

func TestLifecycle_CreateToDelivered(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.withUser(domain.RoleAdmin)
	ctx := context.Background()

	created, err := f.reconciler.CreateShipment(ctx, backendCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.StatusPendingReview {
		t.Fatalf("expected PENDING_REVIEW, got %s", created.Status)
	}
	id := created.ID

	// Advancing before a driver accepted is illegal.
	if _, err := f.reconciler.AdvanceShipment(ctx, id); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}

	s, err := f.reconciler.AssignDriver(ctx, id, "drv-1", "call on arrival")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if s.Status != domain.StatusAssigned || s.AssignmentStatus != domain.AssignmentPending {
		t.Fatalf("expected ASSIGNED/PENDING, got %s/%s", s.Status, s.AssignmentStatus)
	}

	s, err = f.reconciler.RespondAssignment(ctx, id, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if s.AssignmentStatus != domain.AssignmentAccepted {
		t.Fatalf("expected ACCEPTED, got %s", s.AssignmentStatus)
	}

	// ASSIGNED -> PICKED_UP -> IN_TRANSIT -> DELIVERED.
	want := []domain.ShipmentStatus{domain.StatusPickedUp, domain.StatusInTransit, domain.StatusDelivered}
	for _, expected := range want {
		s, err = f.reconciler.AdvanceShipment(ctx, id)
		if err != nil {
			t.Fatalf("advance to %s: %v", expected, err)
		}
		if s.Status != expected {
			t.Fatalf("expected %s, got %s", expected, s.Status)
		}
	}

	// Terminal: no further moves.
	if _, err := f.reconciler.AdvanceShipment(ctx, id); !errors.Is(err, domain.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus, got %v", err)
	}
	if _, err := f.reconciler.CancelShipment(ctx, id, "too late"); !errors.Is(err, domain.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus on cancel, got %v", err)
	}

	// Delivered shipments can be rated.
	rated, err := f.reconciler.RateShipment(ctx, id, 5, "smooth delivery")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rated.Rating != 5 {
		t.Errorf("expected rating applied, got %d", rated.Rating)
	}
}

func TestLifecycle_RejectionReleasesShipment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.withUser(domain.RoleAdmin)
	ctx := context.Background()

	created, err := f.reconciler.CreateShipment(ctx, backendCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.ID

	if _, err := f.reconciler.AssignDriver(ctx, id, "drv-1", ""); err != nil {
		t.Fatalf("assign: %v", err)
	}

	s, err := f.reconciler.RespondAssignment(ctx, id, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if s.Status != domain.StatusPendingReview {
		t.Errorf("rejection should release to PENDING_REVIEW, got %s", s.Status)
	}
	if s.DriverID != "" {
		t.Errorf("rejection should clear the driver, got %q", s.DriverID)
	}
	if s.AssignmentStatus != domain.AssignmentNone {
		t.Errorf("rejection should clear the assignment sub-state, got %s", s.AssignmentStatus)
	}

	// The released shipment is immediately re-assignable.
	s, err = f.reconciler.AssignDriver(ctx, id, "drv-2", "")
	if err != nil {
		t.Fatalf("re-assign: %v", err)
	}
	if s.DriverID != "drv-2" {
		t.Errorf("expected new driver attached, got %q", s.DriverID)
	}
}

func TestLifecycle_IssueOnlyFromInFlight(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.withUser(domain.RoleAdmin)
	ctx := context.Background()

	created, err := f.reconciler.CreateShipment(ctx, backendCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.ID

	if _, err := f.reconciler.ReportIssue(ctx, id, "truck broke down"); !errors.Is(err, domain.ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition before pickup, got %v", err)
	}

	if _, err := f.reconciler.AssignDriver(ctx, id, "drv-1", ""); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.reconciler.RespondAssignment(ctx, id, true); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.reconciler.AdvanceShipment(ctx, id); err != nil {
		t.Fatalf("advance: %v", err)
	}

	s, err := f.reconciler.ReportIssue(ctx, id, "truck broke down")
	if err != nil {
		t.Fatalf("report issue: %v", err)
	}
	if s.Status != domain.StatusIssueReported {
		t.Errorf("expected ISSUE_REPORTED, got %s", s.Status)
	}
}

func TestLifecycle_CancelFromAnyNonTerminal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.withUser(domain.RoleShipper)
	ctx := context.Background()

	created, err := f.reconciler.CreateShipment(ctx, backendCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s, err := f.reconciler.CancelShipment(ctx, created.ID, "changed my mind")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if s.Status != domain.StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", s.Status)
	}
}
