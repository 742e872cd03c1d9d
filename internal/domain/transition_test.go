package domain

import (
	"errors"
	"testing"
)

func TestTransition_HappyPath(t *testing.T) {
	t.Parallel()

	status := StatusPendingReview
	assignment := AssignmentNone

	steps := []struct {
		event          TransitionEvent
		wantStatus     ShipmentStatus
		wantAssignment AssignmentStatus
	}{
		{EventSchedule, StatusScheduled, AssignmentNone},
		{EventAssignDriver, StatusAssigned, AssignmentPending},
		{EventDriverAccept, StatusAssigned, AssignmentAccepted},
		{EventAdvance, StatusPickedUp, AssignmentAccepted},
		{EventAdvance, StatusInTransit, AssignmentAccepted},
		{EventAdvance, StatusDelivered, AssignmentAccepted},
	}

	for _, step := range steps {
		var err error
		status, assignment, err = Transition(status, assignment, step.event)
		if err != nil {
			t.Fatalf("event %s: unexpected error: %v", step.event, err)
		}
		if status != step.wantStatus || assignment != step.wantAssignment {
			t.Fatalf("event %s: got (%s, %s), want (%s, %s)",
				step.event, status, assignment, step.wantStatus, step.wantAssignment)
		}
	}
}

func TestTransition_IllegalSkipsRejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		status     ShipmentStatus
		assignment AssignmentStatus
		event      TransitionEvent
	}{
		{"pending review cannot advance", StatusPendingReview, AssignmentNone, EventAdvance},
		{"scheduled cannot advance", StatusScheduled, AssignmentNone, EventAdvance},
		{"cannot schedule twice", StatusScheduled, AssignmentNone, EventSchedule},
		{"cannot assign while assigned", StatusAssigned, AssignmentPending, EventAssignDriver},
		{"cannot accept without offer", StatusAssigned, AssignmentAccepted, EventDriverAccept},
		{"cannot reject without offer", StatusAssigned, AssignmentAccepted, EventDriverReject},
		{"issue only while in flight", StatusScheduled, AssignmentNone, EventReportIssue},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotStatus, gotAssignment, err := Transition(tc.status, tc.assignment, tc.event)
			if err == nil {
				t.Fatalf("expected rejection, got (%s, %s)", gotStatus, gotAssignment)
			}
			if gotStatus != tc.status || gotAssignment != tc.assignment {
				t.Errorf("rejected transition mutated state: got (%s, %s)", gotStatus, gotAssignment)
			}
		})
	}
}

func TestTransition_AdvanceWhilePendingRejected(t *testing.T) {
	t.Parallel()

	_, _, err := Transition(StatusAssigned, AssignmentPending, EventAdvance)
	if !errors.Is(err, ErrAssignmentPending) {
		t.Fatalf("expected ErrAssignmentPending, got %v", err)
	}

	_, _, err = Transition(StatusAssigned, AssignmentPending, EventReportIssue)
	if !errors.Is(err, ErrAssignmentPending) {
		t.Fatalf("expected ErrAssignmentPending for issue report, got %v", err)
	}
}

func TestTransition_RejectReleasesShipment(t *testing.T) {
	t.Parallel()

	status, assignment, err := Transition(StatusAssigned, AssignmentPending, EventDriverReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusPendingReview {
		t.Errorf("expected status %s, got %s", StatusPendingReview, status)
	}
	if assignment != AssignmentNone {
		t.Errorf("expected assignment cleared, got %s", assignment)
	}

	// The released shipment is re-assignable.
	status, assignment, err = Transition(status, assignment, EventAssignDriver)
	if err != nil {
		t.Fatalf("released shipment not re-assignable: %v", err)
	}
	if status != StatusAssigned || assignment != AssignmentPending {
		t.Errorf("got (%s, %s) after reassignment", status, assignment)
	}
}

func TestTransition_TerminalStatesFrozen(t *testing.T) {
	t.Parallel()

	events := []TransitionEvent{
		EventSchedule, EventAssignDriver, EventDriverAccept,
		EventDriverReject, EventAdvance, EventReportIssue, EventCancel,
	}

	for _, terminal := range []ShipmentStatus{StatusDelivered, StatusCancelled} {
		for _, event := range events {
			if _, _, err := Transition(terminal, AssignmentNone, event); !errors.Is(err, ErrTerminalStatus) {
				t.Errorf("%s + %s: expected ErrTerminalStatus, got %v", terminal, event, err)
			}
		}
	}
}

func TestTransition_CancelFromAnyNonTerminal(t *testing.T) {
	t.Parallel()

	from := []ShipmentStatus{
		StatusPendingReview, StatusScheduled, StatusAssigned,
		StatusPickedUp, StatusInTransit, StatusIssueReported,
	}
	for _, status := range from {
		got, _, err := Transition(status, AssignmentAccepted, EventCancel)
		if err != nil {
			t.Errorf("cancel from %s: unexpected error: %v", status, err)
			continue
		}
		if got != StatusCancelled {
			t.Errorf("cancel from %s: got %s", status, got)
		}
	}
}

func TestTransition_IssueReportedFromInFlight(t *testing.T) {
	t.Parallel()

	for _, status := range []ShipmentStatus{StatusAssigned, StatusPickedUp, StatusInTransit} {
		got, assignment, err := Transition(status, AssignmentAccepted, EventReportIssue)
		if err != nil {
			t.Fatalf("issue from %s: unexpected error: %v", status, err)
		}
		if got != StatusIssueReported {
			t.Errorf("issue from %s: got %s", status, got)
		}
		if assignment != AssignmentAccepted {
			t.Errorf("issue from %s: assignment changed to %s", status, assignment)
		}
	}
}
