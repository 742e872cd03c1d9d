package domain

import "errors"

// TransitionEvent is an action applied to a shipment's lifecycle.
type TransitionEvent string

const (
	// EventSchedule confirms a reviewed shipment (admin action).
	EventSchedule TransitionEvent = "SCHEDULE"

	// EventAssignDriver attaches a driver and opens a PENDING offer.
	EventAssignDriver TransitionEvent = "ASSIGN_DRIVER"

	// EventDriverAccept is the driver accepting the open offer.
	EventDriverAccept TransitionEvent = "DRIVER_ACCEPT"

	// EventDriverReject is the driver declining the open offer. The
	// caller must also clear DriverID in the same logical operation:
	// a rejected shipment is released back to PENDING_REVIEW with no
	// driver attached.
	EventDriverReject TransitionEvent = "DRIVER_REJECT"

	// EventAdvance moves an accepted shipment one step forward:
	// ASSIGNED -> PICKED_UP -> IN_TRANSIT -> DELIVERED.
	EventAdvance TransitionEvent = "ADVANCE"

	// EventReportIssue flags a problem on an in-flight shipment.
	EventReportIssue TransitionEvent = "REPORT_ISSUE"

	// EventCancel cancels any non-terminal shipment.
	EventCancel TransitionEvent = "CANCEL"
)

var (
	// ErrIllegalTransition is returned when the event is not legal from
	// the current state. Transitions are rejected, never coerced.
	ErrIllegalTransition = errors.New("illegal shipment transition")

	// ErrAssignmentPending is returned when advancing status while the
	// driver has not yet responded to the offer.
	ErrAssignmentPending = errors.New("assignment response pending")

	// ErrTerminalStatus is returned for any event on a delivered or
	// cancelled shipment.
	ErrTerminalStatus = errors.New("shipment in terminal status")
)

// Transition returns the next (status, assignment) pair for the given
// event, or an error if the transition is illegal. It is pure decision
// logic: accepted results are advisory until the authoritative server
// representation is applied.
func Transition(status ShipmentStatus, assignment AssignmentStatus, event TransitionEvent) (ShipmentStatus, AssignmentStatus, error) {
	if status.Terminal() {
		return status, assignment, ErrTerminalStatus
	}

	switch event {
	case EventSchedule:
		if status == StatusPendingReview {
			return StatusScheduled, AssignmentNone, nil
		}

	case EventAssignDriver:
		if status == StatusPendingReview || status == StatusScheduled {
			return StatusAssigned, AssignmentPending, nil
		}

	case EventDriverAccept:
		if status == StatusAssigned && assignment == AssignmentPending {
			return StatusAssigned, AssignmentAccepted, nil
		}

	case EventDriverReject:
		if status == StatusAssigned && assignment == AssignmentPending {
			return StatusPendingReview, AssignmentNone, nil
		}

	case EventAdvance:
		if assignment == AssignmentPending {
			return status, assignment, ErrAssignmentPending
		}
		switch status {
		case StatusAssigned:
			if assignment == AssignmentAccepted {
				return StatusPickedUp, assignment, nil
			}
		case StatusPickedUp:
			return StatusInTransit, assignment, nil
		case StatusInTransit:
			return StatusDelivered, assignment, nil
		}

	case EventReportIssue:
		switch status {
		case StatusAssigned, StatusPickedUp, StatusInTransit:
			if assignment == AssignmentPending {
				return status, assignment, ErrAssignmentPending
			}
			return StatusIssueReported, assignment, nil
		}

	case EventCancel:
		return StatusCancelled, assignment, nil
	}

	return status, assignment, ErrIllegalTransition
}
