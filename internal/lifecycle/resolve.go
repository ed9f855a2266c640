package lifecycle

import (
	"time"

	"vrent/internal/rental"
	"vrent/internal/status"
)

// Resolved pairs a booking with the stage it displays at one evaluation.
type Resolved struct {
	Booking rental.Booking `json:"booking"`
	Stage   status.Token   `json:"stage"`
}

// Resolve computes the effective booking stage relative to now.
//
// Rules, first match wins:
//   - cancelled and completed are terminal.
//   - in-use becomes return-overdue once now is strictly after the return time.
//   - waiting-pickup and confirmed become pickup-overdue once now is strictly after the
//     pickup time, and waiting-pickup otherwise.
//   - anything else (stored overdue stages, unrecognized text) is checked against pickup
//     and then return time, and kept as is when neither is overdue.
func Resolve(b rental.Booking, now time.Time) status.Token {
	if !b.StatusUnrecognized {
		switch b.Status {
		case status.BookingCancelled:
			return status.BookingCancelled
		case status.BookingCompleted:
			return status.BookingCompleted
		case status.BookingInUse:
			if overdue(b.ReturnAt, now) {
				return status.BookingReturnOverdue
			}
			return status.BookingInUse
		case status.BookingWaitingPickup, status.BookingConfirmed:
			if overdue(b.PickupAt, now) {
				return status.BookingPickupOverdue
			}
			return status.BookingWaitingPickup
		}
	}

	if overdue(b.PickupAt, now) {
		return status.BookingPickupOverdue
	}
	if overdue(b.ReturnAt, now) {
		return status.BookingReturnOverdue
	}
	if b.StatusUnrecognized || b.Status == "" {
		return status.BookingConfirmed
	}
	return b.Status
}

// ResolveAll resolves every booking, preserving input order.
func ResolveAll(bookings []rental.Booking, now time.Time) []Resolved {
	out := make([]Resolved, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Resolved{Booking: b, Stage: Resolve(b, now)})
	}
	return out
}

// IsActive reports whether the stage means the vehicle is out with a customer.
func IsActive(stage status.Token) bool {
	return stage == status.BookingInUse || stage == status.BookingReturnOverdue
}

func overdue(t, now time.Time) bool {
	return !t.IsZero() && now.After(t)
}
