package lifecycle

import (
	"testing"
	"time"

	"vrent/internal/rental"
	"vrent/internal/status"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolve_Table(t *testing.T) {
	now := at("2024-01-01T11:00")
	before := at("2024-01-01T10:00")
	after := at("2024-01-01T12:00")

	cases := []struct {
		name string
		b    rental.Booking
		want status.Token
	}{
		{"cancelled is terminal", rental.Booking{Status: status.BookingCancelled, PickupAt: before, ReturnAt: before}, status.BookingCancelled},
		{"completed is terminal", rental.Booking{Status: status.BookingCompleted, ReturnAt: before}, status.BookingCompleted},
		{"in use past return", rental.Booking{Status: status.BookingInUse, ReturnAt: before}, status.BookingReturnOverdue},
		{"in use before return", rental.Booking{Status: status.BookingInUse, ReturnAt: after}, status.BookingInUse},
		{"in use without return time", rental.Booking{Status: status.BookingInUse}, status.BookingInUse},
		{"in use ignores pickup", rental.Booking{Status: status.BookingInUse, PickupAt: before, ReturnAt: after}, status.BookingInUse},
		{"waiting past pickup", rental.Booking{Status: status.BookingWaitingPickup, PickupAt: before}, status.BookingPickupOverdue},
		{"waiting before pickup", rental.Booking{Status: status.BookingWaitingPickup, PickupAt: after}, status.BookingWaitingPickup},
		{"confirmed shows waiting", rental.Booking{Status: status.BookingConfirmed}, status.BookingWaitingPickup},
		{"confirmed past pickup", rental.Booking{Status: status.BookingConfirmed, PickupAt: before}, status.BookingPickupOverdue},
		{"stored return overdue without times", rental.Booking{Status: status.BookingReturnOverdue}, status.BookingReturnOverdue},
		{"stored pickup overdue past return", rental.Booking{Status: status.BookingPickupOverdue, PickupAt: after, ReturnAt: before}, status.BookingReturnOverdue},
		{"unrecognized without times", rental.Booking{Status: status.BookingConfirmed, StatusUnrecognized: true}, status.BookingConfirmed},
		{"unrecognized past pickup", rental.Booking{Status: status.BookingConfirmed, StatusUnrecognized: true, PickupAt: before}, status.BookingPickupOverdue},
		{"unrecognized past return only", rental.Booking{Status: status.BookingConfirmed, StatusUnrecognized: true, PickupAt: after, ReturnAt: before}, status.BookingReturnOverdue},
		{"empty status", rental.Booking{}, status.BookingConfirmed},
	}
	for _, c := range cases {
		if got := Resolve(c.b, now); got != c.want {
			t.Fatalf("%s: expected %q, got %q", c.name, c.want, got)
		}
	}
}

func TestResolve_WaitingPickupOverdueScenario(t *testing.T) {
	b := rental.Booking{Status: status.BookingWaitingPickup, PickupAt: at("2024-01-01T10:00")}
	if got := Resolve(b, at("2024-01-01T11:00")); got != status.BookingPickupOverdue {
		t.Fatalf("expected pickup-overdue, got %q", got)
	}
}

func TestResolve_StrictBoundary(t *testing.T) {
	now := at("2024-01-01T11:00")
	if got := Resolve(rental.Booking{Status: status.BookingInUse, ReturnAt: now}, now); got != status.BookingInUse {
		t.Fatalf("return due exactly now must not be overdue, got %q", got)
	}
	if got := Resolve(rental.Booking{Status: status.BookingWaitingPickup, PickupAt: now}, now); got != status.BookingWaitingPickup {
		t.Fatalf("pickup due exactly now must not be overdue, got %q", got)
	}
	if got := Resolve(rental.Booking{Status: status.BookingInUse, ReturnAt: now}, now.Add(time.Nanosecond)); got != status.BookingReturnOverdue {
		t.Fatalf("expected overdue one tick later, got %q", got)
	}
}

func TestResolve_IsPure(t *testing.T) {
	now := at("2024-01-01T11:00")
	b := rental.FromRecord(rental.Record{
		"status":      "in rent",
		"return_time": "2024-01-01T10:30",
	}, time.UTC)
	first := Resolve(b, now)
	second := Resolve(b, now)
	if first != second || first != status.BookingReturnOverdue {
		t.Fatalf("expected stable return-overdue, got %q then %q", first, second)
	}
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	now := at("2024-01-01T11:00")
	in := []rental.Booking{
		{ID: "a", Status: status.BookingCancelled},
		{ID: "b", Status: status.BookingInUse},
		{ID: "c", Status: status.BookingCompleted},
	}
	got := ResolveAll(in, now)
	if len(got) != 3 || got[0].Booking.ID != "a" || got[1].Stage != status.BookingInUse || got[2].Booking.ID != "c" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestIsActive(t *testing.T) {
	if !IsActive(status.BookingInUse) || !IsActive(status.BookingReturnOverdue) {
		t.Fatalf("expected in-use and return-overdue active")
	}
	if IsActive(status.BookingWaitingPickup) || IsActive(status.BookingCompleted) {
		t.Fatalf("unexpected active stage")
	}
}
