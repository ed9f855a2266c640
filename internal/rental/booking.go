package rental

import (
	"time"

	"github.com/shopspring/decimal"

	"vrent/internal/status"
)

// Booking is one rental as read from the ERP. The evaluation path only derives values
// from it and never modifies it.
type Booking struct {
	ID string `json:"id"`

	RawStatus string       `json:"rawStatus"`
	Status    status.Token `json:"status"`
	// StatusUnrecognized is set when RawStatus matched no table and Status holds the fallback.
	StatusUnrecognized bool `json:"statusUnrecognized,omitempty"`

	RawPayment string       `json:"rawPayment,omitempty"`
	Payment    status.Token `json:"payment"`

	// Zero values mean the timestamp was absent or unparsable.
	PickupAt time.Time `json:"pickupAt"`
	ReturnAt time.Time `json:"returnAt"`

	VehicleID   string `json:"vehicleId,omitempty"`
	VehicleName string `json:"vehicleName,omitempty"`
	Plate       string `json:"plate,omitempty"`

	Total decimal.Decimal `json:"total"`
	Paid  decimal.Decimal `json:"paid"`
}

func (b Booking) HasPickup() bool { return !b.PickupAt.IsZero() }
func (b Booking) HasReturn() bool { return !b.ReturnAt.IsZero() }

// FromRecord builds a Booking from a raw ERP rental record.
func FromRecord(rec Record, loc *time.Location) Booking {
	b := Booking{
		ID:          rec.First(IDFields...),
		RawStatus:   rec.First(BookingStatusFields...),
		RawPayment:  rec.First(PaymentStatusFields...),
		VehicleID:   rec.First(VehicleIDFields...),
		VehicleName: rec.First(VehicleNameFields...),
		Plate:       rec.First(PlateFields...),
		Total:       parseAmount(rec.First(TotalFields...)),
		Paid:        parseAmount(rec.First(PaidFields...)),
	}

	if tok, ok := status.Lookup(status.DomainBooking, b.RawStatus); ok {
		b.Status = tok
	} else {
		b.Status = status.Fallback(status.DomainBooking)
		b.StatusUnrecognized = true
	}

	b.Payment = ResolvePayment(b.RawPayment, b.Paid, b.Total)

	if t, ok := ParseTime(rec.First(PickupFields...), loc); ok {
		b.PickupAt = t
	}
	if t, ok := ParseTime(rec.First(ReturnFields...), loc); ok {
		b.ReturnAt = t
	}
	return b
}

func FromRecords(recs []Record, loc *time.Location) []Booking {
	out := make([]Booking, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec, loc))
	}
	return out
}
