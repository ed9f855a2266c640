package status

import (
	"fmt"
	"strings"
)

// Domain selects one of the independent status vocabularies.
type Domain string

const (
	DomainVehicle Domain = "vehicle"
	DomainBooking Domain = "booking"
	DomainPayment Domain = "payment"
)

// Token is a canonical status string drawn from a domain's closed vocabulary.
type Token string

const (
	VehicleAvailable   Token = "available"
	VehicleReserved    Token = "reserved"
	VehicleInUse       Token = "in-use"
	VehicleMaintenance Token = "maintenance"
)

const (
	BookingConfirmed     Token = "confirmed"
	BookingWaitingPickup Token = "waiting-pickup"
	BookingPickupOverdue Token = "pickup-overdue"
	BookingInUse         Token = "in-use"
	BookingReturnOverdue Token = "return-overdue"
	BookingCompleted     Token = "completed"
	BookingCancelled     Token = "cancelled"
)

const (
	PaymentUnpaid      Token = "unpaid"
	PaymentPartialPaid Token = "partial-paid"
	PaymentPaid        Token = "paid"
)

var vocabularies = map[Domain][]Token{
	DomainVehicle: {VehicleAvailable, VehicleReserved, VehicleInUse, VehicleMaintenance},
	DomainBooking: {
		BookingConfirmed, BookingWaitingPickup, BookingPickupOverdue, BookingInUse,
		BookingReturnOverdue, BookingCompleted, BookingCancelled,
	},
	DomainPayment: {PaymentUnpaid, PaymentPartialPaid, PaymentPaid},
}

var fallbacks = map[Domain]Token{
	DomainVehicle: VehicleAvailable,
	DomainBooking: BookingConfirmed,
	DomainPayment: PaymentUnpaid,
}

// ParseDomain accepts the domain names used on the HTTP surface.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vehicle", "vehicles", "car", "cars":
		return DomainVehicle, nil
	case "booking", "bookings", "rental", "rentals":
		return DomainBooking, nil
	case "payment", "payments":
		return DomainPayment, nil
	default:
		return "", fmt.Errorf("unknown status domain: %s", s)
	}
}

// Tokens returns the domain's vocabulary in display order.
func Tokens(d Domain) []Token {
	v := vocabularies[d]
	out := make([]Token, len(v))
	copy(out, v)
	return out
}

// Fallback is the token assigned to unrecognized input.
func Fallback(d Domain) Token {
	return fallbacks[d]
}

func Valid(d Domain, t Token) bool {
	for _, v := range vocabularies[d] {
		if v == t {
			return true
		}
	}
	return false
}
