package rental

import (
	"strings"

	"github.com/shopspring/decimal"

	"vrent/internal/status"
)

// ResolvePayment canonicalizes the ERP payment status. When the text is not recognized
// the status is derived from the amounts instead:
//   - paid >= total > 0 -> paid
//   - 0 < paid < total -> partial-paid
//   - otherwise the domain fallback (unpaid)
func ResolvePayment(raw string, paid, total decimal.Decimal) status.Token {
	if tok, ok := status.Lookup(status.DomainPayment, raw); ok {
		return tok
	}
	if total.GreaterThan(decimal.Zero) && paid.GreaterThanOrEqual(total) {
		return status.PaymentPaid
	}
	if paid.GreaterThan(decimal.Zero) && paid.LessThan(total) {
		return status.PaymentPartialPaid
	}
	return status.Fallback(status.DomainPayment)
}

func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
