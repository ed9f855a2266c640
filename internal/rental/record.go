package rental

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one raw ERP document. Field names vary between doctypes and exports,
// so attributes are read through ordered alias lists.
type Record map[string]any

// Field aliases, most specific first.
var (
	IDFields            = []string{"name", "id", "booking_id", "rental_id", "booking_no"}
	BookingStatusFields = []string{"booking_status", "rental_status", "status", "workflow_state"}
	PaymentStatusFields = []string{"payment_status", "pay_status", "paid_status"}
	PickupFields        = []string{"pickup_time", "pickup_datetime", "pickup_date", "pickup_at", "start_time", "start_date", "from_date"}
	ReturnFields        = []string{"return_time", "return_datetime", "return_date", "return_at", "end_time", "end_date", "to_date"}
	VehicleIDFields     = []string{"vehicle_id", "vehicle", "car_id", "car", "asset"}
	VehicleNameFields   = []string{"vehicle_name", "car_name", "vehicle_title", "model_name"}
	PlateFields         = []string{"license_plate", "plate", "plate_no", "car_plate", "registration_no"}
	TotalFields         = []string{"grand_total", "total_amount", "total_price", "total"}
	PaidFields          = []string{"paid_amount", "amount_paid", "deposit_paid", "deposit"}
)

// First returns the first alias present with a non-empty value.
// Numbers and booleans are rendered as text; nested values are ignored.
func (r Record) First(aliases ...string) string {
	for _, k := range aliases {
		v, ok := r[k]
		if !ok {
			continue
		}
		if s := text(v); s != "" {
			return s
		}
	}
	return ""
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
