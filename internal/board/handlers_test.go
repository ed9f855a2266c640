package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"vrent/internal/activation"
	"vrent/internal/audit"
	"vrent/internal/engine"
	"vrent/internal/rental"
	"vrent/internal/status"
)

type stubJournal struct {
	entries []audit.Entry
	err     error
	gotKey  string
	gotMax  int
}

func (j *stubJournal) ListRecent(ctx context.Context, vehicleKey string, limit int) ([]audit.Entry, error) {
	j.gotKey, j.gotMax = vehicleKey, limit
	return j.entries, j.err
}

func newBoard(t *testing.T) *engine.Engine {
	t.Helper()
	src := engine.StaticSource{
		Rentals: []rental.Record{
			{"name": "RENT-1", "status": "In Rent", "pickup_date": "2024-01-01 09:00", "return_date": "2024-01-01 18:00",
				"vehicle": "VEH-0001", "grand_total": "1,500.00", "paid_amount": "500"},
			{"name": "RENT-2", "status": "รอรับรถ", "pickup_date": "2024-01-01 10:00", "vehicle": "VEH-0002"},
		},
		Vehicles: []rental.Record{
			{"name": "VEH-0001", "vehicle_name": "Toyota Yaris", "license_plate": "กข 1234", "status": "ว่าง"},
			{"name": "VEH-0002", "vehicle_name": "Honda City", "license_plate": "1กก 9999", "status": "ถูกจอง"},
		},
	}
	act := activation.ActivatorFunc(func(ctx context.Context, key string, stage status.Token) error { return nil })
	guard := activation.NewGuard(activation.NewRecord(), act, activation.Options{})
	now := time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)
	e, err := engine.New(src, guard, nil, engine.Config{Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := e.Cycle(context.Background(), "test", true); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	return e
}

func router(h Handlers) http.Handler {
	r := chi.NewRouter()
	h.Mount(r)
	r.Group(func(r chi.Router) { h.MountStaff(r, StaffMiddlewares{}) })
	return r
}

func get(t *testing.T, h http.Handler, method, target string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestRentals_ThaiLabelsAndAmounts(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	rec, body := get(t, h, http.MethodGet, "/rentals", map[string]string{"Accept-Language": "th-TH,th;q=0.9"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["language"] != "th" {
		t.Fatalf("expected th, got %v", body["language"])
	}
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	stage := first["stage"].(map[string]any)
	if stage["token"] != "in-use" || stage["label"] != status.DisplayLabel(status.DomainBooking, status.BookingInUse, status.MatchLanguage("th")) {
		t.Fatalf("unexpected stage %v", stage)
	}
	if first["total"] != "1500.00" || first["paid"] != "500.00" || first["outstanding"] != "1000.00" {
		t.Fatalf("unexpected amounts %v", first)
	}
	if first["vehicleKey"] != "VEH-0001" || first["activated"] != true {
		t.Fatalf("unexpected vehicle fields %v", first)
	}
	if second := items[1].(map[string]any); second["stage"].(map[string]any)["token"] != "pickup-overdue" {
		t.Fatalf("unexpected second stage %v", second["stage"])
	}
}

func TestRentals_StageFilter(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	_, body := get(t, h, http.MethodGet, "/rentals?stage=pickup-overdue&lang=en", nil)
	items := body["items"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["id"] != "RENT-2" {
		t.Fatalf("unexpected filtered items %v", items)
	}

	rec, _ := get(t, h, http.MethodGet, "/rentals?stage=nope", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestVehicles(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	_, body := get(t, h, http.MethodGet, "/vehicles?lang=en", nil)
	items := body["items"].([]any)
	var stages []string
	for _, it := range items {
		stages = append(stages, it.(map[string]any)["stage"].(map[string]any)["token"].(string))
	}
	if diff := cmp.Diff([]string{"available", "reserved"}, stages); diff != "" {
		t.Fatalf("stages mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonicalize(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	_, body := get(t, h, http.MethodGet, "/status/vehicle?value=%E0%B8%96%E0%B8%B9%E0%B8%81%E0%B8%A2%E0%B8%B7%E0%B8%A1%E0%B8%AD%E0%B8%A2%E0%B8%B9%E0%B9%88", nil)
	if body["token"] != "in-use" || body["recognized"] != true {
		t.Fatalf("unexpected canonicalization %v", body)
	}

	_, body = get(t, h, http.MethodGet, "/status/booking?value=weird", nil)
	if body["token"] != "confirmed" || body["recognized"] != false {
		t.Fatalf("unexpected fallback %v", body)
	}

	rec, _ := get(t, h, http.MethodGet, "/status/fuel?value=x", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTokens(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	_, body := get(t, h, http.MethodGet, "/status/payment/tokens", nil)
	if body["fallback"] != "unpaid" || len(body["items"].([]any)) != 3 {
		t.Fatalf("unexpected tokens %v", body)
	}
}

func TestActivations_ListForgetReset(t *testing.T) {
	b := newBoard(t)
	h := router(Handlers{Board: b})

	_, body := get(t, h, http.MethodGet, "/activations", nil)
	if diff := cmp.Diff([]any{"veh-0001"}, body["items"]); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	rec, _ := get(t, h, http.MethodDelete, "/activations/VEH-0001", nil)
	if rec.Code != http.StatusNoContent || b.Guard().Record().Len() != 0 {
		t.Fatalf("expected key removed, got %d", rec.Code)
	}
	rec, _ = get(t, h, http.MethodDelete, "/activations/VEH-0001", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	b.Guard().Record().Add("veh-0002")
	_, body = get(t, h, http.MethodDelete, "/activations", nil)
	if body["removed"] != float64(1) {
		t.Fatalf("unexpected reset %v", body)
	}
}

func TestRefresh_IsQueued(t *testing.T) {
	h := router(Handlers{Board: newBoard(t)})

	rec, body := get(t, h, http.MethodPost, "/refresh", nil)
	if rec.Code != http.StatusAccepted || body["queued"] != true {
		t.Fatalf("unexpected refresh %d %v", rec.Code, body)
	}
	_, body = get(t, h, http.MethodPost, "/refresh", nil)
	if body["queued"] != false {
		t.Fatalf("expected coalesced refresh, got %v", body)
	}
}

func TestActivationLog(t *testing.T) {
	j := &stubJournal{entries: []audit.Entry{{ID: 1, VehicleKey: "VEH-0001", Result: "activated"}}}
	h := router(Handlers{Board: newBoard(t), Journal: j})

	rec, body := get(t, h, http.MethodGet, "/activations/log?vehicle=VEH-0001&limit=10", nil)
	if rec.Code != http.StatusOK || len(body["items"].([]any)) != 1 {
		t.Fatalf("unexpected log %d %v", rec.Code, body)
	}
	if j.gotKey != "veh-0001" || j.gotMax != 10 {
		t.Fatalf("unexpected query %q %d", j.gotKey, j.gotMax)
	}

	rec, _ = get(t, h, http.MethodGet, "/activations/log?limit=0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	j.err = errors.New("db down")
	rec, _ = get(t, h, http.MethodGet, "/activations/log", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	rec, _ = get(t, router(Handlers{Board: newBoard(t)}), http.MethodGet, "/activations/log", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
