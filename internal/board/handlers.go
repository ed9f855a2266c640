package board

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"vrent/internal/activation"
	"vrent/internal/api"
	"vrent/internal/audit"
	"vrent/internal/engine"
	"vrent/internal/status"
	"vrent/internal/vehicle"
)

// Board is the part of the engine the display layer reads.
type Board interface {
	Snapshot() engine.Snapshot
	Refresh() bool
	Guard() *activation.Guard
}

type AttemptLister interface {
	ListRecent(ctx context.Context, vehicleKey string, limit int) ([]audit.Entry, error)
}

type Handlers struct {
	Board   Board
	Journal AttemptLister
	Logger  *zap.Logger
}

type Label struct {
	Token status.Token `json:"token"`
	Label string       `json:"label"`
}

type RentalView struct {
	ID                 string     `json:"id"`
	Stage              Label      `json:"stage"`
	Status             Label      `json:"status"`
	RawStatus          string     `json:"rawStatus"`
	StatusUnrecognized bool       `json:"statusUnrecognized,omitempty"`
	Payment            Label      `json:"payment"`
	PickupAt           *time.Time `json:"pickupAt,omitempty"`
	ReturnAt           *time.Time `json:"returnAt,omitempty"`
	VehicleKey         string     `json:"vehicleKey,omitempty"`
	KeySource          string     `json:"keySource,omitempty"`
	VehicleName        string     `json:"vehicleName,omitempty"`
	Plate              string     `json:"plate,omitempty"`
	Total              string     `json:"total"`
	Paid               string     `json:"paid"`
	Outstanding        string     `json:"outstanding"`
	Activated          bool       `json:"activated"`
}

type VehicleView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Plate    string `json:"plate"`
	RawStage string `json:"rawStage"`
	Stage    Label  `json:"stage"`
}

func label(d status.Domain, t status.Token, tag language.Tag) Label {
	return Label{Token: t, Label: status.DisplayLabel(d, t, tag)}
}

func requestLanguage(r *http.Request) language.Tag {
	return status.MatchLanguage(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (h Handlers) Rentals(w http.ResponseWriter, r *http.Request) {
	tag := requestLanguage(r)
	snap := h.Board.Snapshot()
	record := h.Board.Guard().Record()

	stageFilter := status.Token(strings.TrimSpace(r.URL.Query().Get("stage")))
	if stageFilter != "" && !status.Valid(status.DomainBooking, stageFilter) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown stage")
		return
	}

	items := make([]RentalView, 0, len(snap.Rentals))
	for _, rent := range snap.Rentals {
		if stageFilter != "" && rent.Stage != stageFilter {
			continue
		}
		b := rent.Booking
		items = append(items, RentalView{
			ID:                 b.ID,
			Stage:              label(status.DomainBooking, rent.Stage, tag),
			Status:             label(status.DomainBooking, b.Status, tag),
			RawStatus:          b.RawStatus,
			StatusUnrecognized: b.StatusUnrecognized,
			Payment:            label(status.DomainPayment, b.Payment, tag),
			PickupAt:           optionalTime(b.PickupAt),
			ReturnAt:           optionalTime(b.ReturnAt),
			VehicleKey:         rent.VehicleKey,
			KeySource:          string(rent.KeySource),
			VehicleName:        b.VehicleName,
			Plate:              b.Plate,
			Total:              b.Total.StringFixed(2),
			Paid:               b.Paid.StringFixed(2),
			Outstanding:        b.Total.Sub(b.Paid).StringFixed(2),
			Activated:          rent.VehicleKey != "" && record.Has(rent.VehicleKey),
		})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"language":    tag.String(),
		"trigger":     snap.Trigger,
		"evaluatedAt": snap.EvaluatedAt,
		"fetchedAt":   snap.FetchedAt,
		"fetchError":  snap.FetchError,
	})
}

func (h Handlers) Vehicles(w http.ResponseWriter, r *http.Request) {
	tag := requestLanguage(r)
	snap := h.Board.Snapshot()

	items := make([]VehicleView, 0, len(snap.Vehicles))
	for _, v := range snap.Vehicles {
		items = append(items, VehicleView{
			ID:       v.ID,
			Name:     v.Name,
			Plate:    v.Plate,
			RawStage: v.RawStage,
			Stage:    label(status.DomainVehicle, v.Stage, tag),
		})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items, "language": tag.String()})
}

// Canonicalize exposes the canonicalizer for troubleshooting ERP labels.
func (h Handlers) Canonicalize(w http.ResponseWriter, r *http.Request) {
	d, err := status.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "UNKNOWN_DOMAIN", err.Error())
		return
	}
	raw := r.URL.Query().Get("value")
	tok, recognized := status.Lookup(d, raw)
	if !recognized {
		tok = status.Fallback(d)
	}
	tag := requestLanguage(r)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"domain":     d,
		"value":      raw,
		"normalized": status.Normalize(raw),
		"token":      tok,
		"label":      status.DisplayLabel(d, tok, tag),
		"recognized": recognized,
	})
}

func (h Handlers) Tokens(w http.ResponseWriter, r *http.Request) {
	d, err := status.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "UNKNOWN_DOMAIN", err.Error())
		return
	}
	tag := requestLanguage(r)
	tokens := status.Tokens(d)
	items := make([]Label, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, label(d, t, tag))
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"domain":   d,
		"fallback": status.Fallback(d),
		"items":    items,
	})
}

// Refresh asks the engine for an out-of-band refetch. It never waits for the cycle.
func (h Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	queued := h.Board.Refresh()
	if staff := api.StaffFromContext(r.Context()); staff != nil && h.Logger != nil {
		h.Logger.Info("refresh requested", zap.String("staff", staff.User), zap.Bool("queued", queued))
	}
	api.WriteJSON(w, http.StatusAccepted, map[string]any{"queued": queued})
}

func (h Handlers) Activations(w http.ResponseWriter, r *http.Request) {
	keys := h.Board.Guard().Record().Keys()
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": keys, "count": len(keys)})
}

// ResetActivations clears the record so every in-use vehicle is activated again on the
// next cycle.
func (h Handlers) ResetActivations(w http.ResponseWriter, r *http.Request) {
	n := h.Board.Guard().Record().Reset()
	h.audit(r, "activation record reset", zap.Int("removed", n))
	api.WriteJSON(w, http.StatusOK, map[string]any{"removed": n})
}

func (h Handlers) ForgetActivation(w http.ResponseWriter, r *http.Request) {
	key := vehicle.NormalizeKey(chi.URLParam(r, "key"))
	if key == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing vehicle key")
		return
	}
	if !h.Board.Guard().Record().Remove(key) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle key not in activation record")
		return
	}
	h.audit(r, "activation key removed", zap.String("vehicleKey", key))
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) ActivationLog(w http.ResponseWriter, r *http.Request) {
	if h.Journal == nil {
		api.WriteError(w, http.StatusServiceUnavailable, "JOURNAL_DISABLED", "activation journal not configured")
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	key := vehicle.NormalizeKey(r.URL.Query().Get("vehicle"))

	entries, err := h.Journal.ListRecent(r.Context(), key, limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list activation attempts", zap.Error(err))
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": entries})
}

func (h Handlers) audit(r *http.Request, msg string, fields ...zap.Field) {
	if h.Logger == nil {
		return
	}
	if staff := api.StaffFromContext(r.Context()); staff != nil {
		fields = append(fields, zap.String("staff", staff.User))
	}
	h.Logger.Info(msg, fields...)
}
