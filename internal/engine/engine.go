package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vrent/internal/activation"
	"vrent/internal/lifecycle"
	"vrent/internal/metrics"
	"vrent/internal/rental"
	"vrent/internal/status"
	"vrent/internal/vehicle"
)

type Config struct {
	TickInterval    time.Duration
	RefetchInterval time.Duration
	Location        *time.Location
	CodePattern     string
	// Now defaults to time.Now. It is read once per cycle and passed down explicitly.
	Now func() time.Time
}

// Rental is one row of the evaluated board.
type Rental struct {
	Booking    rental.Booking `json:"booking"`
	Stage      status.Token   `json:"stage"`
	VehicleKey string         `json:"vehicleKey,omitempty"`
	KeySource  vehicle.Source `json:"keySource,omitempty"`
}

// Snapshot is the result of the last completed cycle.
type Snapshot struct {
	Trigger     string            `json:"trigger"`
	EvaluatedAt time.Time         `json:"evaluatedAt"`
	FetchedAt   time.Time         `json:"fetchedAt"`
	FetchError  string            `json:"fetchError,omitempty"`
	Rentals     []Rental          `json:"rentals"`
	Vehicles    []vehicle.Vehicle `json:"vehicles"`
	Report      activation.Report `json:"report"`
}

var ErrTornDown = errors.New("engine torn down during cycle")

// Engine runs evaluation cycles one at a time: on start, on every tick, on every
// refetch interval and on demand.
type Engine struct {
	source Source
	guard  *activation.Guard
	logger *zap.Logger
	cfg    Config
	keys   *vehicle.Resolver

	refresh chan struct{}

	// cycleMu serializes cycles; the cached records below are only touched under it.
	cycleMu   sync.Mutex
	rentals   []rental.Record
	vehicles  []rental.Record
	fetchedAt time.Time
	fetched   bool

	mu   sync.RWMutex
	snap Snapshot
}

func New(source Source, guard *activation.Guard, logger *zap.Logger, cfg Config) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Minute
	}
	if cfg.RefetchInterval <= 0 {
		cfg.RefetchInterval = 5 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	keys, err := vehicle.NewResolver(nil, cfg.CodePattern)
	if err != nil {
		return nil, err
	}
	return &Engine{
		source:  source,
		guard:   guard,
		logger:  logger.Named("engine"),
		cfg:     cfg,
		keys:    keys,
		refresh: make(chan struct{}, 1),
	}, nil
}

func (e *Engine) Guard() *activation.Guard { return e.guard }

// Refresh asks the running loop for a refetch. Requests made while one is pending
// collapse into it. It reports whether a new request was queued.
func (e *Engine) Refresh() bool {
	select {
	case e.refresh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Snapshot returns the last completed cycle.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Run blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.runCycle(ctx, metrics.TriggerStart, true)

	tick := time.NewTicker(e.cfg.TickInterval)
	defer tick.Stop()
	refetch := time.NewTicker(e.cfg.RefetchInterval)
	defer refetch.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			e.runCycle(ctx, metrics.TriggerTick, false)
		case <-refetch.C:
			e.runCycle(ctx, metrics.TriggerRefetch, true)
		case <-e.refresh:
			e.runCycle(ctx, metrics.TriggerManual, true)
		}
	}
}

func (e *Engine) runCycle(ctx context.Context, trigger string, refetch bool) {
	snap, err := e.Cycle(ctx, trigger, refetch)
	if errors.Is(err, ErrTornDown) {
		return
	}
	fields := []zap.Field{
		zap.String("trigger", trigger),
		zap.Int("rentals", len(snap.Rentals)),
		zap.Int("in_use", snap.Report.InUse),
		zap.Int("requested", snap.Report.Requested),
		zap.Int("failed", len(snap.Report.Failed)),
		zap.Int("unresolved", len(snap.Report.Unresolved)),
	}
	if err != nil {
		e.logger.Warn("cycle evaluated on cached records", append(fields, zap.Error(err))...)
		return
	}
	if snap.Report.Requested > 0 {
		e.logger.Info("cycle complete", fields...)
		return
	}
	e.logger.Debug("cycle complete", fields...)
}

// Cycle runs one evaluation. A fetch error is returned alongside a snapshot computed
// from the last good records. Cycles never overlap.
func (e *Engine) Cycle(ctx context.Context, trigger string, refetch bool) (Snapshot, error) {
	e.cycleMu.Lock()
	defer e.cycleMu.Unlock()

	var fetchErr error
	if refetch || !e.fetched {
		fetchErr = e.fetch(ctx)
	}
	if ctx.Err() != nil {
		return Snapshot{}, ErrTornDown
	}

	now := e.cfg.Now()
	bookings := rental.FromRecords(e.rentals, e.cfg.Location)
	vehicles := vehicle.FromRecords(e.vehicles)
	keys := e.keys.WithIndex(vehicle.NewIndex(vehicles))

	report := e.guard.EnsureActivated(ctx, bookings, now, keys)
	if ctx.Err() != nil {
		return Snapshot{}, ErrTornDown
	}

	rows := make([]Rental, 0, len(bookings))
	for _, r := range lifecycle.ResolveAll(bookings, now) {
		row := Rental{Booking: r.Booking, Stage: r.Stage}
		if key, src, ok := keys.ResolveKey(r.Booking); ok {
			row.VehicleKey, row.KeySource = string(key), src
		}
		rows = append(rows, row)
	}

	snap := Snapshot{
		Trigger:     trigger,
		EvaluatedAt: now,
		FetchedAt:   e.fetchedAt,
		Rentals:     rows,
		Vehicles:    vehicles,
		Report:      report,
	}
	if fetchErr != nil {
		snap.FetchError = fetchErr.Error()
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	metrics.EngineCyclesTotal.WithLabelValues(trigger).Inc()
	metrics.EngineLastCycleTimestamp.Set(float64(now.Unix()))
	return snap, fetchErr
}

// fetch replaces each cached collection that was read successfully.
func (e *Engine) fetch(ctx context.Context) error {
	rentals, rErr := e.source.ListRentals(ctx)
	if rErr == nil {
		e.rentals = rentals
	} else {
		metrics.EngineFetchErrorsTotal.WithLabelValues("rentals").Inc()
	}
	vehicles, vErr := e.source.ListVehicles(ctx)
	if vErr == nil {
		e.vehicles = vehicles
	} else {
		metrics.EngineFetchErrorsTotal.WithLabelValues("vehicles").Inc()
	}
	if rErr == nil && vErr == nil {
		e.fetchedAt = e.cfg.Now()
		e.fetched = true
	}
	return errors.Join(rErr, vErr)
}
