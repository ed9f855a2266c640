package activation

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vrent/internal/lifecycle"
	"vrent/internal/metrics"
	"vrent/internal/rental"
	"vrent/internal/status"
	"vrent/internal/vehicle"
)

// Activator applies a stage to a vehicle in the system of record. The remote endpoint
// is expected to be idempotent.
type Activator interface {
	ActivateVehicle(ctx context.Context, vehicleKey string, stage status.Token) error
}

type ActivatorFunc func(ctx context.Context, vehicleKey string, stage status.Token) error

func (f ActivatorFunc) ActivateVehicle(ctx context.Context, vehicleKey string, stage status.Token) error {
	return f(ctx, vehicleKey, stage)
}

// KeyResolver maps a booking to the vehicle it rents.
type KeyResolver interface {
	ResolveKey(b rental.Booking) (vehicle.Key, vehicle.Source, bool)
}

// Journal receives every activation attempt, successful or not.
type Journal interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

type Attempt struct {
	VehicleKey  string
	BookingID   string
	Source      vehicle.Source
	Stage       status.Token
	Result      string
	Error       string
	AttemptedAt time.Time
}

type Options struct {
	Logger  *zap.Logger
	Journal Journal
	// TargetStage defaults to the vehicle in-use stage.
	TargetStage status.Token
	// Concurrency bounds in-flight requests per cycle. Defaults to 4.
	Concurrency int
	// ReleaseEnded forgets keys whose vehicle has no active booking at the end of a
	// cycle, so the next rental of that vehicle activates it again.
	ReleaseEnded bool
}

// Guard issues at most one activation per vehicle key while the key is remembered in
// its Record. Failed requests leave the key absent and are retried by the next cycle.
type Guard struct {
	record    *Record
	activator Activator
	journal   Journal
	logger    *zap.Logger
	stage     status.Token
	limit     int
	release   bool
}

func NewGuard(record *Record, activator Activator, opts Options) *Guard {
	if record == nil {
		record = NewRecord()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TargetStage == "" {
		opts.TargetStage = status.VehicleInUse
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Guard{
		record:    record,
		activator: activator,
		journal:   opts.Journal,
		logger:    opts.Logger.Named("activation"),
		stage:     opts.TargetStage,
		limit:     opts.Concurrency,
		release:   opts.ReleaseEnded,
	}
}

func (g *Guard) Record() *Record { return g.record }

type Failure struct {
	VehicleKey string `json:"vehicleKey"`
	BookingID  string `json:"bookingId"`
	Error      string `json:"error"`
}

// Report summarizes one EnsureActivated call.
type Report struct {
	Evaluated     int       `json:"evaluated"`
	InUse         int       `json:"inUse"`
	Requested     int       `json:"requested"`
	Activated     []string  `json:"activated"`
	Failed        []Failure `json:"failed"`
	Discarded     int       `json:"discarded"`
	AlreadyActive int       `json:"alreadyActive"`
	Duplicates    int       `json:"duplicates"`
	Unresolved    []string  `json:"unresolved"`
	Released      []string  `json:"released"`
}

type pending struct {
	key       vehicle.Key
	norm      string
	bookingID string
	source    vehicle.Source
}

type outcome struct {
	pending
	err       error
	discarded bool
}

// EnsureActivated evaluates bookings in input order and requests activation for every
// vehicle whose booking resolves to exactly in-use at now. Bookings that are in use but
// already late (return-overdue) never trigger a request.
func (g *Guard) EnsureActivated(ctx context.Context, bookings []rental.Booking, now time.Time, keys KeyResolver) Report {
	rep := Report{Evaluated: len(bookings)}

	var queue []pending
	queued := map[string]bool{}
	active := map[string]bool{}

	for _, b := range bookings {
		stage := lifecycle.Resolve(b, now)
		if !lifecycle.IsActive(stage) {
			continue
		}
		key, src, ok := keys.ResolveKey(b)
		if ok {
			active[key.Normalized()] = true
		}
		if stage != status.BookingInUse {
			continue
		}
		rep.InUse++

		if !ok {
			rep.Unresolved = append(rep.Unresolved, b.ID)
			metrics.ActivationUnresolvedTotal.Inc()
			g.logger.Warn("vehicle key unresolved for in-use booking",
				zap.String("booking", b.ID),
				zap.String("vehicle_name", b.VehicleName),
				zap.String("plate", b.Plate),
			)
			continue
		}

		n := key.Normalized()
		if queued[n] {
			rep.Duplicates++
			continue
		}
		if g.record.Has(n) {
			rep.AlreadyActive++
			continue
		}
		queued[n] = true
		queue = append(queue, pending{key: key, norm: n, bookingID: b.ID, source: src})
	}

	for _, o := range g.issue(ctx, queue, now) {
		rep.Requested++
		switch {
		case o.discarded:
			rep.Discarded++
		case o.err != nil:
			rep.Failed = append(rep.Failed, Failure{VehicleKey: string(o.key), BookingID: o.bookingID, Error: o.err.Error()})
		default:
			rep.Activated = append(rep.Activated, string(o.key))
		}
	}

	if g.release && ctx.Err() == nil {
		for _, k := range g.record.Keys() {
			if active[k] {
				continue
			}
			if g.record.Remove(k) {
				rep.Released = append(rep.Released, k)
				g.logger.Info("activation released", zap.String("vehicle", k))
			}
		}
	}

	metrics.ActivationRecordSize.Set(float64(g.record.Len()))
	return rep
}

// issue sends the queued requests concurrently and returns outcomes in queue order.
func (g *Guard) issue(ctx context.Context, queue []pending, now time.Time) []outcome {
	out := make([]outcome, len(queue))
	var eg errgroup.Group
	eg.SetLimit(g.limit)
	for i, p := range queue {
		eg.Go(func() error {
			out[i] = g.activate(ctx, p, now)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (g *Guard) activate(ctx context.Context, p pending, now time.Time) outcome {
	o := outcome{pending: p}
	o.err = g.activator.ActivateVehicle(ctx, string(p.key), g.stage)

	result := metrics.ResultActivated
	switch {
	case o.err != nil:
		result = metrics.ResultFailed
		g.logger.Warn("vehicle activation failed; will retry next cycle",
			zap.String("vehicle", string(p.key)),
			zap.String("booking", p.bookingID),
			zap.Error(o.err),
		)
	case ctx.Err() != nil:
		// Torn down while the request was in flight: the response is dropped and the key
		// stays eligible.
		o.discarded = true
		result = metrics.ResultDiscarded
	default:
		g.record.Add(p.norm)
		g.logger.Info("vehicle activated",
			zap.String("vehicle", string(p.key)),
			zap.String("booking", p.bookingID),
			zap.String("source", string(p.source)),
			zap.String("stage", string(g.stage)),
		)
	}
	metrics.ActivationRequestsTotal.WithLabelValues(result).Inc()

	if g.journal != nil {
		a := Attempt{
			VehicleKey:  string(p.key),
			BookingID:   p.bookingID,
			Source:      p.source,
			Stage:       g.stage,
			Result:      result,
			AttemptedAt: now,
		}
		if o.err != nil {
			a.Error = o.err.Error()
		}
		if err := g.journal.RecordAttempt(context.WithoutCancel(ctx), a); err != nil {
			g.logger.Warn("activation journal write failed", zap.String("vehicle", string(p.key)), zap.Error(err))
		}
	}
	return o
}
