// Package metrics exposes Prometheus metrics for the evaluation engine and the
// vehicle activation guard. Labels stay low-cardinality: no booking or vehicle ids.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	TriggerStart   = "start"
	TriggerTick    = "tick"
	TriggerRefetch = "refetch"
	TriggerManual  = "manual"
)

const (
	ResultActivated = "activated"
	ResultFailed    = "failed"
	ResultDiscarded = "discarded"
)

var (
	// EngineCyclesTotal counts evaluation cycles by what triggered them.
	EngineCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrent_engine_cycles_total",
		Help: "Total number of evaluation cycles, by trigger.",
	}, []string{"trigger"})

	// EngineFetchErrorsTotal counts failed ERP fetches; the cycle continues on cached records.
	EngineFetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrent_engine_fetch_errors_total",
		Help: "Total number of failed ERP fetches, by collection.",
	}, []string{"collection"})

	EngineLastCycleTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vrent_engine_last_cycle_timestamp_seconds",
		Help: "Unix time of the last completed evaluation cycle.",
	})

	// ActivationRequestsTotal counts activation requests sent to the ERP, by result.
	ActivationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrent_activation_requests_total",
		Help: "Total number of vehicle activation requests, by result.",
	}, []string{"result"})

	ActivationUnresolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vrent_activation_unresolved_total",
		Help: "Total number of in-use bookings whose vehicle key could not be resolved.",
	})

	ActivationRecordSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vrent_activation_record_size",
		Help: "Number of vehicle keys currently remembered as activated.",
	})
)
