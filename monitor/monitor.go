// Package monitor holds the health-check services the admin plugin exposes.
// Everything here is plain business glue: services are registered into the
// container by providers and consumed through its Get contract.
package monitor

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Status is the outcome of one subsystem check.
type Status struct {
	Component string `json:"component"`
	Healthy   bool   `json:"healthy"`
	Detail    string `json:"detail,omitempty"`
}

// Checker is one health probe (database stats, media scan, runtime, ...).
type Checker interface {
	Name() string
	Check() Status
}

// Snapshot aggregates every check's outcome at one point in time.
type Snapshot struct {
	TakenAt  time.Time `json:"taken_at"`
	Healthy  bool      `json:"healthy"`
	Statuses []Status  `json:"statuses"`
}

// Collector runs the registered checkers and aggregates their results.
type Collector struct {
	log      *zap.Logger
	checkers []Checker
}

func NewCollector(log *zap.Logger, checkers ...Checker) *Collector {
	return &Collector{log: log, checkers: checkers}
}

// Collect runs every checker and returns the aggregated snapshot.
func (c *Collector) Collect() Snapshot {
	snap := Snapshot{TakenAt: time.Now(), Healthy: true}
	for _, ch := range c.checkers {
		st := ch.Check()
		if !st.Healthy {
			snap.Healthy = false
			c.log.Warn("health check failed",
				zap.String("component", st.Component),
				zap.String("detail", st.Detail))
		}
		snap.Statuses = append(snap.Statuses, st)
	}
	return snap
}

// RuntimeCheck reports on the Go runtime itself. It flags the process as
// unhealthy when the goroutine count crosses the configured ceiling.
type RuntimeCheck struct {
	MaxGoroutines int
}

func (r *RuntimeCheck) Name() string { return "runtime" }

func (r *RuntimeCheck) Check() Status {
	max := r.MaxGoroutines
	if max == 0 {
		max = 10_000
	}
	n := runtime.NumGoroutine()
	st := Status{Component: "runtime", Healthy: n <= max}
	if !st.Healthy {
		st.Detail = "goroutine count above ceiling"
	}
	return st
}
