package monitor_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/monitor"
)

type stubCheck struct {
	name    string
	healthy bool
}

func (s *stubCheck) Name() string { return s.name }

func (s *stubCheck) Check() monitor.Status {
	return monitor.Status{Component: s.name, Healthy: s.healthy, Detail: "stubbed"}
}

func TestCollector_AggregatesAllChecks(t *testing.T) {
	c := monitor.NewCollector(zap.NewNop(),
		&stubCheck{name: "db", healthy: true},
		&stubCheck{name: "media", healthy: false},
	)

	snap := c.Collect()
	if len(snap.Statuses) != 2 {
		t.Fatalf("statuses: got %d want 2", len(snap.Statuses))
	}
	if snap.Healthy {
		t.Error("snapshot should be unhealthy when any check fails")
	}
}

func TestCollector_HealthyWhenAllChecksPass(t *testing.T) {
	c := monitor.NewCollector(zap.NewNop(), &stubCheck{name: "db", healthy: true})

	if snap := c.Collect(); !snap.Healthy {
		t.Error("snapshot should be healthy")
	}
}

func TestRuntimeCheck_PassesUnderDefaultCeiling(t *testing.T) {
	check := &monitor.RuntimeCheck{}
	if st := check.Check(); !st.Healthy {
		t.Errorf("runtime check should pass: %+v", st)
	}
}

func TestReportGenerator_RecommendsForFailingChecks(t *testing.T) {
	g := &monitor.ReportGenerator{
		Collector: monitor.NewCollector(zap.NewNop(), &stubCheck{name: "media", healthy: false}),
	}

	rep := g.Generate()
	if len(rep.Recommendations) != 1 {
		t.Fatalf("recommendations: got %d want 1", len(rep.Recommendations))
	}
}
