package monitor

import (
	"fmt"

	"go.uber.org/zap"
)

// Report is a human-readable digest of a snapshot, kept for RetentionDays.
type Report struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// ReportGenerator turns snapshots into reports. It is auto-wired: the
// container fills the tagged fields from their bindings and the batch size
// from config or the tag default.
type ReportGenerator struct {
	Log       *zap.Logger `inject:"log"`
	Collector *Collector  `inject:"monitor.collector"`
	BatchSize int         `inject:"report.batch_size,optional" default:"50"`
}

// Generate collects a fresh snapshot and derives recommendations from it.
func (g *ReportGenerator) Generate() Report {
	snap := g.Collector.Collect()

	rep := Report{
		Summary: fmt.Sprintf("%d checks, healthy=%t", len(snap.Statuses), snap.Healthy),
	}
	for _, st := range snap.Statuses {
		if !st.Healthy {
			rep.Recommendations = append(rep.Recommendations,
				fmt.Sprintf("investigate %s: %s", st.Component, st.Detail))
		}
	}
	if g.Log != nil {
		g.Log.Info("report generated",
			zap.String("summary", rep.Summary),
			zap.Int("batch_size", g.BatchSize))
	}
	return rep
}
