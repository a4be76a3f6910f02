package telemetry_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/SierraSoftworks/ghbackup/pairing"
	"github.com/SierraSoftworks/ghbackup/telemetry"
)

func TestObserveRecordsOutcomeCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	summary := pairing.SummaryStatistics{
		New:       3,
		Updated:   1,
		Unchanged: 26,
		StartedAt: time.Now().Add(-time.Second),
		EndedAt:   time.Now(),
	}
	m.Observe("github/repo", summary)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var found bool
	for _, fam := range families {
		if fam.GetName() != "ghbackup_backup_outcomes_total" {
			continue
		}
		found = true
		for _, metric := range fam.GetMetric() {
			if labelValue(metric, "outcome") == "new" && metric.GetCounter().GetValue() != 3 {
				t.Errorf("new counter = %v, want 3", metric.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Fatal("expected ghbackup_backup_outcomes_total metric family to be registered")
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}
