package pairing

import (
	"time"

	"github.com/SierraSoftworks/ghbackup/engines"
)

// SummaryStatistics tallies the outcomes of one pairing run (spec
// §4.10 step 6).
type SummaryStatistics struct {
	New       int
	Unchanged int
	Updated   int
	Skipped   int
	Error     int
	StartedAt time.Time
	EndedAt   time.Time
}

func newSummaryStatistics() SummaryStatistics {
	return SummaryStatistics{StartedAt: time.Now()}
}

func (s *SummaryStatistics) record(ev Event) {
	if ev.Err != nil {
		s.Error++
		return
	}
	switch ev.State.Kind {
	case engines.New:
		s.New++
	case engines.Updated:
		s.Updated++
	case engines.Unchanged:
		s.Unchanged++
	default:
		s.Skipped++
	}
}

func (s *SummaryStatistics) finish() {
	s.EndedAt = time.Now()
}

// Total returns the number of events the run emitted.
func (s SummaryStatistics) Total() int {
	return s.New + s.Unchanged + s.Updated + s.Skipped + s.Error
}

// Duration is the wall-clock time the run took.
func (s SummaryStatistics) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}
