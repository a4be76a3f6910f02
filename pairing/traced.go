package pairing

import (
	"context"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/log"
	"github.com/SierraSoftworks/ghbackup/sources"
)

// tracedSource wraps a Source, emitting one structured log line per
// Result it forwards. It is a supplemental feature ported from the
// original tool's TracedStream decorator: a pure pass-through that logs
// enumeration progress without the pairing engine itself needing to
// know about logging.
type tracedSource struct {
	inner  sources.Source
	policy string
}

var _ sources.Source = tracedSource{}

// Traced decorates src so its enumeration is logged under the given
// policy label (used by the scheduler, not by pairing.Run directly).
func Traced(src sources.Source, policyLabel string) sources.Source {
	return tracedSource{inner: src, policy: policyLabel}
}

func (t tracedSource) Kind() string { return t.inner.Kind() }

func (t tracedSource) Validate(policy *config.BackupPolicy) error {
	return t.inner.Validate(policy)
}

func (t tracedSource) Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan sources.Result {
	in := t.inner.Load(ctx, policy, client, cancelFlag)
	out := make(chan sources.Result)
	go func() {
		defer close(out)
		logger := log.Logger()
		for r := range in {
			if r.Err != nil {
				logger.Warn().Str("policy", t.policy).Str("source", t.inner.Kind()).Err(r.Err).Msg("enumeration error")
			} else {
				logger.Debug().Str("policy", t.policy).Str("source", t.inner.Kind()).Str("entity", r.Entity.DisplayName()).Msg("enumerated entity")
			}
			out <- r
		}
	}()
	return out
}
