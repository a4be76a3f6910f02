// Package pairing implements the generic bounded-concurrency driver
// that binds a (Source, Policy) to a stream of entities, filters
// them, and feeds the survivors to a backup Engine, emitting one
// event per entity in completion order.
package pairing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/engines"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/sources"
)

// DefaultConcurrencyLimit is used when Config.ConcurrencyLimit is 0.
const DefaultConcurrencyLimit = 10

// Config carries the pairing engine's two run-time knobs.
type Config struct {
	DryRun bool
	// ConcurrencyLimit bounds in-flight backup tasks. 0 means "use
	// DefaultConcurrencyLimit".
	ConcurrencyLimit int
}

func (c Config) limit() int {
	if c.ConcurrencyLimit <= 0 {
		return DefaultConcurrencyLimit
	}
	return c.ConcurrencyLimit
}

// Event is one emitted outcome: either a backed-up entity with its
// resulting state, or a standalone error (enumeration failure, or a
// per-entity backup failure carrying the offending Entity).
type Event struct {
	Entity entities.Entity
	State  engines.BackupState
	Err    error
}

// Run streams Source's entities for policy through the filter and, for
// survivors, through eng.Backup — bounded to cfg.limit() concurrent
// backups — invoking onEvent for each emitted Event in completion
// order. It returns the accumulated SummaryStatistics once the run is
// fully drained.
func Run(ctx context.Context, src sources.Source, eng engines.Engine, client *githubapi.Client, policy *config.BackupPolicy, cfg Config, onEvent func(Event), cancelFlag *cancel.Flag) SummaryStatistics {
	summary := newSummaryStatistics()
	defer summary.finish()

	if err := src.Validate(policy); err != nil {
		ev := Event{Err: err}
		onEvent(ev)
		summary.record(ev)
		return summary
	}

	entityCh := src.Load(ctx, policy, client, cancelFlag)
	results := make(chan Event)

	// sema bounds in-flight backup tasks: a prefilled buffered channel
	// acquired/released around each errgroup.Group task.
	limit := cfg.limit()
	sema := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		sema <- struct{}{}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	go func() {
		defer close(results)

	loop:
		for r := range entityCh {
			if cancelFlag != nil && cancelFlag.IsSet() {
				break
			}
			if r.Err != nil {
				results <- Event{Err: r.Err}
				continue
			}
			entity := r.Entity

			if cfg.DryRun {
				results <- Event{Entity: entity, State: engines.SkippedState}
				continue
			}

			if !policy.Filter.Matches(entity) {
				results <- Event{Entity: entity, State: engines.SkippedState}
				continue
			}

			select {
			case <-sema:
			case <-groupCtx.Done():
				break loop
			}

			group.Go(func() error {
				defer func() { sema <- struct{}{} }()

				state, err := eng.Backup(ctx, entity, policy.EffectiveTo(), cancelFlag)
				if err != nil {
					results <- Event{Entity: entity, Err: err}
					return nil
				}
				results <- Event{Entity: entity, State: state}
				return nil
			})
		}

		_ = group.Wait()
	}()

	for ev := range results {
		onEvent(ev)
		summary.record(ev)
	}

	return summary
}
