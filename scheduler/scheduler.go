// Package scheduler implements the cron-driven run loop:
// one pass over every configured policy, repeated on the configured
// cron schedule (or exactly once, if none is configured), cooperating
// with the shared cancellation flag the way every other suspension
// point in this service does.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/engines"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/log"
	"github.com/SierraSoftworks/ghbackup/pairing"
	"github.com/SierraSoftworks/ghbackup/sources"
)

// pollInterval is how often the sleep loop wakes up to re-check the
// cancellation flag and the next scheduled run time, in ~500ms increments.
const pollInterval = 500 * time.Millisecond

// Handler receives events and per-policy summaries as each policy's
// pairing run progresses.
type Handler struct {
	OnEvent   func(policy *config.BackupPolicy, ev pairing.Event)
	OnSummary func(policy *config.BackupPolicy, summary pairing.SummaryStatistics)
}

// Run executes cfg's policies, once per cron occurrence (or exactly
// once if cfg.Schedule is empty), until cancelFlag is set.
func Run(ctx context.Context, cfg *config.Config, client *githubapi.Client, pairingCfg pairing.Config, handler Handler, cancelFlag *cancel.Flag) error {
	var schedule cron.Schedule
	if cfg.Schedule != "" {
		s, err := cron.ParseStandard(cfg.Schedule)
		if err != nil {
			return cmnerr.User("invalid cron schedule '" + cfg.Schedule + "'").
				WithSuggestions("use a standard 5-field cron expression, e.g. '0 3 * * *'").
				WithCause(err)
		}
		schedule = s
	}

	for {
		runOnce(ctx, cfg, client, pairingCfg, handler, cancelFlag)

		if cancelFlag != nil && cancelFlag.IsSet() {
			return nil
		}
		if schedule == nil {
			return nil
		}

		nextRun := schedule.Next(time.Now())
		for time.Now().Before(nextRun) {
			if cancelFlag != nil && cancelFlag.IsSet() {
				return nil
			}
			time.Sleep(pollInterval)
		}
	}
}

func runOnce(ctx context.Context, cfg *config.Config, client *githubapi.Client, pairingCfg pairing.Config, handler Handler, cancelFlag *cancel.Flag) {
	for i := range cfg.Backups {
		if cancelFlag != nil && cancelFlag.IsSet() {
			return
		}
		policy := &cfg.Backups[i]

		src, eng, err := dispatch(policy.Kind)
		if err != nil {
			log.Logger().Error().Str("kind", string(policy.Kind)).Err(err).Msg("unable to dispatch backup policy")
			if handler.OnEvent != nil {
				handler.OnEvent(policy, pairing.Event{Err: err})
			}
			continue
		}

		log.Logger().Info().Str("kind", string(policy.Kind)).Str("from", policy.From).Msg("starting backup policy run")

		onEvent := func(ev pairing.Event) {
			if handler.OnEvent != nil {
				handler.OnEvent(policy, ev)
			}
		}
		tracedSrc := pairing.Traced(src, policy.From)
		summary := pairing.Run(ctx, tracedSrc, eng, client, policy, pairingCfg, onEvent, cancelFlag)
		if handler.OnSummary != nil {
			handler.OnSummary(policy, summary)
		}
	}
}

// dispatch selects the (Source, Engine) pairing for a policy kind:
// github/repo and github/gist both back up GitRepo entities via the
// git engine; github/release backs up HttpFile entities via the
// HTTP-file engine.
func dispatch(kind config.PolicyKind) (sources.Source, engines.Engine, error) {
	switch kind {
	case config.KindGithubRepo:
		return sources.RepoSource{}, engines.GitEngine{}, nil
	case config.KindGithubGist:
		return sources.GistSource{}, engines.GitEngine{}, nil
	case config.KindGithubRelease:
		return sources.ReleasesSource{}, engines.NewHttpFileEngine(), nil
	default:
		return nil, nil, cmnerr.User("unrecognised backup policy kind '" + string(kind) + "'").
			WithSuggestions("kind must be one of github/repo, github/release, github/gist")
	}
}
