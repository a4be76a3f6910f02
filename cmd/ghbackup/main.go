// Command ghbackup runs the scheduled, declarative backup service
// described by a YAML configuration file: it mirrors source
// repositories, release assets, and gists onto the local filesystem,
// either once or on a recurring cron schedule.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/log"
	"github.com/SierraSoftworks/ghbackup/pairing"
	"github.com/SierraSoftworks/ghbackup/scheduler"
	"github.com/SierraSoftworks/ghbackup/telemetry"
)

var (
	configPath  = flag.String("config", "config.yaml", "path to the backup configuration file")
	dryRun      = flag.Bool("dry-run", false, "enumerate and filter without backing anything up")
	concurrency = flag.Int("concurrency", pairing.DefaultConcurrencyLimit, "maximum in-flight backup tasks per policy")
	logLevel    = flag.String("log-level", "info", "log verbosity: trace, debug, info, warn, error")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if err := log.SetLevel(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --log-level %q: %v\n", *logLevel, err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		printFatal(err)
		return 1
	}

	cancelFlag := cancel.New()
	installSignalHandler(cancelFlag)

	if *dryRun {
		fmt.Println("--dry-run: no artifact will be written to disk")
	}

	client := githubapi.NewClient()
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	pairingCfg := pairing.Config{DryRun: *dryRun, ConcurrencyLimit: *concurrency}

	handler := scheduler.Handler{
		OnEvent: func(policy *config.BackupPolicy, ev pairing.Event) {
			if ev.Err != nil {
				log.Logger().Error().Str("kind", string(policy.Kind)).Err(ev.Err).Msg("backup event error")
				return
			}
			log.Logger().Info().
				Str("kind", string(policy.Kind)).
				Str("entity", ev.Entity.DisplayName()).
				Str("state", ev.State.String()).
				Msg("backup event")
		},
		OnSummary: func(policy *config.BackupPolicy, summary pairing.SummaryStatistics) {
			metrics.Observe(string(policy.Kind), summary)
			fmt.Printf("%s (%s): %d new, %d updated, %d unchanged, %d skipped, %d errors\n",
				policy.From, policy.Kind, summary.New, summary.Updated, summary.Unchanged, summary.Skipped, summary.Error)
		},
	}

	if err := scheduler.Run(context.Background(), cfg, client, pairingCfg, handler, cancelFlag); err != nil {
		printFatal(err)
		return 1
	}

	return 0
}

func installSignalHandler(cancelFlag *cancel.Flag) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT)
	go func() {
		<-sig
		cancelFlag.Set()
	}()
}

func printFatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	var e *cmnerr.Error
	if errors.As(err, &e) {
		for _, s := range e.Suggestions {
			fmt.Fprintln(os.Stderr, "  -", s)
		}
	}
}
