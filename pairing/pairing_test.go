package pairing_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/engines"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/filter"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/metadata"
	"github.com/SierraSoftworks/ghbackup/pairing"
	"github.com/SierraSoftworks/ghbackup/sources"
)

type fakeEntity struct {
	name string
	bag  *metadata.Bag
}

func newFakeEntity(name string, fork bool) *fakeEntity {
	bag := metadata.NewBag()
	bag.Set("fork", filter.Bool(fork))
	return &fakeEntity{name: name, bag: bag}
}

func (e *fakeEntity) TargetPath() string          { return e.name }
func (e *fakeEntity) DisplayName() string         { return e.name }
func (e *fakeEntity) Get(key string) filter.Value { return e.bag.Get(key) }

var _ entities.Entity = &fakeEntity{}

type fakeSource struct {
	entities []entities.Entity
}

var _ sources.Source = fakeSource{}

func (fakeSource) Kind() string                               { return "fake" }
func (fakeSource) Validate(policy *config.BackupPolicy) error { return nil }
func (s fakeSource) Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan sources.Result {
	out := make(chan sources.Result)
	go func() {
		defer close(out)
		for _, e := range s.entities {
			out <- sources.Result{Entity: e}
		}
	}()
	return out
}

type fakeEngine struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       int32
}

var _ engines.Engine = &fakeEngine{}

func (*fakeEngine) Kind() string { return "fake" }

func (e *fakeEngine) Backup(ctx context.Context, entity entities.Entity, toRoot string, cancelFlag *cancel.Flag) (engines.BackupState, error) {
	atomic.AddInt32(&e.calls, 1)

	e.mu.Lock()
	e.inFlight++
	if e.inFlight > e.maxInFlight {
		e.maxInFlight = e.inFlight
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight--
		e.mu.Unlock()
	}()

	time.Sleep(5 * time.Millisecond)
	return engines.BackupState{Kind: engines.New}, nil
}

func mustFilter(t *testing.T, src string) filter.Filter {
	t.Helper()
	f, err := filter.Compile(src)
	if err != nil {
		t.Fatalf("compile filter %q: %v", src, err)
	}
	return *f
}

func TestPairingFilterSkip(t *testing.T) {
	var ents []entities.Entity
	forkCount := 0
	for i := 0; i < 30; i++ {
		fork := i%3 == 0
		if fork {
			forkCount++
		}
		ents = append(ents, newFakeEntity(fmt.Sprintf("e%d", i), fork))
	}

	eng := &fakeEngine{}
	policy := &config.BackupPolicy{Filter: mustFilter(t, "!fork")}

	var events []pairing.Event
	var mu sync.Mutex
	onEvent := func(ev pairing.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}

	summary := pairing.Run(context.Background(), fakeSource{entities: ents}, eng, nil, policy, pairing.Config{}, onEvent, nil)

	if len(events) != 30 {
		t.Fatalf("got %d events, want 30", len(events))
	}
	wantNew := 30 - forkCount
	if summary.New != wantNew {
		t.Errorf("New = %d, want %d", summary.New, wantNew)
	}
	if summary.Skipped != forkCount {
		t.Errorf("Skipped = %d, want %d", summary.Skipped, forkCount)
	}
	if int(eng.calls) != wantNew {
		t.Errorf("engine invocations = %d, want %d (must equal truthy-filter count)", eng.calls, wantNew)
	}
}

func TestPairingDryRunSkipsAllWithoutInvokingEngine(t *testing.T) {
	ents := []entities.Entity{newFakeEntity("a", false), newFakeEntity("b", false)}
	eng := &fakeEngine{}
	policy := &config.BackupPolicy{Filter: mustFilter(t, "true")}

	summary := pairing.Run(context.Background(), fakeSource{entities: ents}, eng, nil, policy, pairing.Config{DryRun: true}, func(pairing.Event) {}, nil)

	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
	if eng.calls != 0 {
		t.Errorf("engine should never be invoked during a dry run, got %d calls", eng.calls)
	}
}

func TestPairingRespectsConcurrencyLimit(t *testing.T) {
	var ents []entities.Entity
	for i := 0; i < 20; i++ {
		ents = append(ents, newFakeEntity(fmt.Sprintf("e%d", i), false))
	}

	eng := &fakeEngine{}
	policy := &config.BackupPolicy{Filter: mustFilter(t, "true")}

	pairing.Run(context.Background(), fakeSource{entities: ents}, eng, nil, policy, pairing.Config{ConcurrencyLimit: 3}, func(pairing.Event) {}, nil)

	if eng.maxInFlight > 3 {
		t.Errorf("observed %d concurrent backups, want <= 3", eng.maxInFlight)
	}
}
