package sources

import (
	"context"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/githubapi"
)

// Result is one item enumerated by a Source: either an Entity or a
// terminal/per-item error.
type Result struct {
	Entity entities.Entity
	Err    error
}

// Source is the capability every artifact enumerator implements (spec
// §4.7): validate a policy's shape, then lazily stream entities.
type Source interface {
	// Kind returns a short identifier string, e.g. "github/repo".
	Kind() string
	// Validate reports whether policy is well-formed for this source.
	Validate(policy *config.BackupPolicy) error
	// Load streams entities for policy. The returned channel is
	// always closed when enumeration ends (exhausted, error, or
	// cancellation).
	Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan Result
}
