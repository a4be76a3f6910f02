// Package engines implements the two backup engines:
// mirroring a GitRepo via a bare clone/fetch, and mirroring an
// HttpFile via a streaming download with mtime/content short-circuits.
package engines

import (
	"context"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/entities"
)

// StateKind tags the outcome a backup attempt reports.
type StateKind int

const (
	Skipped StateKind = iota
	New
	Updated
	Unchanged
)

func (k StateKind) String() string {
	switch k {
	case New:
		return "new"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	default:
		return "skipped"
	}
}

// BackupState is the result of one engine.Backup call: a state tag
// plus an optional short human-readable detail.
type BackupState struct {
	Kind   StateKind
	Detail string
}

func (s BackupState) String() string {
	if s.Detail == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + " (" + s.Detail + ")"
}

// Equal compares two states by kind and detail; used for equality
// checks in tests.
func (s BackupState) Equal(other BackupState) bool {
	return s.Kind == other.Kind && s.Detail == other.Detail
}

func stateNew(detail string) BackupState       { return BackupState{Kind: New, Detail: detail} }
func stateUpdated(detail string) BackupState   { return BackupState{Kind: Updated, Detail: detail} }
func stateUnchanged(detail string) BackupState { return BackupState{Kind: Unchanged, Detail: detail} }

// SkippedState is returned whenever a cancellation flag is observed
// mid-operation.
var SkippedState = BackupState{Kind: Skipped}

// Engine backs up one entity kind into a root directory, honouring a
// shared cancellation flag and returning the resulting BackupState.
type Engine interface {
	// Kind identifies the engine, e.g. "git" or "http".
	Kind() string
	// Backup mirrors entity under toRoot, honouring cancelFlag. entity
	// must be the concrete type this engine handles (*entities.GitRepo
	// for the git engine, *entities.HttpFile for the HTTP-file engine);
	// a mismatched type is a caller bug and is reported as a system error.
	Backup(ctx context.Context, entity entities.Entity, toRoot string, cancelFlag *cancel.Flag) (BackupState, error)
}
