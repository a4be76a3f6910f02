package engines_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SierraSoftworks/ghbackup/engines"
	"github.com/SierraSoftworks/ghbackup/entities"
)

func TestGitEngineKind(t *testing.T) {
	if got := (engines.GitEngine{}).Kind(); got != "git" {
		t.Errorf("Kind() = %q, want %q", got, "git")
	}
}

func TestGitEngineRejectsWrongEntityType(t *testing.T) {
	e := engines.GitEngine{}
	file := entities.NewHttpFile("asset", "https://example.invalid/asset", entities.NoCredentials())

	_, err := e.Backup(context.Background(), file, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected an error when given a non-GitRepo entity")
	}
}

// TestGitEngineClonesAndFetches exercises the full clone-then-fetch
// cycle against a real remote, checking the idempotency property:
// New(..) then Unchanged(..) with matching head ids. It requires
// network access.
func TestGitEngineClonesAndFetches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network-dependent test in short mode")
	}

	target := t.TempDir()
	repo := entities.NewGitRepo("SierraSoftworks/grey", "https://github.com/SierraSoftworks/grey.git", entities.NoCredentials())

	e := engines.GitEngine{}
	state1, err := e.Backup(context.Background(), repo, target, nil)
	if err != nil {
		t.Fatalf("initial backup to succeed (clone): %v", err)
	}
	if state1.Kind != engines.New {
		t.Errorf("first backup state = %v, want New", state1)
	}
	if _, err := os.Stat(filepath.Join(target, repo.TargetPath(), "HEAD")); err != nil {
		t.Errorf("expected a bare repository to have been created: %v", err)
	}

	state2, err := e.Backup(context.Background(), repo, target, nil)
	if err != nil {
		t.Fatalf("subsequent backup to succeed (fetch): %v", err)
	}
	if state2.Kind != engines.Unchanged {
		t.Errorf("second backup state = %v, want Unchanged", state2)
	}
	if state2.Detail != state1.Detail {
		t.Errorf("second backup head = %q, want the first backup's %q", state2.Detail, state1.Detail)
	}
}
