package engines_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SierraSoftworks/ghbackup/engines"
	"github.com/SierraSoftworks/ghbackup/entities"
)

func TestHttpFileEngineNewThenUnchangedByContent(t *testing.T) {
	body := []byte("the quick brown fox jumps over the lazy dog, 1024 times over")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	target := t.TempDir()
	file := entities.NewHttpFile("asset.bin", srv.URL, entities.NoCredentials())

	e := engines.NewHttpFileEngine()

	state1, err := e.Backup(context.Background(), file, target, nil)
	if err != nil {
		t.Fatalf("first backup: %v", err)
	}
	if state1.Kind != engines.New {
		t.Errorf("first backup state = %v, want New", state1)
	}
	if !strings.HasPrefix(state1.Detail, "at sha256:") {
		t.Errorf("first backup detail = %q, want prefix 'at sha256:'", state1.Detail)
	}

	targetPath := filepath.Join(target, file.TargetPath())
	if _, err := os.Stat(targetPath); err != nil {
		t.Errorf("expected target file to exist: %v", err)
	}
	if _, err := os.Stat(targetPath + ".sha256"); err != nil {
		t.Errorf("expected sha256 sidecar to exist: %v", err)
	}

	state2, err := e.Backup(context.Background(), file, target, nil)
	if err != nil {
		t.Fatalf("second backup: %v", err)
	}
	if state2.Kind != engines.Unchanged {
		t.Errorf("second backup state = %v, want Unchanged", state2)
	}
	if _, err := os.Stat(targetPath + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected no leftover .tmp file, stat err = %v", err)
	}
}

func TestHttpFileEngineLastModifiedShortCircuit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("should not be fetched"))
	}))
	defer srv.Close()

	target := t.TempDir()
	file := entities.NewHttpFile("asset.bin", srv.URL, entities.NoCredentials())

	targetPath := filepath.Join(target, file.TargetPath())
	if err := os.WriteFile(targetPath, []byte("existing contents"), 0o644); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-1 * time.Hour)
	file.LastModified = &past

	e := engines.NewHttpFileEngine()
	state, err := e.Backup(context.Background(), file, target, nil)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if state.Kind != engines.Unchanged {
		t.Errorf("state = %v, want Unchanged", state)
	}
	if called {
		t.Error("expected no network call when local mtime >= last_modified")
	}
}

func TestHttpFileEngineNewDetailUsesLastModified(t *testing.T) {
	body := []byte("payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	target := t.TempDir()
	file := entities.NewHttpFile("asset.bin", srv.URL, entities.NoCredentials())
	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	file.LastModified = &published

	e := engines.NewHttpFileEngine()
	state, err := e.Backup(context.Background(), file, target, nil)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if state.Kind != engines.New {
		t.Errorf("state = %v, want New", state)
	}
	want := "at " + published.Format(time.RFC3339)
	if state.Detail != want {
		t.Errorf("detail = %q, want %q", state.Detail, want)
	}
}

func TestHttpFileEngineRejectsWrongEntityType(t *testing.T) {
	e := engines.NewHttpFileEngine()
	repo := entities.NewGitRepo("o/r", "https://example.invalid/o/r.git", entities.NoCredentials())

	_, err := e.Backup(context.Background(), repo, t.TempDir(), nil)
	if err == nil {
		t.Fatal("expected an error when given a non-HttpFile entity")
	}
}
