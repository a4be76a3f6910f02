package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/filter"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/sources"
)

func TestParseFromValidSelectors(t *testing.T) {
	cases := []struct {
		selector string
		want     sources.From
	}{
		{"user", sources.From{Kind: sources.FromCurrentUser}},
		{"starred", sources.From{Kind: sources.FromStarred}},
		{"users/torvalds", sources.From{Kind: sources.FromUser, Name: "torvalds"}},
		{"orgs/SierraSoftworks", sources.From{Kind: sources.FromOrg, Name: "SierraSoftworks"}},
		{"repos/SierraSoftworks/grey", sources.From{Kind: sources.FromRepo, Owner: "SierraSoftworks", Repo: "grey"}},
		{"gists/abc123", sources.From{Kind: sources.FromGist, Name: "abc123"}},
	}
	for _, c := range cases {
		got, err := sources.ParseFrom(c.selector)
		if err != nil {
			t.Errorf("ParseFrom(%q): %v", c.selector, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseFrom(%q) = %+v, want %+v", c.selector, got, c.want)
		}
	}
}

func TestParseFromInvalidSelectors(t *testing.T) {
	invalid := []string{
		"",
		"bogus",
		"users/",
		"orgs/",
		"gists/",
		"repos/onlyowner",
		"repos/owner/",
		"repos//name",
	}
	for _, s := range invalid {
		if _, err := sources.ParseFrom(s); err == nil {
			t.Errorf("ParseFrom(%q) expected an error", s)
		}
	}
}

func TestOwnerRepo(t *testing.T) {
	f := sources.From{Kind: sources.FromRepo, Owner: "SierraSoftworks", Repo: "grey"}
	if got := f.OwnerRepo(); got != "SierraSoftworks/grey" {
		t.Errorf("OwnerRepo() = %q, want %q", got, "SierraSoftworks/grey")
	}
}

func TestGistSourceRejectsOrgSelector(t *testing.T) {
	policy := &config.BackupPolicy{Kind: config.KindGithubGist, From: "orgs/SierraSoftworks"}
	if err := (sources.GistSource{}).Validate(policy); err == nil {
		t.Fatal("expected gist Validate to reject an orgs/<name> selector")
	}
}

func TestGistSourceAcceptsUserSelector(t *testing.T) {
	policy := &config.BackupPolicy{Kind: config.KindGithubGist, From: "users/torvalds"}
	if err := (sources.GistSource{}).Validate(policy); err != nil {
		t.Errorf("expected gist Validate to accept a users/<name> selector: %v", err)
	}
}

func TestReleasesSourceRejectsStarredSelector(t *testing.T) {
	policy := &config.BackupPolicy{Kind: config.KindGithubRelease, From: "starred"}
	if err := (sources.ReleasesSource{}).Validate(policy); err == nil {
		t.Fatal("expected releases Validate to reject a starred selector")
	}
}

func TestReleasesSourceAcceptsRepoSelector(t *testing.T) {
	policy := &config.BackupPolicy{Kind: config.KindGithubRelease, From: "repos/SierraSoftworks/grey"}
	if err := (sources.ReleasesSource{}).Validate(policy); err != nil {
		t.Errorf("expected releases Validate to accept a repos/<owner>/<name> selector: %v", err)
	}
}

func TestRepoSourceRejectsMalformedFrom(t *testing.T) {
	policy := &config.BackupPolicy{Kind: config.KindGithubRepo, From: "bogus"}
	if err := (sources.RepoSource{}).Validate(policy); err == nil {
		t.Fatal("expected repo Validate to reject an unrecognised from selector")
	}
}

func TestRepoSourceLoadsSingleRepoObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"grey","full_name":"SierraSoftworks/grey","clone_url":"https://example.invalid/SierraSoftworks/grey.git"}`))
	}))
	defer srv.Close()

	policy := &config.BackupPolicy{
		Kind:       config.KindGithubRepo,
		From:       "repos/SierraSoftworks/grey",
		Filter:     *filter.Default(),
		Properties: config.Properties{APIURL: srv.URL},
	}

	client := githubapi.NewClient()
	results := (sources.RepoSource{}).Load(context.Background(), policy, client, nil)

	var got []sources.Result
	for r := range results {
		got = append(got, r)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one entity from a single-object endpoint, got %d", len(got))
	}
	if got[0].Err != nil {
		t.Fatalf("unexpected error decoding single-object repo response: %v", got[0].Err)
	}
	repo, ok := got[0].Entity.(*entities.GitRepo)
	if !ok {
		t.Fatalf("expected *entities.GitRepo, got %T", got[0].Entity)
	}
	if repo.DisplayName() != "SierraSoftworks/grey" {
		t.Errorf("DisplayName() = %q, want %q", repo.DisplayName(), "SierraSoftworks/grey")
	}
}

func TestSourceKindIdentifiers(t *testing.T) {
	if got := (sources.RepoSource{}).Kind(); got != "github/repo" {
		t.Errorf("RepoSource.Kind() = %q", got)
	}
	if got := (sources.GistSource{}).Kind(); got != "github/gist" {
		t.Errorf("GistSource.Kind() = %q", got)
	}
	if got := (sources.ReleasesSource{}).Kind(); got != "github/release" {
		t.Errorf("ReleasesSource.Kind() = %q", got)
	}
}
