package config_test

import (
	"os"
	"testing"

	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
)

func TestParseMinimalPolicy(t *testing.T) {
	yaml := `
backups:
  - kind: github/repo
    from: SierraSoftworks
`
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Backups) != 1 {
		t.Fatalf("expected 1 backup policy, got %d", len(cfg.Backups))
	}
	p := cfg.Backups[0]
	if p.Kind != config.KindGithubRepo {
		t.Errorf("Kind = %q, want github/repo", p.Kind)
	}
	if p.From != "SierraSoftworks" {
		t.Errorf("From = %q", p.From)
	}
	if p.EffectiveTo() != config.DefaultTo {
		t.Errorf("EffectiveTo() = %q, want default %q", p.EffectiveTo(), config.DefaultTo)
	}
	if p.Properties.EffectiveAPIURL() != config.DefaultAPIURL {
		t.Errorf("EffectiveAPIURL() = %q, want default %q", p.Properties.EffectiveAPIURL(), config.DefaultAPIURL)
	}
}

func TestParseAppliesDefaultFilterWhenOmitted(t *testing.T) {
	yaml := `
backups:
  - kind: github/repo
    from: SierraSoftworks
`
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f := cfg.Backups[0].Filter
	if f.Source() != "true" {
		t.Errorf("default filter source = %q, want %q", f.Source(), "true")
	}
}

func TestParseHonoursExplicitFilter(t *testing.T) {
	yaml := `
backups:
  - kind: github/repo
    from: SierraSoftworks
    filter: '!fork'
`
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cfg.Backups[0].Filter.Source(); got != "!fork" {
		t.Errorf("filter source = %q, want %q", got, "!fork")
	}
}

func TestParseMissingKindIsError(t *testing.T) {
	yaml := `
backups:
  - from: SierraSoftworks
`
	if _, err := config.Parse([]byte(yaml)); err == nil {
		t.Fatal("expected an error for a policy missing `kind`")
	}
}

func TestParseMissingFromIsError(t *testing.T) {
	yaml := `
backups:
  - kind: github/repo
`
	if _, err := config.Parse([]byte(yaml)); err == nil {
		t.Fatal("expected an error for a policy missing `from`")
	}
}

func TestParseInvalidYAMLIsError(t *testing.T) {
	if _, err := config.Parse([]byte("not: [valid: yaml")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestCredentialsTagDispatch(t *testing.T) {
	t.Setenv("GHBACKUP_TEST_TOKEN", "ghp_abc123")

	yaml := `
backups:
  - kind: github/repo
    from: a
    credentials: !Token ${GHBACKUP_TEST_TOKEN}
  - kind: github/repo
    from: b
    credentials: !UsernamePassword {username: foo, password: bar}
  - kind: github/repo
    from: c
    credentials: !None
  - kind: github/repo
    from: d
`
	cfg, err := config.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tok := cfg.Backups[0].Credentials
	if tok.Kind != entities.CredentialsToken || tok.Token != "ghp_abc123" {
		t.Errorf("policy a credentials = %+v, want expanded token", tok)
	}

	up := cfg.Backups[1].Credentials
	if up.Kind != entities.CredentialsUserPass || up.Username != "foo" || up.Password != "bar" {
		t.Errorf("policy b credentials = %+v, want username/password", up)
	}

	none := cfg.Backups[2].Credentials
	if none.Kind != entities.CredentialsNone {
		t.Errorf("policy c credentials = %+v, want None", none)
	}

	omitted := cfg.Backups[3].Credentials
	if omitted.Kind != entities.CredentialsNone {
		t.Errorf("policy d (omitted) credentials = %+v, want None", omitted)
	}
}

func TestCredentialsUnrecognisedTagIsError(t *testing.T) {
	yaml := `
backups:
  - kind: github/repo
    from: a
    credentials: !Bogus foo
`
	if _, err := config.Parse([]byte(yaml)); err == nil {
		t.Fatal("expected an error for an unrecognised credentials tag")
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := config.Load("/no/such/config.yaml"); err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	f, err := os.CreateTemp("", "ghbackup-config-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer os.Remove(f.Name())
	_, _ = f.WriteString("backups:\n  - kind: github/repo\n    from: SierraSoftworks\n")
	f.Close()

	cfg, err := config.Load(f.Name())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Backups) != 1 {
		t.Errorf("expected 1 backup policy, got %d", len(cfg.Backups))
	}
}
