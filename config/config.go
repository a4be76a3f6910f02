// Package config loads and validates the YAML configuration file, an
// external collaborator the core consumes as an already-parsed Config
// value.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/filter"
)

// PolicyKind selects which source/engine pairing a BackupPolicy uses.
type PolicyKind string

const (
	KindGithubRepo    PolicyKind = "github/repo"
	KindGithubRelease PolicyKind = "github/release"
	KindGithubGist    PolicyKind = "github/gist"
)

// Properties carries source-specific knobs: api_url, query, refspecs.
type Properties struct {
	APIURL   string `yaml:"api_url"`
	Query    string `yaml:"query"`
	Refspecs string `yaml:"refspecs"`
}

// DefaultAPIURL is used when a policy's properties.api_url is empty.
const DefaultAPIURL = "https://api.github.com"

// EffectiveAPIURL returns the configured api_url, or DefaultAPIURL.
func (p Properties) EffectiveAPIURL() string {
	if p.APIURL == "" {
		return DefaultAPIURL
	}
	return p.APIURL
}

// BackupPolicy is one declarative item in the configuration.
type BackupPolicy struct {
	Kind        PolicyKind    `yaml:"kind"`
	From        string        `yaml:"from"`
	To          string        `yaml:"to"`
	Credentials Credentials   `yaml:"credentials"`
	Filter      filter.Filter `yaml:"filter"`
	Properties  Properties    `yaml:"properties"`
}

// DefaultTo is the default target directory root.
const DefaultTo = "./backups"

// EffectiveTo returns the configured `to`, or DefaultTo.
func (p BackupPolicy) EffectiveTo() string {
	if p.To == "" {
		return DefaultTo
	}
	return p.To
}

// Config is the fully decoded configuration file.
type Config struct {
	Schedule string         `yaml:"schedule"`
	Backups  []BackupPolicy `yaml:"backups"`
}

// configFile and policyDecode are decode-time shadows of Config and
// BackupPolicy; policyDecode's pointer Filter field lets us
// apply the default filter when the YAML omits `filter:` entirely —
// yaml.v3 does not invoke UnmarshalYAML for an absent key.
type configFile struct {
	Schedule string         `yaml:"schedule"`
	Backups  []policyDecode `yaml:"backups"`
}

type policyDecode struct {
	Kind        PolicyKind     `yaml:"kind"`
	From        string         `yaml:"from"`
	To          string         `yaml:"to"`
	Credentials Credentials    `yaml:"credentials"`
	Filter      *filter.Filter `yaml:"filter"`
	Properties  Properties     `yaml:"properties"`
}

// Load reads and decodes the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmnerr.User("cannot read configuration file", path).
			WithSuggestions("pass --config <path> or create config.yaml").
			WithCause(err)
	}
	return Parse(data)
}

// Parse decodes raw YAML bytes into a Config, applying the default
// filter (`true`) to any policy that omits one.
func Parse(data []byte) (*Config, error) {
	var raw configFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, cmnerr.User("invalid configuration file").WithCause(err)
	}

	cfg := &Config{Schedule: raw.Schedule}
	for _, p := range raw.Backups {
		bp := BackupPolicy{
			Kind:        p.Kind,
			From:        p.From,
			To:          p.To,
			Credentials: p.Credentials,
			Properties:  p.Properties,
		}
		if p.Filter != nil {
			bp.Filter = *p.Filter
		} else {
			bp.Filter = *filter.Default()
		}
		if bp.Kind == "" {
			return nil, cmnerr.User("backup policy is missing required field `kind`")
		}
		if bp.From == "" {
			return nil, cmnerr.User("backup policy is missing required field `from`", string(bp.Kind))
		}
		cfg.Backups = append(cfg.Backups, bp)
	}
	return cfg, nil
}
