package entities

import (
	"github.com/SierraSoftworks/ghbackup/filter"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

// GitRepo is a remote source repository (or gist, which is backed by
// a git repo too) to be mirrored as a bare clone.
type GitRepo struct {
	Name        string
	CloneURL    string
	Credentials Credentials
	Refspecs    []string // nil means "use the engine's default"
	Metadata    *metadata.Bag
}

// NewGitRepo constructs a GitRepo with an empty metadata bag.
func NewGitRepo(name, cloneURL string, creds Credentials) *GitRepo {
	return &GitRepo{Name: name, CloneURL: cloneURL, Credentials: creds, Metadata: metadata.NewBag()}
}

// TargetPath defaults to the repo's name.
func (r *GitRepo) TargetPath() string { return r.Name }

// DisplayName renders the repo's identity for logs.
func (r *GitRepo) DisplayName() string { return r.Name }

// Get implements filter.Filterable by delegating to the metadata bag.
func (r *GitRepo) Get(key string) filter.Value { return r.Metadata.Get(key) }
