package engines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/entities"
)

const (
	committerNameFallback  = "ghbackup"
	committerEmailFallback = "ghbackup@sierrasoftworks.github.io"

	defaultFetchRemoteName = "origin"
)

var defaultRefspecs = []string{"+refs/heads/*:refs/remotes/origin/*"}

// GitEngine mirrors a GitRepo as a bare clone, fetching into it on
// subsequent runs.
type GitEngine struct{}

var _ Engine = GitEngine{}

func (GitEngine) Kind() string { return "git" }

func (e GitEngine) Backup(ctx context.Context, entity entities.Entity, toRoot string, cancelFlag *cancel.Flag) (BackupState, error) {
	repo, ok := entity.(*entities.GitRepo)
	if !ok {
		return BackupState{}, cmnerr.System("git engine given a non-GitRepo entity")
	}

	target := filepath.Join(toRoot, repo.TargetPath())
	if err := os.MkdirAll(target, 0o755); err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("unable to create backup directory '%s'", target)).
			WithSuggestions("make sure you have permission to create the directory").
			WithCause(err)
	}

	if _, err := os.Stat(filepath.Join(target, "HEAD")); err == nil {
		return e.fetch(ctx, repo, target, cancelFlag)
	}
	return e.clone(ctx, repo, target, cancelFlag)
}

func (e GitEngine) clone(ctx context.Context, repo *entities.GitRepo, target string, cancelFlag *cancel.Flag) (BackupState, error) {
	opts := &git.CloneOptions{
		URL:  repo.CloneURL,
		Tags: git.AllTags,
	}
	if repo.Credentials.IsSet() {
		opts.Auth = authMethod(repo.Credentials)
	}

	r, err := git.PlainCloneContext(ctx, target, true, opts)
	if err != nil {
		return BackupState{}, cmnerr.System(fmt.Sprintf("unable to clone remote repository '%s'", repo.CloneURL)).
			WithSuggestions("make sure your internet connectivity is working correctly, and that your local git configuration is able to clone this repo").
			WithCause(err)
	}

	if cancelFlag != nil && cancelFlag.IsSet() {
		return SkippedState, nil
	}

	if err := e.ensureCommitter(r); err != nil {
		return BackupState{}, err
	}
	if err := e.ensureBare(r, repo); err != nil {
		return BackupState{}, err
	}

	head, err := r.Head()
	if err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("the repository '%s' did not have a valid HEAD, which may indicate that there is something wrong with the source repository", repo.CloneURL)).
			WithSuggestions("make sure that the remote repository is valid").
			WithCause(err)
	}

	return stateNew("at " + head.Hash().String()), nil
}

func (e GitEngine) fetch(ctx context.Context, repo *entities.GitRepo, target string, cancelFlag *cancel.Flag) (BackupState, error) {
	r, err := git.PlainOpen(target)
	if err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("failed to open the repository '%s' at '%s'", repo.CloneURL, target)).
			WithSuggestions("make sure that the target directory is a valid git repository").
			WithCause(err)
	}

	if err := e.ensureCommitter(r); err != nil {
		return BackupState{}, err
	}

	var originalHead *string
	if head, err := r.Head(); err == nil {
		s := head.Hash().String()
		originalHead = &s
	}

	remote, err := e.findOrCreateRemote(r, repo)
	if err != nil {
		return BackupState{}, err
	}

	refspecs := repo.Refspecs
	if len(refspecs) == 0 {
		refspecs = defaultRefspecs
	}
	rs := make([]config.RefSpec, 0, len(refspecs))
	for _, s := range refspecs {
		rs = append(rs, config.RefSpec(s))
	}

	fetchOpts := &git.FetchOptions{
		RemoteName: remote.Config().Name,
		RefSpecs:   rs,
		Tags:       git.AllTags,
		Force:      true,
	}
	if repo.Credentials.IsSet() {
		fetchOpts.Auth = authMethod(repo.Credentials)
	}

	if cancelFlag != nil && cancelFlag.IsSet() {
		return SkippedState, nil
	}

	if err := r.FetchContext(ctx, fetchOpts); err != nil && err != git.NoErrAlreadyUpToDate {
		return BackupState{}, cmnerr.User(fmt.Sprintf("unable to fetch from remote git repository '%s'", repo.CloneURL)).
			WithSuggestions("make sure that the repository is available and correctly configured").
			WithCause(err)
	}

	head, err := r.Head()
	if err != nil {
		return BackupState{}, cmnerr.User(fmt.Sprintf("the repository '%s' did not have a valid HEAD, which may indicate that there is something wrong with the source repository", repo.CloneURL)).
			WithSuggestions("make sure that the remote repository is valid").
			WithCause(err)
	}
	newHead := head.Hash().String()

	if originalHead != nil && *originalHead == newHead {
		return stateUnchanged("at " + newHead), nil
	}
	return stateUpdated(newHead), nil
}

func (e GitEngine) findOrCreateRemote(r *git.Repository, repo *entities.GitRepo) (*git.Remote, error) {
	remote, err := r.Remote(defaultFetchRemoteName)
	if err == nil {
		return remote, nil
	}
	return r.CreateRemote(&config.RemoteConfig{
		Name: defaultFetchRemoteName,
		URLs: []string{repo.CloneURL},
	})
}

// ensureCommitter sets a fallback committer identity if the
// repository's local config doesn't carry one already.
func (e GitEngine) ensureCommitter(r *git.Repository) error {
	cfg, err := r.Config()
	if err != nil {
		return cmnerr.System("unable to load git configuration for repository").WithCause(err)
	}
	if cfg.User.Name != "" || cfg.User.Email != "" {
		return nil
	}
	cfg.User.Name = committerNameFallback
	cfg.User.Email = committerEmailFallback
	if err := r.SetConfig(cfg); err != nil {
		return cmnerr.System("unable to write git configuration for repository").WithCause(err)
	}
	return nil
}

// ensureBare sets core.bare=true in the local config, matching the
// post-clone rewrite the upstream backup tool performs.
func (e GitEngine) ensureBare(r *git.Repository, repo *entities.GitRepo) error {
	cfg, err := r.Config()
	if err != nil {
		return cmnerr.System(fmt.Sprintf("unable to load git configuration for repository '%s'", repo.Name)).WithCause(err)
	}
	cfg.Core.IsBare = true
	if err := r.SetConfig(cfg); err != nil {
		return cmnerr.System(fmt.Sprintf("unable to set the 'core.bare' configuration option for repository '%s'", repo.Name)).
			WithSuggestions("make sure the git repository has been correctly initialized").
			WithCause(err)
	}
	return nil
}

// authMethod rewrites Credentials into a go-git transport.AuthMethod:
// Token becomes HTTP basic auth with the token as the username and an
// empty password, UsernamePassword is passed through directly.
func authMethod(creds entities.Credentials) transport.AuthMethod {
	basic := creds.AsBasicAuth()
	return &githttp.BasicAuth{Username: basic.Username, Password: basic.Password}
}
