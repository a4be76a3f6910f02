package sources

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RepoSource enumerates source repositories as bare-clone GitRepo
// entities.
type RepoSource struct{}

var _ Source = RepoSource{}

func (RepoSource) Kind() string { return "github/repo" }

func (RepoSource) Validate(policy *config.BackupPolicy) error {
	from, err := ParseFrom(policy.From)
	if err != nil {
		return err
	}
	if _, err := repoListEndpoint(from); err != nil {
		return err
	}
	return nil
}

func (s RepoSource) Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)

		from, err := ParseFrom(policy.From)
		if err != nil {
			out <- Result{Err: err}
			return
		}
		endpoint, err := repoListEndpoint(from)
		if err != nil {
			out <- Result{Err: err}
			return
		}
		url := buildURL(policy.Properties, endpoint)

		// repos/<owner>/<name> is a single-object endpoint, not a
		// paginated list.
		if from.Kind == FromRepo {
			var repo githubapi.Repo
			if err := client.Get(url, policy.Credentials.Credentials, &repo); err != nil {
				out <- Result{Err: err}
				return
			}
			entity := entities.NewGitRepo(repo.FullName, repo.CloneURL, policy.Credentials.Credentials)
			entity.Refspecs = refspecsFromProperties(policy.Properties)
			metadata.Apply(entity.Metadata, repo)
			out <- Result{Entity: entity}
			return
		}

		for page := range client.Paginate(ctx, url, policy.Credentials.Credentials, cancelFlag) {
			if page.Err != nil {
				out <- Result{Err: page.Err}
				return
			}
			var repos []githubapi.Repo
			if err := json.Unmarshal(page.Body, &repos); err != nil {
				out <- Result{Err: cmnerr.System("unparseable response", url).WithCause(err)}
				return
			}
			refspecs := refspecsFromProperties(policy.Properties)
			for _, repo := range repos {
				entity := entities.NewGitRepo(repo.FullName, repo.CloneURL, policy.Credentials.Credentials)
				entity.Refspecs = refspecs
				metadata.Apply(entity.Metadata, repo)
				out <- Result{Entity: entity}
			}
		}
	}()
	return out
}

func refspecsFromProperties(props config.Properties) []string {
	if props.Refspecs == "" {
		return nil
	}
	var specs []string
	for _, s := range strings.Split(props.Refspecs, ",") {
		if s = strings.TrimSpace(s); s != "" {
			specs = append(specs, s)
		}
	}
	return specs
}
