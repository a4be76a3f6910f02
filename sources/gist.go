package sources

import (
	"context"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

// GistSource enumerates gists as bare-clone GitRepo entities (gists
// are themselves small git repositories).
type GistSource struct{}

var _ Source = GistSource{}

func (GistSource) Kind() string { return "github/gist" }

func (GistSource) Validate(policy *config.BackupPolicy) error {
	from, err := ParseFrom(policy.From)
	if err != nil {
		return err
	}
	if from.Kind == FromOrg {
		return cmnerr.User("gist backups cannot use an `orgs/<name>` selector")
	}
	if _, err := gistListEndpoint(from); err != nil {
		return err
	}
	return nil
}

func (s GistSource) Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)

		from, err := ParseFrom(policy.From)
		if err != nil {
			out <- Result{Err: err}
			return
		}
		endpoint, err := gistListEndpoint(from)
		if err != nil {
			out <- Result{Err: err}
			return
		}
		url := buildURL(policy.Properties, endpoint)

		// gists/<id> is a single-object endpoint, not a paginated list.
		if from.Kind == FromGist {
			var g githubapi.Gist
			if err := client.Get(url, policy.Credentials.Credentials, &g); err != nil {
				out <- Result{Err: err}
				return
			}
			out <- Result{Entity: gistToEntity(g, policy)}
			return
		}

		refspecs := refspecsFromProperties(policy.Properties)
		for page := range client.Paginate(ctx, url, policy.Credentials.Credentials, cancelFlag) {
			if page.Err != nil {
				out <- Result{Err: page.Err}
				return
			}
			var gists []githubapi.Gist
			if err := json.Unmarshal(page.Body, &gists); err != nil {
				out <- Result{Err: cmnerr.System("unparseable response", url).WithCause(err)}
				return
			}
			for _, g := range gists {
				entity := gistToEntity(g, policy)
				entity.Refspecs = refspecs
				out <- Result{Entity: entity}
			}
		}
	}()
	return out
}

func gistToEntity(g githubapi.Gist, policy *config.BackupPolicy) *entities.GitRepo {
	entity := entities.NewGitRepo(g.ID, g.GitPullURL, policy.Credentials.Credentials)
	metadata.Apply(entity.Metadata, g)
	return entity
}
