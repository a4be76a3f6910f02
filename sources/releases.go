package sources

import (
	"context"
	"fmt"

	"github.com/SierraSoftworks/ghbackup/cancel"
	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
	"github.com/SierraSoftworks/ghbackup/entities"
	"github.com/SierraSoftworks/ghbackup/githubapi"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

// ReleasesSource enumerates release assets (and, when present, a
// source tarball) as HttpFile entities.
// It is a two-level stream: repos, then each repo's releases.
type ReleasesSource struct{}

var _ Source = ReleasesSource{}

func (ReleasesSource) Kind() string { return "github/release" }

func (ReleasesSource) Validate(policy *config.BackupPolicy) error {
	from, err := ParseFrom(policy.From)
	if err != nil {
		return err
	}
	if from.Kind == FromStarred {
		return cmnerr.User("`starred` cannot be used with a release backup").
			WithSuggestions("release backups require a users/<name>, orgs/<name>, or repos/<owner>/<name> selector")
	}
	if _, err := repoListEndpoint(from); err != nil {
		return err
	}
	return nil
}

func (s ReleasesSource) Load(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag) <-chan Result {
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

		if from.Kind == FromRepo {
			var repo githubapi.Repo
			if err := client.Get(url, policy.Credentials.Credentials, &repo); err != nil {
				out <- Result{Err: err}
				return
			}
			s.loadRepoReleases(ctx, policy, client, cancelFlag, repo, out)
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
			for _, repo := range repos {
				if cancelFlag != nil && cancelFlag.IsSet() {
					out <- Result{Err: cmnerr.Cancelled()}
					return
				}
				s.loadRepoReleases(ctx, policy, client, cancelFlag, repo, out)
			}
		}
	}()
	return out
}

func (s ReleasesSource) loadRepoReleases(ctx context.Context, policy *config.BackupPolicy, client *githubapi.Client, cancelFlag *cancel.Flag, repo githubapi.Repo, out chan<- Result) {
	if !repo.HasDownloads {
		return
	}

	releasesEndpoint := fmt.Sprintf("repos/%s/releases", repo.FullName)
	releasesURL := buildURL(policy.Properties, releasesEndpoint)

	for page := range client.Paginate(ctx, releasesURL, policy.Credentials.Credentials, cancelFlag) {
		if page.Err != nil {
			out <- Result{Err: page.Err}
			return
		}
		var releases []githubapi.Release
		if err := json.Unmarshal(page.Body, &releases); err != nil {
			out <- Result{Err: cmnerr.System("unparseable response", releasesURL).WithCause(err)}
			return
		}
		for _, release := range releases {
			if cancelFlag != nil && cancelFlag.IsSet() {
				out <- Result{Err: cmnerr.Cancelled()}
				return
			}

			assetCreds := policy.Credentials.Credentials.AsBasicAuth()

			if release.TarballURL != "" {
				tarball := entities.NewHttpFile(repo.Name, release.TarballURL, assetCreds)
				tarball.Path = fmt.Sprintf("%s/%s/source.tar.gz", repo.FullName, release.TagName)
				tarball.LastModified = release.PublishedTime()
				metadata.Apply(tarball.Metadata, repo, release)
				out <- Result{Entity: tarball}
			}

			for _, asset := range release.Assets {
				if asset.State != "uploaded" {
					continue
				}
				assetEntity := entities.NewHttpFile(asset.Name, asset.URL, assetCreds)
				assetEntity.Path = fmt.Sprintf("%s/%s/%s", repo.FullName, release.TagName, asset.Name)
				assetEntity.ContentType = "application/octet-stream"
				assetEntity.LastModified = asset.UpdatedTime()
				metadata.Apply(assetEntity.Metadata, repo, release, asset)
				out <- Result{Entity: assetEntity}
			}
		}
	}
}
