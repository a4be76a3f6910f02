package githubapi

import (
	"time"

	"github.com/SierraSoftworks/ghbackup/filter"
	"github.com/SierraSoftworks/ghbackup/metadata"
)

// Repo mirrors the subset of a GitHub-compatible "repository" JSON
// object this tool cares about.
type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Size          int64  `json:"size"`
	Archived      bool   `json:"archived"`
	Disabled      bool   `json:"disabled"`
	DefaultBranch string `json:"default_branch"`
	IsTemplate    bool   `json:"is_template"`
	HasDownloads  bool   `json:"has_downloads"`
	ForksCount    int64  `json:"forks_count"`
	Stargazers    int64  `json:"stargazers_count"`
	CloneURL      string `json:"clone_url"`
}

// empty reports whether the repository has zero size, the API's
// proxy for "empty repository" (no default branch / no commits).
func (r Repo) empty() bool { return r.Size == 0 }

// InjectMetadata implements metadata.Source.
func (r Repo) InjectMetadata(bag *metadata.Bag) {
	bag.Set("name", filter.String(r.Name))
	bag.Set("full_name", filter.String(r.FullName))
	bag.Set("private", filter.Bool(r.Private))
	bag.Set("public", filter.Bool(!r.Private))
	bag.Set("fork", filter.Bool(r.Fork))
	bag.Set("size", filter.Int(int(r.Size)))
	bag.Set("archived", filter.Bool(r.Archived))
	bag.Set("disabled", filter.Bool(r.Disabled))
	bag.Set("default_branch", filter.String(r.DefaultBranch))
	bag.Set("empty", filter.Bool(r.empty()))
	bag.Set("template", filter.Bool(r.IsTemplate))
	bag.Set("forks", filter.Int(int(r.ForksCount)))
	bag.Set("stargazers", filter.Int(int(r.Stargazers)))
}

// Release mirrors a GitHub-compatible "release" JSON object.
type Release struct {
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	Draft       bool           `json:"draft"`
	Prerelease  bool           `json:"prerelease"`
	PublishedAt *string        `json:"published_at"`
	TarballURL  string         `json:"tarball_url"`
	Assets      []ReleaseAsset `json:"assets"`
}

// InjectMetadata implements metadata.Source.
func (r Release) InjectMetadata(bag *metadata.Bag) {
	bag.Set("tag", filter.String(r.TagName))
	bag.Set("name", filter.String(r.Name))
	bag.Set("draft", filter.Bool(r.Draft))
	bag.Set("prerelease", filter.Bool(r.Prerelease))
	bag.Set("published", filter.FromOptionalString(r.PublishedAt))
}

// PublishedTime parses PublishedAt as RFC3339, if present.
func (r Release) PublishedTime() *time.Time {
	if r.PublishedAt == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *r.PublishedAt)
	if err != nil {
		return nil
	}
	return &t
}

// ReleaseAsset mirrors a GitHub-compatible release asset JSON object.
type ReleaseAsset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	State              string `json:"state"`
	ContentType        string `json:"content_type"`
	UpdatedAt          string `json:"updated_at"`
	BrowserDownloadURL string `json:"browser_download_url"`
	URL                string `json:"url"`
}

// InjectMetadata implements metadata.Source.
func (a ReleaseAsset) InjectMetadata(bag *metadata.Bag) {
	bag.Set("name", filter.String(a.Name))
	bag.Set("size", filter.Int(int(a.Size)))
	downloaded := false
	bag.Set("downloaded", filter.Bool(downloaded))
}

// UpdatedTime parses UpdatedAt as RFC3339.
func (a ReleaseAsset) UpdatedTime() *time.Time {
	if a.UpdatedAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, a.UpdatedAt)
	if err != nil {
		return nil
	}
	return &t
}

// Gist mirrors a GitHub-compatible "gist" JSON object.
type Gist struct {
	ID         string              `json:"id"`
	GitPullURL string              `json:"git_pull_url"`
	Public     bool                `json:"public"`
	Comments   int64               `json:"comments"`
	Forks      []GistFork          `json:"forks"`
	Files      map[string]GistFile `json:"files"`
}

// GistFork mirrors one entry in a Gist's "forks" array.
type GistFork struct {
	ID string `json:"id"`
}

// GistFile is one file entry within a Gist's "files" map.
type GistFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Type     string `json:"type"`
}

// InjectMetadata implements metadata.Source.
func (g Gist) InjectMetadata(bag *metadata.Bag) {
	bag.Set("public", filter.Bool(g.Public))
	bag.Set("private", filter.Bool(!g.Public))
	bag.Set("comments_enabled", filter.Bool(true))
	bag.Set("comments", filter.Int(int(g.Comments)))
	bag.Set("files", filter.Int(len(g.Files)))
	bag.Set("forks", filter.Int(len(g.Forks)))

	names := make([]string, 0, len(g.Files))
	languages := make([]string, 0, len(g.Files))
	types := make([]string, 0, len(g.Files))
	for _, f := range g.Files {
		names = append(names, f.Filename)
		if f.Language != "" {
			languages = append(languages, f.Language)
		}
		if f.Type != "" {
			types = append(types, f.Type)
		}
	}
	bag.Set("file_names", filter.FromStrings(names))
	bag.Set("languages", filter.FromStrings(languages))
	bag.Set("type", filter.FromStrings(types))
}
