package sources

import (
	"strings"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/config"
)

// repoListEndpoint implements the "source-kind x Repo/Release"
// half of the from-selector-to-endpoint table.
func repoListEndpoint(from From) (string, error) {
	switch from.Kind {
	case FromCurrentUser:
		return "user/repos", nil
	case FromUser:
		return "users/" + from.Name + "/repos", nil
	case FromOrg:
		return "orgs/" + from.Name + "/repos", nil
	case FromRepo:
		return "repos/" + from.OwnerRepo(), nil
	case FromStarred:
		return "user/starred", nil
	default:
		return "", cmnerr.User("`from` selector is not valid for a repository or release backup")
	}
}

// gistListEndpoint implements the "source-kind x Gist" half of the
// table.
func gistListEndpoint(from From) (string, error) {
	switch from.Kind {
	case FromCurrentUser:
		return "gists", nil
	case FromUser:
		return "users/" + from.Name + "/gists", nil
	case FromGist:
		return "gists/" + from.Name, nil
	case FromStarred:
		return "gists/starred", nil
	case FromOrg:
		return "", cmnerr.User("gist backups cannot use an `orgs/<name>` selector").
			WithSuggestions("use user, users/<name>, gists/<id>, or starred")
	default:
		return "", cmnerr.User("`from` selector is not valid for a gist backup")
	}
}

// buildURL joins api_url, endpoint and an optional query string,
// trimming a trailing '?' when query is empty.
func buildURL(props config.Properties, endpoint string) string {
	base := strings.TrimRight(props.EffectiveAPIURL(), "/")
	url := base + "/" + endpoint + "?" + props.Query
	return strings.TrimRight(url, "?")
}
