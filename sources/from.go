// Package sources implements the three lazy, paginated entity sources a
// backup policy can select from: repositories, gists, and releases.
package sources

import (
	"strings"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
)

// FromKind tags the parsed shape of a policy's `from` selector.
type FromKind int

const (
	FromCurrentUser FromKind = iota
	FromUser
	FromOrg
	FromRepo
	FromGist
	FromStarred
)

// From is the parsed `from` selector: `user`, `users/<name>`,
// `orgs/<name>`, `repos/<owner>/<name>`, `gists/<id>`, or `starred`.
type From struct {
	Kind  FromKind
	Name  string // user/org name, or gist id
	Owner string // for FromRepo only
	Repo  string // for FromRepo only
}

// ParseFrom parses a policy's `from` field. Invalid shapes are a
// user-kind error.
func ParseFrom(s string) (From, error) {
	switch {
	case s == "user":
		return From{Kind: FromCurrentUser}, nil
	case s == "starred":
		return From{Kind: FromStarred}, nil
	case strings.HasPrefix(s, "users/"):
		name := strings.TrimPrefix(s, "users/")
		if name == "" {
			return From{}, cmnerr.User("`from: users/<name>` is missing a user name", s)
		}
		return From{Kind: FromUser, Name: name}, nil
	case strings.HasPrefix(s, "orgs/"):
		name := strings.TrimPrefix(s, "orgs/")
		if name == "" {
			return From{}, cmnerr.User("`from: orgs/<name>` is missing an org name", s)
		}
		return From{Kind: FromOrg, Name: name}, nil
	case strings.HasPrefix(s, "repos/"):
		rest := strings.TrimPrefix(s, "repos/")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return From{}, cmnerr.User("`from: repos/<owner>/<name>` is malformed", s)
		}
		return From{Kind: FromRepo, Owner: parts[0], Repo: parts[1]}, nil
	case strings.HasPrefix(s, "gists/"):
		id := strings.TrimPrefix(s, "gists/")
		if id == "" {
			return From{}, cmnerr.User("`from: gists/<id>` is missing a gist id", s)
		}
		return From{Kind: FromGist, Name: id}, nil
	default:
		return From{}, cmnerr.User("unrecognised `from` selector", s).
			WithSuggestions("use user, users/<name>, orgs/<name>, repos/<owner>/<name>, gists/<id>, or starred")
	}
}

// OwnerRepo renders "owner/name" for a FromRepo selector.
func (f From) OwnerRepo() string {
	return f.Owner + "/" + f.Repo
}
