package config

import (
	"gopkg.in/yaml.v3"

	"github.com/SierraSoftworks/ghbackup/cmnerr"
	"github.com/SierraSoftworks/ghbackup/entities"
)

// Credentials wraps entities.Credentials with YAML decode support for
// the tagged-enum shape the configuration file uses:
//
//	credentials: !None
//	credentials: !Token ghp_xxx
//	credentials: !UsernamePassword {username: foo, password: bar}
//
// A bare omitted field, or explicit `!None`, decodes to CredentialsNone.
type Credentials struct {
	entities.Credentials
}

// UnmarshalYAML implements yaml.Unmarshaler, dispatching on the node's
// explicit type tag.
func (c *Credentials) UnmarshalYAML(node *yaml.Node) error {
	switch node.Tag {
	case "", "!!null", "!None":
		c.Credentials = entities.NoCredentials()
		return nil
	case "!Token":
		var token string
		if err := node.Decode(&token); err != nil {
			return cmnerr.User("invalid !Token credentials value").WithCause(err)
		}
		c.Credentials = entities.TokenCredentials(expandEnv(token))
		return nil
	case "!UsernamePassword":
		var up struct {
			Username string `yaml:"username"`
			Password string `yaml:"password"`
		}
		if err := node.Decode(&up); err != nil {
			return cmnerr.User("invalid !UsernamePassword credentials value").WithCause(err)
		}
		c.Credentials = entities.UserPassCredentials(expandEnv(up.Username), expandEnv(up.Password))
		return nil
	default:
		return cmnerr.User("unrecognised credentials tag '" + node.Tag + "'").
			WithSuggestions("use !None, !Token, or !UsernamePassword")
	}
}
