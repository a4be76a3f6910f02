package config

import (
	"os"
	"strings"
)

// expandEnv resolves `${VAR}` references inside a YAML scalar against
// the process environment at load time, the supplemental feature
// recovered from the original's config.rs environment overlay (see
// SPEC_FULL.md). A reference to an unset variable expands to "".
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, func(name string) string {
		return os.Getenv(name)
	})
}
