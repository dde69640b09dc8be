// Package envvar expands environment variable references in configuration values.
package envvar

import (
	"os"
	"regexp"
)

// pattern matches ${NAME} and ${NAME:-fallback}.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(:-([^}]*))?\}`)

// Expand replaces ${NAME} references with the value of the environment variable.
// Unset or empty variables expand to the fallback of ${NAME:-fallback}, or to "".
func Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)

		if resolved := os.Getenv(groups[1]); resolved != "" {
			return resolved
		}

		return groups[3]
	})
}
