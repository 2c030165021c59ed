package config

import (
	"os"
	"regexp"
)

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnv replaces ${VAR} and ${VAR:-default} references with values
// from the environment. A bare $ is left alone.
func expandEnv(content []byte) []byte {
	return envRef.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envRef.FindSubmatch(match)
		if v, ok := os.LookupEnv(string(parts[1])); ok && v != "" {
			return []byte(v)
		}
		return parts[2]
	})
}
