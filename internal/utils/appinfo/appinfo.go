// Package appinfo reports the running build's version and environment,
// surfaced by the health endpoint.
package appinfo

import (
	"os"
	"runtime/debug"
	"strings"
)

// GetEnvironment resolves the deployment environment from ENVIRONMENT,
// then GO_ENV, defaulting to "development". Common short names are
// normalized; unrecognized values pass through unchanged.
func GetEnvironment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = os.Getenv("GO_ENV")
	}

	switch strings.ToLower(env) {
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	case "", "dev", "development":
		return "development"
	}
	return env
}

// GetVersion resolves the build version from the VERSION environment
// variable, then the module's embedded build info, defaulting to
// "0.0.0-dev".
func GetVersion() string {
	if version := os.Getenv("VERSION"); version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}

	return "0.0.0-dev"
}
