package version

// version is overridden at build time via -ldflags.
var version = "0.1.0-dev"

func Version() string {
	return version
}
