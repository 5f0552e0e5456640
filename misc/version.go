// Package misc holds build time information about the program.
package misc

// Set by the linker: -X stylo/misc.version=... -X stylo/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "stylo"

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git hash of the source the program was built from.
func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name used for logger and temporary files.
func GetAppName() string {
	return appName
}
