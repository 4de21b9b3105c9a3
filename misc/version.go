// Package misc holds build time information.
package misc

// Set by the linker: -ldflags "-X rstyle/misc.version=... -X rstyle/misc.gitHash=..."
var (
	appName = "rstyle"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
