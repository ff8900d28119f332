package version

import (
	"fmt"
	"strings"
)

// The application version. The three numeric components are also what the
// device reports in its version response, so they must each fit in a byte.
const (
	AppMajor uint8 = 1
	AppMinor uint8 = 0
	AppPatch uint8 = 2
)

// appBuild is optional build metadata appended to the version string. Set it
// at link time with
// '-ldflags "-X github.com/hathornetwork/htrsignd/version.appBuild=foo"'.
// Values with characters outside the semver build-metadata alphabet are
// ignored.
var appBuild string

var version string

// Version returns the application version, with the build metadata appended
// when present.
func Version() string {
	if version != "" {
		return version
	}

	version = fmt.Sprintf("%d.%d.%d", AppMajor, AppMinor, AppPatch)
	if validBuildMetadata(appBuild) {
		version = fmt.Sprintf("%s-%s", version, appBuild)
	}
	return version
}

const buildMetadataAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

func validBuildMetadata(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(buildMetadataAlphabet, r) {
			return false
		}
	}
	return true
}
