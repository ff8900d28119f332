package protocol

import (
	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/version"
)

// handleGetVersion reports the app identity: the ASCII tag "HTR" followed
// by the semantic version triplet.
func handleGetVersion(_ *handlerContext, _ *appmessage.Request) ([]byte, error) {
	return []byte{'H', 'T', 'R', version.AppMajor, version.AppMinor, version.AppPatch}, nil
}
