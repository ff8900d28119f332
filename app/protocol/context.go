package protocol

import (
	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/domain/signer"
)

// handlerContext carries the collaborators the handlers share: the
// unlocked key chain, the screen, and the one in-flight signing session.
type handlerContext struct {
	keyChain *keychain.KeyChain
	screen   signer.Screen
	session  *signer.Session
}
