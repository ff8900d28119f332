package protocol

import (
	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
)

// handleGetXPub exports the wallet's external chain node after an explicit
// on-screen authorization: uncompressed public key, chain code and account
// fingerprint, which together let the host derive every receive address
// without further round trips.
func handleGetXPub(context *handlerContext, _ *appmessage.Request) ([]byte, error) {
	confirmed, err := context.screen.Confirm("Authorize", "access?")
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, sessionerrors.ErrUserRejected
	}

	accountInfo, err := context.keyChain.AccountInfo()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(accountInfo.PublicKey)+len(accountInfo.ChainCode)+
		len(accountInfo.ParentFingerprint))
	data = append(data, accountInfo.PublicKey[:]...)
	data = append(data, accountInfo.ChainCode[:]...)
	data = append(data, accountInfo.ParentFingerprint[:]...)
	return data, nil
}
