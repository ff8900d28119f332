package protocol

import (
	"encoding/binary"

	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
)

// handleGetAddress derives the address at the requested key index and puts
// it on the screen so the user can compare it against what the host shows.
// The response carries no data; the address travels through the screen
// only.
func handleGetAddress(context *handlerContext, request *appmessage.Request) ([]byte, error) {
	if len(request.Data) != keyIndexSize {
		return nil, sessionerrors.MalformedInputf(
			"address request carries %d data bytes, expected %d",
			len(request.Data), keyIndexSize)
	}
	keyIndex := binary.BigEndian.Uint32(request.Data)

	keyPair, err := context.keyChain.AddressKey(keyIndex)
	if err != nil {
		return nil, err
	}
	defer keyPair.Zero()

	address, err := keyPair.Address()
	if err != nil {
		return nil, err
	}

	err = context.screen.Show("Compare addresses:", address)
	if err != nil {
		return nil, err
	}

	log.Debugf("Displayed address for key index %d", keyIndex)
	return nil, nil
}
