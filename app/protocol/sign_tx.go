package protocol

import (
	"encoding/binary"

	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
)

// handleSignTx drives the signing session. P1 selects the operation:
// feeding a transaction chunk, requesting a signature, or closing the
// session. Close works from any state so the host can always recover to a
// known baseline.
func handleSignTx(context *handlerContext, request *appmessage.Request) ([]byte, error) {
	switch request.P1 {
	case appmessage.SignTxDataChunk:
		return nil, context.session.HandleDataChunk(request.Data)

	case appmessage.SignTxRequestSignature:
		if len(request.Data) != keyIndexSize {
			return nil, sessionerrors.MalformedInputf(
				"signature request carries %d data bytes, expected %d",
				len(request.Data), keyIndexSize)
		}
		keyIndex := binary.BigEndian.Uint32(request.Data)
		return context.session.Sign(keyIndex)

	case appmessage.SignTxClose:
		context.session.Reset()
		log.Debugf("Signing session closed by the host")
		return nil, nil
	}

	return nil, sessionerrors.MalformedInputf(
		"unknown signing operation 0x%02x", request.P1)
}
