// Package protocol dispatches host requests to their command handlers and
// maps every outcome onto a response status word.
package protocol

import (
	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
	"github.com/hathornetwork/htrsignd/domain/signer"
	"github.com/pkg/errors"
)

// keyIndexSize is the serialized size of an address key index.
const keyIndexSize = 4

type handlerFunc func(context *handlerContext, request *appmessage.Request) ([]byte, error)

var handlers = map[appmessage.Command]handlerFunc{
	appmessage.CmdGetVersion: handleGetVersion,
	appmessage.CmdGetAddress: handleGetAddress,
	appmessage.CmdSignTx:     handleSignTx,
	appmessage.CmdGetXPub:    handleGetXPub,
}

// Manager owns the signing session and routes raw request frames through
// the handler table.
type Manager struct {
	context *handlerContext
}

// NewManager creates a protocol manager serving the given key chain and
// screen.
func NewManager(params *netparams.Params, keyChain *keychain.KeyChain,
	screen signer.Screen) *Manager {

	return &Manager{
		context: &handlerContext{
			keyChain: keyChain,
			screen:   screen,
			session:  signer.NewSession(params, keyChain, screen),
		},
	}
}

// HandleFrame processes one raw request frame and returns the raw response
// frame. Any non-OK outcome resets the in-flight signing session, so a
// failed or rejected transaction leaves no state behind.
func (m *Manager) HandleFrame(raw []byte) []byte {
	response := m.handleRequest(raw)
	if response.Status != appmessage.StatusOK {
		m.context.session.Reset()
	}
	return response.Serialize()
}

func (m *Manager) handleRequest(raw []byte) *appmessage.Response {
	request, err := appmessage.ParseRequest(raw)
	if err != nil {
		if errors.Is(err, appmessage.ErrWrongClass) {
			log.Warnf("Rejected request: %s", err)
			return &appmessage.Response{Status: appmessage.StatusClassNotSupported}
		}
		log.Warnf("Rejected malformed request: %s", err)
		return &appmessage.Response{Status: appmessage.StatusInvalidParam}
	}

	handler, ok := handlers[request.Command]
	if !ok {
		log.Warnf("Rejected request with %s", request.Command)
		return &appmessage.Response{Status: appmessage.StatusInstructionNotSupported}
	}

	log.Debugf("Handling %s request", request.Command)
	data, err := handler(m.context, request)
	if err != nil {
		status := statusFromError(err)
		log.Warnf("%s request failed with %s: %s", request.Command, status, err)
		return &appmessage.Response{Status: status}
	}
	return &appmessage.Response{Data: data, Status: appmessage.StatusOK}
}

func statusFromError(err error) appmessage.StatusWord {
	kind, ok := sessionerrors.KindOf(err)
	if !ok {
		return appmessage.StatusDeveloperError
	}

	switch kind {
	case sessionerrors.KindMalformedInput, sessionerrors.KindVerificationFailure:
		return appmessage.StatusInvalidParam
	case sessionerrors.KindProtocolViolation:
		return appmessage.StatusImproperInit
	case sessionerrors.KindUserRejected:
		return appmessage.StatusUserRejected
	default:
		return appmessage.StatusDeveloperError
	}
}
