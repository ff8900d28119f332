package protocol

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/hathornetwork/htrsignd/app/appmessage"
	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/domain/netparams"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakeScreen struct {
	confirms   [][2]string
	shows      [][2]string
	rejectCall int
}

func (s *fakeScreen) Confirm(line1, line2 string) (bool, error) {
	s.confirms = append(s.confirms, [2]string{line1, line2})
	return len(s.confirms) != s.rejectCall, nil
}

func (s *fakeScreen) Show(line1, line2 string) error {
	s.shows = append(s.shows, [2]string{line1, line2})
	return nil
}

func newTestManager(t *testing.T, screen *fakeScreen) (*Manager, *keychain.KeyChain) {
	t.Helper()

	keyChain, err := keychain.FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}
	return NewManager(&netparams.MainnetParams, keyChain, screen), keyChain
}

func requestFrame(t *testing.T, command appmessage.Command, p1 byte, data []byte) []byte {
	t.Helper()

	frame, err := (&appmessage.Request{Command: command, P1: p1, Data: data}).Serialize()
	if err != nil {
		t.Fatalf("Serialize: %+v", err)
	}
	return frame
}

func exchange(t *testing.T, manager *Manager, frame []byte) *appmessage.Response {
	t.Helper()

	response, err := appmessage.ParseResponse(manager.HandleFrame(frame))
	if err != nil {
		t.Fatalf("ParseResponse: %+v", err)
	}
	return response
}

func keyIndexBytes(keyIndex uint32) []byte {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, keyIndex)
	return data
}

// singleOutputTransaction builds a first-chunk payload: no change
// descriptor, a one-output header, and the output itself.
func singleOutputTransaction(value uint32, pubkeyHash []byte) ([]byte, []byte) {
	header := []byte{0x00, 0x01, 0x00, 0x00, 0x01}
	output := make([]byte, 4)
	binary.BigEndian.PutUint32(output, value)
	output = append(output, 0x00)
	output = append(output, 0x00, 0x19)
	output = append(output, 0x76, 0xA9, 0x14)
	output = append(output, pubkeyHash...)
	output = append(output, 0x88, 0xAC)

	signable := append(header, output...)
	return append([]byte{0x00}, signable...), signable
}

func TestHandleFrameGetVersion(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	response := exchange(t, manager, requestFrame(t, appmessage.CmdGetVersion, 0, nil))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("status is %s, expected OK", response.Status)
	}
	if len(response.Data) != 6 || !bytes.Equal(response.Data[:3], []byte("HTR")) {
		t.Fatalf("version payload is %x, expected HTR plus three version bytes", response.Data)
	}
}

func TestHandleFrameRejectsWrongClass(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	response := exchange(t, manager, []byte{0x00, 0x01, 0x00, 0x00, 0x00})
	if response.Status != appmessage.StatusClassNotSupported {
		t.Fatalf("status is %s, expected ClassNotSupported", response.Status)
	}
}

func TestHandleFrameRejectsUnknownInstruction(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	response := exchange(t, manager, requestFrame(t, appmessage.Command(0x42), 0, nil))
	if response.Status != appmessage.StatusInstructionNotSupported {
		t.Fatalf("status is %s, expected InstructionNotSupported", response.Status)
	}
}

func TestHandleFrameRejectsMalformedFrame(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	for _, frame := range [][]byte{nil, {0xE0, 0x01}, {0xE0, 0x01, 0x00, 0x00, 0x05, 0xAA}} {
		response := exchange(t, manager, frame)
		if response.Status != appmessage.StatusInvalidParam {
			t.Fatalf("status for frame %x is %s, expected InvalidParam", frame, response.Status)
		}
	}
}

func TestHandleFrameGetAddress(t *testing.T) {
	screen := &fakeScreen{}
	manager, keyChain := newTestManager(t, screen)

	const keyIndex = 11
	response := exchange(t, manager,
		requestFrame(t, appmessage.CmdGetAddress, 0, keyIndexBytes(keyIndex)))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("status is %s, expected OK", response.Status)
	}
	if len(response.Data) != 0 {
		t.Fatalf("address response carries %d data bytes, expected none", len(response.Data))
	}

	keyPair, err := keyChain.AddressKey(keyIndex)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}
	defer keyPair.Zero()
	expectedAddress, err := keyPair.Address()
	if err != nil {
		t.Fatalf("Address: %+v", err)
	}

	if len(screen.shows) != 1 || screen.shows[0] != [2]string{"Compare addresses:", expectedAddress} {
		t.Fatalf("screen showed %v, expected the address at index %d", screen.shows, keyIndex)
	}

	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdGetAddress, 0, []byte{0x00, 0x00, 0x01}))
	if response.Status != appmessage.StatusInvalidParam {
		t.Fatalf("status for a short key index is %s, expected InvalidParam", response.Status)
	}
}

func TestHandleFrameGetXPub(t *testing.T) {
	screen := &fakeScreen{}
	manager, keyChain := newTestManager(t, screen)

	response := exchange(t, manager, requestFrame(t, appmessage.CmdGetXPub, 0, nil))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("status is %s, expected OK", response.Status)
	}

	accountInfo, err := keyChain.AccountInfo()
	if err != nil {
		t.Fatalf("AccountInfo: %+v", err)
	}
	expectedData := append(accountInfo.PublicKey[:], accountInfo.ChainCode[:]...)
	expectedData = append(expectedData, accountInfo.ParentFingerprint[:]...)
	if !bytes.Equal(response.Data, expectedData) {
		t.Fatalf("xpub payload is %x, expected %x", response.Data, expectedData)
	}

	if len(screen.confirms) != 1 || screen.confirms[0] != [2]string{"Authorize", "access?"} {
		t.Fatalf("screen asked %v, expected the authorization prompt", screen.confirms)
	}
}

func TestHandleFrameGetXPubRejected(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{rejectCall: 1})

	response := exchange(t, manager, requestFrame(t, appmessage.CmdGetXPub, 0, nil))
	if response.Status != appmessage.StatusUserRejected {
		t.Fatalf("status is %s, expected UserRejected", response.Status)
	}
	if len(response.Data) != 0 {
		t.Fatalf("rejected response carries %d data bytes, expected none", len(response.Data))
	}
}

func TestHandleFrameSignTxFlow(t *testing.T) {
	manager, keyChain := newTestManager(t, &fakeScreen{})

	chunk, signable := singleOutputTransaction(1000, bytes.Repeat([]byte{0x3C}, 20))
	response := exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxDataChunk, chunk))
	if response.Status != appmessage.StatusOK || len(response.Data) != 0 {
		t.Fatalf("data chunk answered %s with %d data bytes, expected empty OK",
			response.Status, len(response.Data))
	}

	const keyIndex = 2
	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxRequestSignature, keyIndexBytes(keyIndex)))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("signature request answered %s, expected OK", response.Status)
	}

	firstRound := sha256.Sum256(signable)
	digest := sha256.Sum256(firstRound[:])

	keyPair, err := keyChain.AddressKey(keyIndex)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}
	defer keyPair.Zero()
	publicKey, err := secp256k1.ParsePubKey(keyPair.SerializedPublicKey())
	if err != nil {
		t.Fatalf("ParsePubKey: %+v", err)
	}
	signature, err := ecdsa.ParseDERSignature(response.Data)
	if err != nil {
		t.Fatalf("ParseDERSignature: %+v", err)
	}
	if !signature.Verify(digest[:], publicKey) {
		t.Fatalf("signature does not verify against key index %d", keyIndex)
	}

	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxClose, nil))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("close answered %s, expected OK", response.Status)
	}

	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxRequestSignature, keyIndexBytes(keyIndex)))
	if response.Status != appmessage.StatusImproperInit {
		t.Fatalf("signature after close answered %s, expected ImproperInit", response.Status)
	}
}

func TestHandleFrameSignatureBeforeApproval(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	// Announce one output without delivering it; the session stays in the
	// receiving state.
	partialChunk := []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x01}
	response := exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxDataChunk, partialChunk))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("data chunk answered %s, expected OK", response.Status)
	}

	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxRequestSignature, keyIndexBytes(0)))
	if response.Status != appmessage.StatusImproperInit {
		t.Fatalf("early signature answered %s, expected ImproperInit", response.Status)
	}
}

func TestHandleFrameUserRejectionStatus(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{rejectCall: 2})

	chunk, _ := singleOutputTransaction(1000, bytes.Repeat([]byte{0x4D}, 20))
	response := exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxDataChunk, chunk))
	if response.Status != appmessage.StatusUserRejected {
		t.Fatalf("status is %s, expected UserRejected", response.Status)
	}
}

// TestHandleFrameErrorResetsSession proves a non-OK response wipes the
// in-flight session: a fresh first chunk right after the failure starts a
// new transaction instead of being treated as more element data.
func TestHandleFrameErrorResetsSession(t *testing.T) {
	manager, _ := newTestManager(t, &fakeScreen{})

	partialChunk := []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x01}
	response := exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxDataChunk, partialChunk))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("data chunk answered %s, expected OK", response.Status)
	}

	// Premature signature request fails and must reset the session.
	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxRequestSignature, keyIndexBytes(0)))
	if response.Status != appmessage.StatusImproperInit {
		t.Fatalf("early signature answered %s, expected ImproperInit", response.Status)
	}

	chunk, _ := singleOutputTransaction(500, bytes.Repeat([]byte{0x5E}, 20))
	response = exchange(t, manager,
		requestFrame(t, appmessage.CmdSignTx, appmessage.SignTxDataChunk, chunk))
	if response.Status != appmessage.StatusOK {
		t.Fatalf("chunk after reset answered %s, expected OK", response.Status)
	}
}
