// Package signer owns the signing session: it streams transaction chunks
// through the element decoder, asks the user to confirm every output that
// isn't verified change, and signs the transaction sighash once the user
// approved sending.
package signer

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
	"github.com/hathornetwork/htrsignd/domain/txstream"
)

type state int

const (
	stateUninitialized state = iota
	stateReceivingData
	stateUserApproved
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateReceivingData:
		return "receiving data"
	case stateUserApproved:
		return "user approved"
	}
	return "unknown"
}

const (
	changeDescriptorFlagSize = 1
	changeDescriptorBodySize = 5 // output index (1) + key index (4)
	transactionHeaderSize    = 5 // version (2) + token, input and output counts (1 each)
)

// Session is the signing state machine for a single transaction. It is
// owned by the protocol layer and reset on every terminal outcome, so one
// Session serves the device for its whole lifetime. Sessions are not safe
// for concurrent use; the single host connection serializes access.
type Session struct {
	params   *netparams.Params
	keyChain *keychain.KeyChain
	screen   Screen

	state   state
	decoder *txstream.Decoder

	// sighash accumulates every signable byte in arrival order. It is
	// finalized into digest by the first signature request.
	sighash hash.Hash
	digest  []byte

	hasChangeOutput   bool
	changeOutputIndex int
	changeKeyIndex    uint32

	visibleOutputs int
	shownOutputs   int
}

// NewSession returns an uninitialized session bound to the given key chain
// and screen.
func NewSession(params *netparams.Params, keyChain *keychain.KeyChain, screen Screen) *Session {
	return &Session{
		params:   params,
		keyChain: keyChain,
		screen:   screen,
	}
}

// HandleDataChunk ingests one transaction chunk from the host. The first
// chunk carries the change descriptor and the transaction header; every
// chunk after that is raw element data. Decoded outputs are confirmed on
// the screen as they complete, and once the whole transaction has been
// decoded the user is asked to approve sending. A nil return means either
// "send more data" or "approved"; the caller cannot tell them apart and
// doesn't need to.
func (s *Session) HandleDataChunk(data []byte) error {
	if s.state == stateUserApproved {
		return sessionerrors.ProtocolViolationf(
			"received transaction data after the user approved sending")
	}

	payload := data
	if s.state == stateUninitialized {
		var err error
		payload, err = s.begin(data)
		if err != nil {
			return err
		}
	} else {
		s.sighash.Write(payload)
	}

	err := s.decoder.Append(payload)
	if err != nil {
		return err
	}
	return s.drainDecoder()
}

// begin parses the change descriptor and the transaction header off the
// first chunk and returns the remaining element payload. Everything after
// the change descriptor is part of the signable payload, the header
// included.
func (s *Session) begin(data []byte) ([]byte, error) {
	if len(data) < changeDescriptorFlagSize {
		return nil, sessionerrors.MalformedInputf("first transaction chunk is empty")
	}
	hasChangeOutput := data[0] != 0
	rest := data[changeDescriptorFlagSize:]

	var changeOutputIndex int
	var changeKeyIndex uint32
	if hasChangeOutput {
		if len(rest) < changeDescriptorBodySize {
			return nil, sessionerrors.MalformedInputf(
				"change descriptor is truncated: holds %d bytes, expected %d",
				len(rest), changeDescriptorBodySize)
		}
		changeOutputIndex = int(rest[0])
		changeKeyIndex = binary.BigEndian.Uint32(rest[1:changeDescriptorBodySize])
		rest = rest[changeDescriptorBodySize:]
	}

	if len(rest) < transactionHeaderSize {
		return nil, sessionerrors.MalformedInputf(
			"transaction header is truncated: holds %d bytes, expected %d",
			len(rest), transactionHeaderSize)
	}

	sighash := sha256.New()
	sighash.Write(rest)

	version := binary.BigEndian.Uint16(rest[:2])
	tokenCount := int(rest[2])
	inputCount := int(rest[3])
	outputCount := int(rest[4])
	rest = rest[transactionHeaderSize:]

	if hasChangeOutput && changeOutputIndex >= outputCount {
		return nil, sessionerrors.ProtocolViolationf(
			"change output index %d is out of range for %d outputs",
			changeOutputIndex, outputCount)
	}

	s.state = stateReceivingData
	s.decoder = txstream.NewDecoder(tokenCount, inputCount, outputCount)
	s.sighash = sighash
	s.hasChangeOutput = hasChangeOutput
	s.changeOutputIndex = changeOutputIndex
	s.changeKeyIndex = changeKeyIndex
	s.visibleOutputs = outputCount
	if hasChangeOutput {
		s.visibleOutputs--
	}

	log.Debugf("Started signing session: version %d, %d tokens, %d inputs, %d outputs",
		version, tokenCount, inputCount, outputCount)
	return rest, nil
}

// drainDecoder steps the decoder until it runs out of buffered data,
// handling every completed output along the way.
func (s *Session) drainDecoder() error {
	for {
		output, status, err := s.decoder.Step()
		if err != nil {
			return err
		}

		switch status {
		case txstream.StatusPartial:
			return nil
		case txstream.StatusReady:
			err := s.handleOutput(output)
			if err != nil {
				return err
			}
		case txstream.StatusFinished:
			return s.confirmSend()
		}
	}
}

func (s *Session) handleOutput(output *txstream.Output) error {
	if s.hasChangeOutput && output.Index == s.changeOutputIndex {
		return s.verifyChangeOutput(output)
	}

	s.shownOutputs++
	line1, line2, err := outputLines(output, s.shownOutputs, s.visibleOutputs, s.params)
	if err != nil {
		return err
	}

	confirmed, err := s.screen.Confirm(line1, line2)
	if err != nil {
		return err
	}
	if !confirmed {
		return sessionerrors.ErrUserRejected
	}
	return nil
}

// verifyChangeOutput checks that the change output pays the key the host
// claimed it does. Verified change is skipped on the screen.
func (s *Session) verifyChangeOutput(output *txstream.Output) error {
	keyPair, err := s.keyChain.AddressKey(s.changeKeyIndex)
	if err != nil {
		return err
	}
	defer keyPair.Zero()

	if !bytes.Equal(keyPair.PublicKeyHash(), output.PubkeyHash) {
		return sessionerrors.VerificationFailuref(
			"change output %d does not pay the key at index %d",
			output.Index, s.changeKeyIndex)
	}

	log.Debugf("Verified change output %d against key index %d",
		output.Index, s.changeKeyIndex)
	return nil
}

func (s *Session) confirmSend() error {
	confirmed, err := s.screen.Confirm("Send", "transaction?")
	if err != nil {
		return err
	}
	if !confirmed {
		return sessionerrors.ErrUserRejected
	}

	s.state = stateUserApproved
	log.Debugf("Transaction approved for signing")
	return nil
}

// Sign returns a DER-encoded deterministic ECDSA signature over the
// transaction sighash, made with the address key at the given index. The
// sighash is finalized by the first call and reused by subsequent ones, so
// the host may request any number of signatures for one approval. The
// private key lives only for the duration of the call.
func (s *Session) Sign(keyIndex uint32) ([]byte, error) {
	if s.state != stateUserApproved {
		return nil, sessionerrors.ProtocolViolationf(
			"signature requested in the %s state", s.state)
	}

	if s.digest == nil {
		firstRound := s.sighash.Sum(nil)
		secondRound := sha256.Sum256(firstRound)
		s.digest = secondRound[:]
	}

	keyPair, err := s.keyChain.AddressKey(keyIndex)
	if err != nil {
		return nil, err
	}
	defer keyPair.Zero()

	return keyPair.Sign(s.digest)
}

// Reset discards all transaction state and returns the session to the
// uninitialized state. It is safe to call from any state.
func (s *Session) Reset() {
	for i := range s.digest {
		s.digest[i] = 0
	}

	s.state = stateUninitialized
	s.decoder = nil
	s.sighash = nil
	s.digest = nil
	s.hasChangeOutput = false
	s.changeOutputIndex = 0
	s.changeKeyIndex = 0
	s.visibleOutputs = 0
	s.shownOutputs = 0
}
