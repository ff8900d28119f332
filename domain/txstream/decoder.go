// Package txstream decodes Hathor transactions that arrive as a chunked
// byte stream of unknown total length. Decoding is resumable and runs
// inside a fixed-size window, so a transaction of any size is processed
// without ever being held in memory whole.
package txstream

import (
	"encoding/binary"

	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
	"github.com/pkg/errors"
)

// windowCapacity is the size of the decode window. It must fit the largest
// chunk a transport can deliver plus the longest possible undecoded
// remainder of a previous chunk (one element less a byte).
const windowCapacity = 300

const (
	tokenSize = 32

	// An input is a 32-byte tx id, a 1-byte output index and a 2-byte
	// unlock data length.
	inputTxIDSize         = 32
	inputDataLengthOffset = inputTxIDSize + 1
	inputSize             = inputTxIDSize + 1 + 2
)

// Status is the outcome of a decode step.
type Status int

const (
	statusInvalid Status = iota

	// StatusPartial means the window ends mid-element. Decoder state is
	// preserved; append more bytes and step again.
	StatusPartial

	// StatusReady means one output was decoded and returned.
	StatusReady

	// StatusFinished means every element was consumed and the window is
	// empty. The decoder is done.
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPartial:
		return "partial"
	case StatusReady:
		return "ready"
	case StatusFinished:
		return "finished"
	default:
		return "invalid"
	}
}

// Decoder extracts transaction elements from a byte stream, in the fixed
// wire order: token identifiers, then inputs, then outputs. The remaining
// element counts are its only memory of transaction structure.
type Decoder struct {
	window    [windowCapacity]byte
	windowLen int

	remainingTokens  int
	remainingInputs  int
	remainingOutputs int

	outputCursor int
}

// NewDecoder returns a decoder expecting the given element counts.
func NewDecoder(tokenCount, inputCount, outputCount int) *Decoder {
	return &Decoder{
		remainingTokens:  tokenCount,
		remainingInputs:  inputCount,
		remainingOutputs: outputCount,
	}
}

// Append adds stream bytes to the decode window. Overflowing the window is
// fatal: the transport bounds chunk sizes, so a chunk that does not fit
// after compaction cannot be made to fit by waiting.
func (d *Decoder) Append(data []byte) error {
	if d.windowLen+len(data) > windowCapacity {
		return sessionerrors.ResourceExhaustionf(
			"decode window overflow: %d buffered and %d incoming bytes exceed the %d capacity",
			d.windowLen, len(data), windowCapacity)
	}

	copy(d.window[d.windowLen:], data)
	d.windowLen += len(data)
	return nil
}

// consume drops the first n window bytes and slides the unconsumed tail to
// the front.
func (d *Decoder) consume(n int) {
	copy(d.window[:], d.window[n:d.windowLen])
	d.windowLen -= n
}

// Step decodes elements off the window until it has an output to report,
// runs out of buffered bytes, or consumes the whole transaction. Token
// identifiers and inputs are validated and skipped without being reported.
// The returned status is only meaningful when the error is nil; every
// returned error is terminal for the stream.
func (d *Decoder) Step() (*Output, Status, error) {
	for d.remainingTokens > 0 {
		if d.windowLen < tokenSize {
			return nil, StatusPartial, nil
		}

		// Token identifier contents are reserved for future multi-token
		// support and are skipped.
		d.consume(tokenSize)
		d.remainingTokens--
	}

	for d.remainingInputs > 0 {
		if d.windowLen < inputSize {
			return nil, StatusPartial, nil
		}

		dataLength := binary.BigEndian.Uint16(d.window[inputDataLengthOffset:inputSize])
		if dataLength != 0 {
			return nil, statusInvalid, sessionerrors.MalformedInputf(
				"input carries %d bytes of unlock data, expected none", dataLength)
		}

		d.consume(inputSize)
		d.remainingInputs--
	}

	if d.remainingOutputs > 0 {
		output, consumed, err := ParseOutput(d.window[:d.windowLen])
		if errors.Is(err, ErrTruncated) {
			return nil, StatusPartial, nil
		}
		if err != nil {
			return nil, statusInvalid, err
		}

		d.consume(consumed)
		output.Index = d.outputCursor
		d.outputCursor++
		d.remainingOutputs--
		return output, StatusReady, nil
	}

	if d.windowLen != 0 {
		return nil, statusInvalid, sessionerrors.MalformedInputf(
			"transaction fully decoded but %d bytes are left over", d.windowLen)
	}

	return nil, StatusFinished, nil
}
