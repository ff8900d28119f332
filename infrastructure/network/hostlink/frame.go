package hostlink

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Frame layout: a 4-byte big-endian payload length followed by the payload
// itself.
const frameHeaderSize = 4

// MaxFramePayloadSize bounds a single frame in either direction.
const MaxFramePayloadSize = 512

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [frameHeaderSize]byte
	_, err := io.ReadFull(r, header[:])
	if err != nil {
		return nil, errors.Wrap(err, "error reading frame header")
	}

	payloadLength := binary.BigEndian.Uint32(header[:])
	if payloadLength > MaxFramePayloadSize {
		return nil, errors.Errorf("frame declares %d payload bytes, limit is %d",
			payloadLength, MaxFramePayloadSize)
	}

	payload := make([]byte, payloadLength)
	_, err = io.ReadFull(r, payload)
	if err != nil {
		return nil, errors.Wrap(err, "error reading frame payload")
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed frame to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFramePayloadSize {
		return errors.Errorf("frame payload is %d bytes, limit is %d",
			len(payload), MaxFramePayloadSize)
	}

	frame := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame[:frameHeaderSize], uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	_, err := w.Write(frame)
	return errors.Wrap(err, "error writing frame")
}
