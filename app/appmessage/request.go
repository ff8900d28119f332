package appmessage

import (
	"github.com/pkg/errors"
)

// Request header layout: [class][command][P1][P2][data length], then the
// data bytes themselves.
const requestHeaderSize = 5

// MaxRequestDataSize is the most data bytes one request can carry; the
// length field is a single byte.
const MaxRequestDataSize = 0xFF

// ErrWrongClass is returned by ParseRequest when the class byte isn't the
// one this device serves.
var ErrWrongClass = errors.New("unsupported request class")

// Request is one host command addressed to the device.
type Request struct {
	Command Command
	P1      byte
	P2      byte
	Data    []byte
}

// ParseRequest deserializes a raw host frame into a Request. The data
// slice aliases raw.
func ParseRequest(raw []byte) (*Request, error) {
	if len(raw) < requestHeaderSize {
		return nil, errors.Errorf("request is %d bytes, shorter than the %d-byte header",
			len(raw), requestHeaderSize)
	}
	if raw[0] != RequestClass {
		return nil, errors.Wrapf(ErrWrongClass, "class byte is 0x%02x, expected 0x%02x",
			raw[0], RequestClass)
	}

	dataLength := int(raw[4])
	if len(raw) != requestHeaderSize+dataLength {
		return nil, errors.Errorf("request declares %d data bytes but carries %d",
			dataLength, len(raw)-requestHeaderSize)
	}

	return &Request{
		Command: Command(raw[1]),
		P1:      raw[2],
		P2:      raw[3],
		Data:    raw[requestHeaderSize:],
	}, nil
}

// Serialize encodes the request into the raw frame form ParseRequest
// accepts.
func (r *Request) Serialize() ([]byte, error) {
	if len(r.Data) > MaxRequestDataSize {
		return nil, errors.Errorf("request data is %d bytes, the length field holds at most %d",
			len(r.Data), MaxRequestDataSize)
	}

	serialized := make([]byte, 0, requestHeaderSize+len(r.Data))
	serialized = append(serialized, RequestClass, byte(r.Command), r.P1, r.P2, byte(len(r.Data)))
	return append(serialized, r.Data...), nil
}
