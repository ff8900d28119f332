package appmessage

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const statusWordSize = 2

// Response is the device's answer to one request: optional data followed
// by a status word.
type Response struct {
	Data   []byte
	Status StatusWord
}

// Serialize encodes the response as the data bytes followed by the
// big-endian status word.
func (r *Response) Serialize() []byte {
	serialized := make([]byte, len(r.Data)+statusWordSize)
	copy(serialized, r.Data)
	binary.BigEndian.PutUint16(serialized[len(r.Data):], uint16(r.Status))
	return serialized
}

// ParseResponse deserializes a raw device frame into a Response. The data
// slice aliases raw.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) < statusWordSize {
		return nil, errors.Errorf("response is %d bytes, shorter than the %d-byte status word",
			len(raw), statusWordSize)
	}

	dataLength := len(raw) - statusWordSize
	return &Response{
		Data:   raw[:dataLength],
		Status: StatusWord(binary.BigEndian.Uint16(raw[dataLength:])),
	}, nil
}
