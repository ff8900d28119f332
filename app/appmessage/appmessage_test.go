package appmessage

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestParseRequest(t *testing.T) {
	raw := []byte{0xE0, 0x04, 0x01, 0x00, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}

	request, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest: %+v", err)
	}

	if request.Command != CmdSignTx {
		t.Fatalf("command is %s, expected %s", request.Command, CmdSignTx)
	}
	if request.P1 != SignTxRequestSignature || request.P2 != 0x00 {
		t.Fatalf("parameters are 0x%02x/0x%02x, expected 0x01/0x00", request.P1, request.P2)
	}
	if !bytes.Equal(request.Data, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("data is %x, expected deadbeef", request.Data)
	}
}

func TestParseRequestRejectsWrongClass(t *testing.T) {
	_, err := ParseRequest([]byte{0xE1, 0x01, 0x00, 0x00, 0x00})
	if !errors.Is(err, ErrWrongClass) {
		t.Fatalf("ParseRequest returned %v, expected ErrWrongClass", err)
	}
}

func TestParseRequestRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty frame", nil},
		{"truncated header", []byte{0xE0, 0x01, 0x00, 0x00}},
		{"declared length exceeds data", []byte{0xE0, 0x01, 0x00, 0x00, 0x02, 0xAA}},
		{"data exceeds declared length", []byte{0xE0, 0x01, 0x00, 0x00, 0x00, 0xAA}},
	}

	for _, test := range tests {
		_, err := ParseRequest(test.raw)
		if err == nil {
			t.Fatalf("%s: ParseRequest accepted %x", test.name, test.raw)
		}
		if errors.Is(err, ErrWrongClass) {
			t.Fatalf("%s: ParseRequest returned ErrWrongClass, expected a shape error", test.name)
		}
	}
}

func TestRequestRoundTrip(t *testing.T) {
	request := &Request{
		Command: CmdGetAddress,
		P1:      0x00,
		P2:      0x00,
		Data:    []byte{0x00, 0x00, 0x00, 0x07},
	}

	serialized, err := request.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %+v", err)
	}

	parsed, err := ParseRequest(serialized)
	if err != nil {
		t.Fatalf("ParseRequest: %+v", err)
	}
	if !reflect.DeepEqual(parsed, request) {
		t.Fatalf("round trip changed the request -- got %v, want %v",
			spew.Sdump(parsed), spew.Sdump(request))
	}
}

func TestResponseSerializeLayout(t *testing.T) {
	response := &Response{Data: []byte{0x01, 0x02}, Status: StatusOK}
	if serialized := response.Serialize(); !bytes.Equal(serialized, []byte{0x01, 0x02, 0x90, 0x00}) {
		t.Fatalf("Serialize produced %x, expected 01029000", serialized)
	}

	rejected := &Response{Status: StatusUserRejected}
	if serialized := rejected.Serialize(); !bytes.Equal(serialized, []byte{0x69, 0x85}) {
		t.Fatalf("Serialize produced %x, expected 6985", serialized)
	}
}

func TestParseResponse(t *testing.T) {
	response, err := ParseResponse([]byte{0x48, 0x54, 0x52, 0x6B, 0x01})
	if err != nil {
		t.Fatalf("ParseResponse: %+v", err)
	}
	if response.Status != StatusInvalidParam {
		t.Fatalf("status is %s, expected %s", response.Status, StatusInvalidParam)
	}
	if !bytes.Equal(response.Data, []byte{0x48, 0x54, 0x52}) {
		t.Fatalf("data is %x, expected 485452", response.Data)
	}

	if _, err := ParseResponse([]byte{0x90}); err == nil {
		t.Fatalf("ParseResponse accepted a 1-byte frame")
	}
}
