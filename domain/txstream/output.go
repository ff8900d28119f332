package txstream

import (
	"encoding/binary"

	"github.com/hathornetwork/htrsignd/domain/sessionerrors"
	"github.com/hathornetwork/htrsignd/util"
	"github.com/pkg/errors"
)

// Opcodes of the only output script shape the device accepts.
const (
	opDup         = 0x76
	opHash160     = 0xA9
	opEqualVerify = 0x88
	opCheckSig    = 0xAC
)

// p2pkhScriptLength is the exact length of a pay-to-pubkey-hash script:
// OP_DUP OP_HASH160 <20-byte data push> OP_EQUALVERIFY OP_CHECKSIG.
const p2pkhScriptLength = 3 + util.Hash160Size + 2

// ErrTruncated reports that the data ends before the element does. Callers
// feeding a stream treat it as "wait for more bytes", not as a failure.
var ErrTruncated = errors.New("element is truncated")

// Output is one spendable transaction output.
type Output struct {
	// Value is the output amount, in hundredths of HTR.
	Value uint64

	// TokenData is the token metadata byte. Only 0x00, the base token, is
	// accepted in this protocol version.
	TokenData byte

	// PubkeyHash is the 20-byte public key hash the output's script pays
	// to. It does not alias the parsed data.
	PubkeyHash []byte

	// Index is the zero-based position of this output among all outputs
	// of its transaction.
	Index int
}

// ParseOutput decodes one output off the front of data and returns it along
// with the number of bytes consumed. ErrTruncated means data ends
// mid-output; any other error means the output is structurally invalid.
func ParseOutput(data []byte) (*Output, int, error) {
	value, offset, err := parseOutputValue(data)
	if err != nil {
		return nil, 0, err
	}

	// Token data byte plus the two script length bytes.
	if len(data) < offset+3 {
		return nil, 0, ErrTruncated
	}

	tokenData := data[offset]
	offset++
	if tokenData != 0x00 {
		return nil, 0, sessionerrors.MalformedInputf(
			"output pays a non-base token (token data %#02x)", tokenData)
	}

	scriptLength := int(binary.BigEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if scriptLength != p2pkhScriptLength {
		return nil, 0, sessionerrors.MalformedInputf(
			"output script is %d bytes, expected a %d-byte pay-to-pubkey-hash script",
			scriptLength, p2pkhScriptLength)
	}

	if len(data) < offset+scriptLength {
		return nil, 0, ErrTruncated
	}

	script := data[offset : offset+scriptLength]
	offset += scriptLength
	if script[0] != opDup || script[1] != opHash160 || script[2] != util.Hash160Size ||
		script[23] != opEqualVerify || script[24] != opCheckSig {

		return nil, 0, sessionerrors.MalformedInputf("output script is not pay-to-pubkey-hash")
	}

	pubkeyHash := make([]byte, util.Hash160Size)
	copy(pubkeyHash, script[3:3+util.Hash160Size])

	return &Output{
		Value:      value,
		TokenData:  tokenData,
		PubkeyHash: pubkeyHash,
	}, offset, nil
}

// parseOutputValue reads the output amount. The high bit of the first byte
// selects the field width: clear means a plain 4-byte big-endian value, set
// means an 8-byte big-endian value that decodes to the arithmetic negation
// of its bits. The negated form is the wire convention for amounts beyond
// the 4-byte range and must be reproduced exactly.
func parseOutputValue(data []byte) (uint64, int, error) {
	if len(data) < 1 {
		return 0, 0, ErrTruncated
	}

	if data[0]&0x80 == 0 {
		if len(data) < 4 {
			return 0, 0, ErrTruncated
		}

		return uint64(binary.BigEndian.Uint32(data[:4])), 4, nil
	}

	if len(data) < 8 {
		return 0, 0, ErrTruncated
	}

	return -binary.BigEndian.Uint64(data[:8]), 8, nil
}
