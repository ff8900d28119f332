package util

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
)

// EncodeAddress encodes a 20-byte public key hash into a base58check address:
// one network version byte, the hash, and a 4-byte double-sha256 checksum.
func EncodeAddress(pubKeyHash []byte, version byte) (string, error) {
	if len(pubKeyHash) != Hash160Size {
		return "", errors.Errorf("pubkey hash must be %d bytes long, got %d",
			Hash160Size, len(pubKeyHash))
	}

	return base58.CheckEncode(pubKeyHash, version), nil
}

// DecodeAddress decodes a base58check address back into its network version
// byte and 20-byte public key hash, validating the checksum.
func DecodeAddress(address string) (version byte, pubKeyHash []byte, err error) {
	pubKeyHash, version, err = base58.CheckDecode(address)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "cannot decode address %s", address)
	}
	if len(pubKeyHash) != Hash160Size {
		return 0, nil, errors.Errorf("decoded address %s carries a %d-byte hash, expected %d",
			address, len(pubKeyHash), Hash160Size)
	}

	return version, pubKeyHash, nil
}
