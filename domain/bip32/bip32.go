// Package bip32 implements BIP-32 hierarchical deterministic key derivation
// over secp256k1. Hathor extended keys use the original Bitcoin
// serialization, so the version constants here are the familiar xprv/xpub
// ones.
package bip32

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

// GenerateSeed generates a seed that can be used to initialize a master key.
func GenerateSeed() ([]byte, error) {
	randBytes := make([]byte, 32)
	_, err := rand.Read(randBytes)
	if err != nil {
		return nil, err
	}

	return randBytes, nil
}

// BitcoinMainnetPrivate is the version used for private extended keys.
// Encodes to the xprv prefix in base58.
var BitcoinMainnetPrivate = [4]byte{
	0x04,
	0x88,
	0xad,
	0xe4,
}

// BitcoinMainnetPublic is the version used for public extended keys.
// Encodes to the xpub prefix in base58.
var BitcoinMainnetPublic = [4]byte{
	0x04,
	0x88,
	0xb2,
	0x1e,
}

func toPublicVersion(version [4]byte) ([4]byte, error) {
	if version == BitcoinMainnetPrivate {
		return BitcoinMainnetPublic, nil
	}
	if version == BitcoinMainnetPublic {
		return version, nil
	}

	return [4]byte{}, errors.Errorf("unknown extended key version %x", version)
}

// NewMasterWithPath returns a new master key based on the given seed and
// version, derived to the given path.
func NewMasterWithPath(seed []byte, version [4]byte, pathString string) (*ExtendedKey, error) {
	masterKey, err := NewMaster(seed, version)
	if err != nil {
		return nil, err
	}

	return masterKey.Path(pathString)
}
