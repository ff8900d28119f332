package bip32

import (
	"encoding/binary"

	"github.com/btcsuite/btcutil/base58"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

const (
	versionSerializationLen     = 4
	depthSerializationLen       = 1
	fingerprintSerializationLen = 4
	childNumberSerializationLen = 4
	chainCodeSerializationLen   = 32
	keySerializationLen         = 33
	checkSumLen                 = 4
)

const extendedKeySerializationLen = versionSerializationLen +
	depthSerializationLen +
	fingerprintSerializationLen +
	childNumberSerializationLen +
	chainCodeSerializationLen +
	keySerializationLen +
	checkSumLen

// ExtendedKey is a node in a BIP-32 derivation tree. It holds either a
// private key (from which the public key can always be produced) or only a
// public key, in which case hardened derivation is unavailable.
type ExtendedKey struct {
	privateKey        *secp256k1.ECDSAPrivateKey
	publicKey         *secp256k1.ECDSAPublicKey
	Version           [4]byte
	Depth             uint8
	ParentFingerprint [4]byte
	ChildNumber       uint32
	ChainCode         [32]byte
}

// IsPrivate returns whether the extended key carries private key material.
func (extKey *ExtendedKey) IsPrivate() bool {
	return extKey.privateKey != nil
}

// PrivateKey returns the private key of this node. Callers must check
// IsPrivate first.
func (extKey *ExtendedKey) PrivateKey() *secp256k1.ECDSAPrivateKey {
	return extKey.privateKey
}

// PublicKey returns the public key of this node, deriving it from the
// private key when necessary.
func (extKey *ExtendedKey) PublicKey() (*secp256k1.ECDSAPublicKey, error) {
	if extKey.publicKey != nil {
		return extKey.publicKey, nil
	}

	if extKey.privateKey == nil {
		return nil, errors.New("extended key has neither a private nor a public key")
	}

	publicKey, err := extKey.privateKey.ECDSAPublicKey()
	if err != nil {
		return nil, errors.Wrap(err, "error calculating point")
	}

	extKey.publicKey = publicKey
	return publicKey, nil
}

// Public returns the public counterpart of this extended key, suitable for
// watch-only derivation of non-hardened children.
func (extKey *ExtendedKey) Public() (*ExtendedKey, error) {
	if !extKey.IsPrivate() {
		return extKey, nil
	}

	publicKey, err := extKey.PublicKey()
	if err != nil {
		return nil, err
	}

	version, err := toPublicVersion(extKey.Version)
	if err != nil {
		return nil, err
	}

	return &ExtendedKey{
		publicKey:         publicKey,
		Version:           version,
		Depth:             extKey.Depth,
		ParentFingerprint: extKey.ParentFingerprint,
		ChildNumber:       extKey.ChildNumber,
		ChainCode:         extKey.ChainCode,
	}, nil
}

func (extKey *ExtendedKey) serialize() ([]byte, error) {
	var serialized [extendedKeySerializationLen]byte
	copy(serialized[:versionSerializationLen], extKey.Version[:])
	serialized[versionSerializationLen] = extKey.Depth
	copy(serialized[versionSerializationLen+depthSerializationLen:], extKey.ParentFingerprint[:])
	binary.BigEndian.PutUint32(
		serialized[versionSerializationLen+depthSerializationLen+fingerprintSerializationLen:],
		extKey.ChildNumber,
	)
	copy(
		serialized[versionSerializationLen+depthSerializationLen+fingerprintSerializationLen+childNumberSerializationLen:],
		extKey.ChainCode[:],
	)

	keyDataOffset := versionSerializationLen +
		depthSerializationLen +
		fingerprintSerializationLen +
		childNumberSerializationLen +
		chainCodeSerializationLen
	if extKey.IsPrivate() {
		serialized[keyDataOffset] = 0
		copy(serialized[keyDataOffset+1:], extKey.privateKey.Serialize()[:])
	} else {
		publicKey, err := extKey.PublicKey()
		if err != nil {
			return nil, err
		}
		serializedPublicKey, err := publicKey.Serialize()
		if err != nil {
			return nil, errors.Wrap(err, "error serializing public key")
		}
		copy(serialized[keyDataOffset:], serializedPublicKey[:])
	}

	checkSum := calcChecksum(serialized[:extendedKeySerializationLen-checkSumLen])
	copy(serialized[extendedKeySerializationLen-checkSumLen:], checkSum)
	return serialized[:], nil
}

// String serializes the extended key in the standard base58 form (xprv/xpub).
func (extKey *ExtendedKey) String() string {
	serialized, err := extKey.serialize()
	if err != nil {
		panic(errors.Wrap(err, "error serializing extended key"))
	}
	return base58.Encode(serialized)
}

// DeserializeExtendedKey deserializes the given base58 string into an
// extended private or public key, depending on its contents.
func DeserializeExtendedKey(extKeyString string) (*ExtendedKey, error) {
	serialized := base58.Decode(extKeyString)
	if len(serialized) != extendedKeySerializationLen {
		return nil, errors.Errorf("key length must be %d bytes but got %d",
			extendedKeySerializationLen, len(serialized))
	}

	err := validateChecksum(serialized)
	if err != nil {
		return nil, err
	}

	extKey := &ExtendedKey{}
	copy(extKey.Version[:], serialized[:versionSerializationLen])
	extKey.Depth = serialized[versionSerializationLen]
	copy(extKey.ParentFingerprint[:], serialized[versionSerializationLen+depthSerializationLen:])
	extKey.ChildNumber = binary.BigEndian.Uint32(
		serialized[versionSerializationLen+depthSerializationLen+fingerprintSerializationLen:],
	)
	copy(
		extKey.ChainCode[:],
		serialized[versionSerializationLen+depthSerializationLen+fingerprintSerializationLen+childNumberSerializationLen:],
	)

	keyDataOffset := versionSerializationLen +
		depthSerializationLen +
		fingerprintSerializationLen +
		childNumberSerializationLen +
		chainCodeSerializationLen
	keyData := serialized[keyDataOffset : keyDataOffset+keySerializationLen]

	// Private key data is padded with a zero byte; compressed public keys
	// always start with 0x02 or 0x03.
	if keyData[0] == 0 {
		extKey.privateKey, err = secp256k1.DeserializeECDSAPrivateKeyFromSlice(keyData[1:])
		if err != nil {
			return nil, err
		}
	} else {
		extKey.publicKey, err = secp256k1.DeserializeECDSAPubKey(keyData)
		if err != nil {
			return nil, err
		}
	}

	return extKey, nil
}
