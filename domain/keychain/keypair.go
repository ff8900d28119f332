package keychain

import (
	"crypto/sha256"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/hathornetwork/htrsignd/util"
	"github.com/pkg/errors"
)

// KeyPair is a single address key. Signing uses deterministic ECDSA
// (RFC 6979), so the same digest always yields the same signature.
type KeyPair struct {
	privateKey *secp256k1.PrivateKey
	params     *netparams.Params
}

func newKeyPair(privateKeyBytes []byte, params *netparams.Params) *KeyPair {
	return &KeyPair{
		privateKey: secp256k1.PrivKeyFromBytes(privateKeyBytes),
		params:     params,
	}
}

// SerializedPublicKey returns the 33-byte compressed form of the public key.
func (kp *KeyPair) SerializedPublicKey() []byte {
	return kp.privateKey.PubKey().SerializeCompressed()
}

// UncompressedPublicKey returns the 65-byte uncompressed form of the
// public key.
func (kp *KeyPair) UncompressedPublicKey() []byte {
	return kp.privateKey.PubKey().SerializeUncompressed()
}

// PublicKeyHash returns the RIPEMD160(SHA256) hash of the compressed public
// key. This is the value pay-to-pubkey-hash scripts commit to.
func (kp *KeyPair) PublicKeyHash() []byte {
	return util.Hash160(kp.SerializedPublicKey())
}

// Address renders the pay-to-pubkey-hash address of this key on the key
// chain's network.
func (kp *KeyPair) Address() (string, error) {
	return util.EncodeAddress(kp.PublicKeyHash(), kp.params.P2PKHVersion)
}

// Sign signs a 32-byte digest and returns the DER-encoded signature.
func (kp *KeyPair) Sign(digest []byte) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, errors.Errorf("digest must be %d bytes but got %d", sha256.Size, len(digest))
	}

	signature := ecdsa.Sign(kp.privateKey, digest)
	return signature.Serialize(), nil
}

// Zero overwrites the private key material. The pair is unusable afterwards.
func (kp *KeyPair) Zero() {
	kp.privateKey.Zero()
}
