// Package keychain turns the device seed into the keys the signing flow
// needs: per-index address keys under the fixed BIP44 account, and the
// account-level public key material hosts use to derive addresses on their
// own.
package keychain

import (
	"fmt"

	"github.com/hathornetwork/htrsignd/domain/bip32"
	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// externalChain is the non-change chain of the BIP44 account. The device
// only ever derives keys on the external chain.
const externalChain = 0

// KeyChain derives address keys under the account m/44'/coin'/0' of a
// single seed.
type KeyChain struct {
	params     *netparams.Params
	accountKey *bip32.ExtendedKey
}

// CreateMnemonic generates a fresh 24-word BIP39 mnemonic.
func CreateMnemonic() (string, error) {
	entropy, _ := bip39.NewEntropy(256)
	return bip39.NewMnemonic(entropy)
}

// FromMnemonic builds a key chain from a BIP39 mnemonic and an optional
// passphrase.
func FromMnemonic(mnemonic string, passphrase string, params *netparams.Params) (*KeyChain, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("mnemonic is not a valid BIP39 phrase")
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	return FromSeed(seed, params)
}

// FromSeed builds a key chain from a raw BIP39 seed.
func FromSeed(seed []byte, params *netparams.Params) (*KeyChain, error) {
	accountPath := fmt.Sprintf("m/44'/%d'/0'", params.BIP44CoinType)
	accountKey, err := bip32.NewMasterWithPath(seed, bip32.BitcoinMainnetPrivate, accountPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error deriving the account key at %s", accountPath)
	}

	return &KeyChain{
		params:     params,
		accountKey: accountKey,
	}, nil
}

// AddressKey derives the key pair for the given address index. The caller
// owns the returned pair and should Zero it as soon as signing is done.
func (kc *KeyChain) AddressKey(index uint32) (*KeyPair, error) {
	externalKey, err := kc.accountKey.Child(externalChain)
	if err != nil {
		return nil, err
	}

	addressKey, err := externalKey.Child(index)
	if err != nil {
		return nil, err
	}

	return newKeyPair(addressKey.PrivateKey().Serialize()[:], kc.params), nil
}

// AccountInfo is the extended public key material of the external chain
// node m/44'/coin'/0'/0, reported to hosts: with it a host can derive every
// address key as a single non-hardened child, without the device.
type AccountInfo struct {
	PublicKey         [65]byte
	ChainCode         [32]byte
	ParentFingerprint [4]byte
}

// AccountInfo returns the external chain public key material. The
// fingerprint is the account node's, since that is the external chain
// node's parent.
func (kc *KeyChain) AccountInfo() (*AccountInfo, error) {
	externalKey, err := kc.accountKey.Child(externalChain)
	if err != nil {
		return nil, err
	}

	externalPair := newKeyPair(externalKey.PrivateKey().Serialize()[:], kc.params)
	defer externalPair.Zero()

	info := &AccountInfo{
		ChainCode:         externalKey.ChainCode,
		ParentFingerprint: externalKey.ParentFingerprint,
	}
	copy(info.PublicKey[:], externalPair.UncompressedPublicKey())
	return info, nil
}
