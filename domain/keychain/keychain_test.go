package keychain

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/hathornetwork/htrsignd/domain/bip32"
	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/tyler-smith/go-bip39"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestFromMnemonicRejectsInvalidPhrase(t *testing.T) {
	_, err := FromMnemonic("definitely not twenty four valid words", "", &netparams.MainnetParams)
	if err == nil {
		t.Fatalf("FromMnemonic: expected an error for an invalid mnemonic")
	}
}

func TestAddressKeyIsDeterministic(t *testing.T) {
	keyChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	first, err := keyChain.AddressKey(7)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	second, err := keyChain.AddressKey(7)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	if !bytes.Equal(first.SerializedPublicKey(), second.SerializedPublicKey()) {
		t.Fatalf("deriving the same index twice gave different keys")
	}

	other, err := keyChain.AddressKey(8)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	if bytes.Equal(first.SerializedPublicKey(), other.SerializedPublicKey()) {
		t.Fatalf("different indexes gave the same key")
	}
}

// TestAddressKeyMatchesExtendedKeyDerivation cross-checks the signing key
// bridge: the public key the signing library reports for an address index
// must be exactly the public key the extended key tree derives for it.
func TestAddressKeyMatchesExtendedKeyDerivation(t *testing.T) {
	keyChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	seed := bip39.NewSeed(testMnemonic, "")
	accountKey, err := bip32.NewMasterWithPath(seed, bip32.BitcoinMainnetPrivate, "m/44'/280'/0'")
	if err != nil {
		t.Fatalf("NewMasterWithPath: %+v", err)
	}

	externalKey, err := accountKey.Child(0)
	if err != nil {
		t.Fatalf("Child: %+v", err)
	}

	for _, index := range []uint32{0, 1, 19} {
		childKey, err := externalKey.Child(index)
		if err != nil {
			t.Fatalf("Child: %+v", err)
		}

		childPublicKey, err := childKey.PublicKey()
		if err != nil {
			t.Fatalf("PublicKey: %+v", err)
		}

		serializedChildPublicKey, err := childPublicKey.Serialize()
		if err != nil {
			t.Fatalf("Serialize: %+v", err)
		}

		pair, err := keyChain.AddressKey(index)
		if err != nil {
			t.Fatalf("AddressKey: %+v", err)
		}

		if !bytes.Equal(serializedChildPublicKey[:], pair.SerializedPublicKey()) {
			t.Fatalf("index %d: extended key derivation and address key disagree on the public key", index)
		}
	}
}

func TestAddressVersionPrefix(t *testing.T) {
	mainnetChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	testnetChain, err := FromMnemonic(testMnemonic, "", &netparams.TestnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	mainnetPair, err := mainnetChain.AddressKey(0)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	mainnetAddress, err := mainnetPair.Address()
	if err != nil {
		t.Fatalf("Address: %+v", err)
	}

	if !strings.HasPrefix(mainnetAddress, "H") {
		t.Fatalf("expected a mainnet address starting with H but got %s", mainnetAddress)
	}

	testnetPair, err := testnetChain.AddressKey(0)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	testnetAddress, err := testnetPair.Address()
	if err != nil {
		t.Fatalf("Address: %+v", err)
	}

	if !strings.HasPrefix(testnetAddress, "W") {
		t.Fatalf("expected a testnet address starting with W but got %s", testnetAddress)
	}

	if !bytes.Equal(mainnetPair.PublicKeyHash(), testnetPair.PublicKeyHash()) {
		t.Fatalf("the same index should hash to the same public key hash on both networks")
	}
}

func TestSignProducesVerifiableDeterministicSignature(t *testing.T) {
	keyChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	pair, err := keyChain.AddressKey(0)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	digest := sha256.Sum256([]byte("some signing payload"))
	serializedSignature, err := pair.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}

	signature, err := ecdsa.ParseDERSignature(serializedSignature)
	if err != nil {
		t.Fatalf("ParseDERSignature: %+v", err)
	}

	publicKey, err := secp256k1.ParsePubKey(pair.SerializedPublicKey())
	if err != nil {
		t.Fatalf("ParsePubKey: %+v", err)
	}

	if !signature.Verify(digest[:], publicKey) {
		t.Fatalf("signature doesn't verify against the pair's public key")
	}

	again, err := pair.Sign(digest[:])
	if err != nil {
		t.Fatalf("Sign: %+v", err)
	}

	if !bytes.Equal(serializedSignature, again) {
		t.Fatalf("signing the same digest twice gave different signatures")
	}
}

func TestSignRejectsWrongDigestLength(t *testing.T) {
	keyChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	pair, err := keyChain.AddressKey(0)
	if err != nil {
		t.Fatalf("AddressKey: %+v", err)
	}

	_, err = pair.Sign([]byte{0x01, 0x02, 0x03})
	if err == nil {
		t.Fatalf("Sign: expected an error for a short digest")
	}
}

func TestAccountInfoShape(t *testing.T) {
	keyChain, err := FromMnemonic(testMnemonic, "", &netparams.MainnetParams)
	if err != nil {
		t.Fatalf("FromMnemonic: %+v", err)
	}

	info, err := keyChain.AccountInfo()
	if err != nil {
		t.Fatalf("AccountInfo: %+v", err)
	}

	if info.PublicKey[0] != 0x04 {
		t.Fatalf("expected an uncompressed public key prefix 0x04 but got %#02x", info.PublicKey[0])
	}

	var zeroChainCode [32]byte
	if info.ChainCode == zeroChainCode {
		t.Fatalf("chain code is all zero")
	}

	var zeroFingerprint [4]byte
	if info.ParentFingerprint == zeroFingerprint {
		t.Fatalf("parent fingerprint is all zero")
	}
}

func TestMnemonicEncryptionRoundTrip(t *testing.T) {
	password := []byte("correct horse battery staple")
	encrypted, err := EncryptMnemonic(testMnemonic, password)
	if err != nil {
		t.Fatalf("EncryptMnemonic: %+v", err)
	}

	decrypted, err := encrypted.Decrypt(password)
	if err != nil {
		t.Fatalf("Decrypt: %+v", err)
	}

	if decrypted != testMnemonic {
		t.Fatalf("decryption returned a different mnemonic")
	}

	_, err = encrypted.Decrypt([]byte("wrong password"))
	if err == nil {
		t.Fatalf("Decrypt: expected an error for a wrong password")
	}
}
