package util

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Hash160Size is the size of a Hash160 result and therefore of every pubkey
// hash carried in a pay-to-public-key-hash script.
const Hash160Size = ripemd160.Size

// Hash160 calculates ripemd160(sha256(buf)), the hash used for Hathor
// addresses and P2PKH scripts.
func Hash160(buf []byte) []byte {
	shaHash := sha256.Sum256(buf)
	ripemd := ripemd160.New()
	ripemd.Write(shaHash[:])
	return ripemd.Sum(nil)
}
