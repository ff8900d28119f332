package main

import (
	"fmt"
	"os"

	"github.com/hathornetwork/htrsignd/domain/keychain"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(err)
	}

	mnemonic, err := keychain.CreateMnemonic()
	if err != nil {
		printErrorAndExit(err)
	}

	err = keychain.CreateKeysFile(cfg.NetParams(), cfg.KeysFile, mnemonic)
	if err != nil {
		printErrorAndExit(err)
	}

	address, err := firstReceiveAddress(cfg, mnemonic)
	if err != nil {
		printErrorAndExit(err)
	}

	fmt.Printf("\nThis is the seed phrase of the new wallet. Write it down and keep it safe.\n"+
		"It is shown only this once:\n\n%s\n\n", mnemonic)
	fmt.Printf("The first receive address is:\n%s\n", address)
}

func firstReceiveAddress(cfg *configFlags, mnemonic string) (string, error) {
	keyChain, err := keychain.FromMnemonic(mnemonic, "", cfg.NetParams())
	if err != nil {
		return "", err
	}

	keyPair, err := keyChain.AddressKey(0)
	if err != nil {
		return "", err
	}
	defer keyPair.Zero()

	return keyPair.Address()
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
