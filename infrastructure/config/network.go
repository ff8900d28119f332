package config

import (
	"github.com/hathornetwork/htrsignd/domain/netparams"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Serve testnet keys and addresses"`

	ActiveNetParams *netparams.Params
}

// ResolveNetwork applies the network flag: mainnet by default, testnet
// when --testnet is passed.
func (networkFlags *NetworkFlags) ResolveNetwork() {
	networkFlags.ActiveNetParams = &netparams.MainnetParams
	if networkFlags.Testnet {
		networkFlags.ActiveNetParams = &netparams.TestnetParams
	}
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *netparams.Params {
	return networkFlags.ActiveNetParams
}
