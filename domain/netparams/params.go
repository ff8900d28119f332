package netparams

// Params defines the Hathor network a signing device operates on. Apart from
// the default host-link port, the networks differ only in the version byte
// embedded in base58check addresses, which is what makes mainnet addresses
// start with 'H' and testnet addresses with 'W'.
type Params struct {
	// Name is the human-readable network name, also used as a directory
	// name for per-network files.
	Name string

	// DefaultPort is the default port the host link listens on.
	DefaultPort string

	// P2PKHVersion is the version byte prepended to a public key hash when
	// encoding a pay-to-public-key-hash address.
	P2PKHVersion byte

	// BIP44CoinType is Hathor's registered coin type, used as the second
	// component of the derivation path m/44'/coin'/0'.
	BIP44CoinType uint32

	// CurrencyLabel is the ticker shown next to output values on the
	// review screen.
	CurrencyLabel string
}

// MainnetParams defines the Hathor main network.
var MainnetParams = Params{
	Name:          "mainnet",
	DefaultPort:   "40280",
	P2PKHVersion:  0x28,
	BIP44CoinType: 280,
	CurrencyLabel: "HTR",
}

// TestnetParams defines the Hathor test network.
var TestnetParams = Params{
	Name:          "testnet",
	DefaultPort:   "40281",
	P2PKHVersion:  0x49,
	BIP44CoinType: 280,
	CurrencyLabel: "HTR",
}
