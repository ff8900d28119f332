package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hathornetwork/htrsignd/domain/netparams"
)

func TestResolveNetwork(t *testing.T) {
	mainnetFlags := &NetworkFlags{}
	mainnetFlags.ResolveNetwork()
	if mainnetFlags.NetParams() != &netparams.MainnetParams {
		t.Fatalf("default network is %s, expected mainnet", mainnetFlags.NetParams().Name)
	}

	testnetFlags := &NetworkFlags{Testnet: true}
	testnetFlags.ResolveNetwork()
	if testnetFlags.NetParams() != &netparams.TestnetParams {
		t.Fatalf("network with the testnet flag is %s, expected testnet",
			testnetFlags.NetParams().Name)
	}
}

func TestCleanAndExpandPath(t *testing.T) {
	homeDir := filepath.Dir(DefaultAppDir)

	expanded := cleanAndExpandPath(filepath.Join("~", "keys"))
	if !strings.HasPrefix(expanded, homeDir) {
		t.Fatalf("cleanAndExpandPath(~/keys) = %s, expected it under %s", expanded, homeDir)
	}

	cleaned := cleanAndExpandPath(filepath.Join("a", "b", "..", "c"))
	if cleaned != filepath.Join("a", "c") {
		t.Fatalf("cleanAndExpandPath(a/b/../c) = %s, expected %s", cleaned, filepath.Join("a", "c"))
	}
}
