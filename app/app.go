package app

import (
	"encoding/hex"

	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/infrastructure/config"
	"github.com/hathornetwork/htrsignd/infrastructure/logger"
	"github.com/hathornetwork/htrsignd/infrastructure/os/signal"
	"github.com/hathornetwork/htrsignd/util/panics"
	"github.com/hathornetwork/htrsignd/util/profiling"
	"github.com/hathornetwork/htrsignd/version"
	"github.com/pkg/errors"
)

// StartApp starts htrsignd and blocks until it shuts down.
func StartApp() error {
	interrupt := signal.InterruptListener()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()
	defer panics.HandlePanic(log, "MAIN", nil)

	app := &signdApp{cfg: cfg}

	// Call the app run in a separate function so that defers will be called
	// when the app finishes
	return app.main(interrupt)
}

type signdApp struct {
	cfg *config.Config
}

func (app *signdApp) main(interrupt chan struct{}) error {
	// Show version at startup.
	log.Infof("Version %s", version.Version())
	log.Infof("Serving the %s network", app.cfg.NetParams().Name)

	// Enable http profiling server if requested.
	if app.cfg.Profile != "" {
		profiling.Start(app.cfg.Profile, log)
	}

	keyChain, err := unlockKeyChain(app.cfg)
	if err != nil {
		return errors.Wrap(err, "could not unlock the key chain")
	}

	componentManager, err := NewComponentManager(app.cfg, keyChain)
	if err != nil {
		return errors.Wrap(err, "could not assemble the htrsignd services")
	}

	defer componentManager.Stop()
	componentManager.Start()

	<-interrupt
	return nil
}

// unlockKeyChain produces the device key chain, either from the raw seed
// given on the command line or by decrypting the keys file with a password
// prompt.
func unlockKeyChain(cfg *config.Config) (*keychain.KeyChain, error) {
	defer logger.LogAndMeasureExecutionTime(log, "unlockKeyChain")()

	if cfg.Seed != "" {
		log.Warnf("Deriving keys from the --seed option. The seed is visible " +
			"to anything that can read this process's command line")
		seed, err := hex.DecodeString(cfg.Seed)
		if err != nil {
			return nil, errors.Wrap(err, "the seed option is not valid hex")
		}
		return keychain.FromSeed(seed, cfg.NetParams())
	}

	keysFile := cfg.KeysFile
	if keysFile == "" {
		keysFile = keychain.DefaultKeysFile(cfg.NetParams())
	}
	log.Infof("Unlocking the keys file at %s", keysFile)
	return keychain.Unlock(cfg.NetParams(), keysFile)
}
