package app

import (
	"sync/atomic"

	"github.com/hathornetwork/htrsignd/app/protocol"
	"github.com/hathornetwork/htrsignd/domain/keychain"
	"github.com/hathornetwork/htrsignd/domain/signer"
	"github.com/hathornetwork/htrsignd/infrastructure/config"
	"github.com/hathornetwork/htrsignd/infrastructure/network/hostlink"
	"github.com/hathornetwork/htrsignd/infrastructure/screen"
)

// ComponentManager is a wrapper for all the htrsignd services
type ComponentManager struct {
	cfg             *config.Config
	protocolManager *protocol.Manager
	hostLinkServer  *hostlink.Server

	started, shutdown int32
}

// Start launches all the htrsignd services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Trace("Starting htrsignd")

	a.hostLinkServer.Start()

	if a.cfg.AutoApprove {
		log.Infof("Auto-approval is enabled: every prompt will be approved without interaction")
	}
}

// Stop gracefully shuts down all the htrsignd services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("htrsignd is already in the process of shutting down")
		return
	}

	log.Warnf("htrsignd shutting down")

	err := a.hostLinkServer.Stop()
	if err != nil {
		log.Errorf("Error stopping the host link server: %+v", err)
	}
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, keyChain *keychain.KeyChain) (*ComponentManager, error) {
	protocolManager := protocol.NewManager(cfg.NetParams(), keyChain, buildScreen(cfg))
	hostLinkServer, err := hostlink.New(cfg.Listen, protocolManager.HandleFrame)
	if err != nil {
		return nil, err
	}

	return &ComponentManager{
		cfg:             cfg,
		protocolManager: protocolManager,
		hostLinkServer:  hostLinkServer,
	}, nil
}

func buildScreen(cfg *config.Config) signer.Screen {
	if cfg.AutoApprove {
		return screen.NewAutoApprove()
	}
	return screen.NewTerminal()
}
