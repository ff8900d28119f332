package main

import (
	"github.com/hathornetwork/htrsignd/infrastructure/config"
	"github.com/jessevdk/go-flags"
)

type configFlags struct {
	KeysFile string `long:"keysfile" description:"Keys file location (default: <appdir>/<network>/keys.json)"`
	config.NetworkFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	cfg.ResolveNetwork()

	return cfg, nil
}
