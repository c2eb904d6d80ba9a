package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultDataDir  = "whiteflag_data"
	defaultLogLevel = "info"
)

type config struct {
	DataDir      string `short:"b" long:"datadir" description:"Directory for the leveldb store"`
	LogLevel     string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical}"`
	SnapshotFile string `short:"s" long:"snapshot" description:"JSON file describing the tangle, storage seed, and tips to confirm" required:"true"`
}

func parseConfig() (*config, error) {
	cfg := &config{
		DataDir:  defaultDataDir,
		LogLevel: defaultLogLevel,
	}

	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	if cfg.SnapshotFile == "" {
		return nil, errors.New("--snapshot is required")
	}

	return cfg, nil
}
