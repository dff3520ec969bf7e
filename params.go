package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dusty-web/server-contract-tests/framework"
	"github.com/dusty-web/server-contract-tests/supervisor"
)

type commandParams struct {
	binaryPath     string
	host           string
	port           int
	startupTimeout time.Duration
	shutdownGrace  time.Duration
	pollInterval   time.Duration
	configPath     string
	filters        framework.RegexFilters
	debug          bool
	debugAll       bool

	explicit map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.binaryPath, "bin", "", "path to the server binary under test")
	fs.StringVar(&c.host, "host", defaultHost, "host the server listens on")
	fs.IntVar(&c.port, "port", defaultPort, "port the server listens on")
	fs.DurationVar(&c.startupTimeout, "startup-timeout", supervisor.DefaultStartupTimeout, "max wait for the server to become ready")
	fs.DurationVar(&c.shutdownGrace, "shutdown-grace", supervisor.DefaultShutdownGrace, "max wait for the server to exit before it is killed")
	fs.DurationVar(&c.pollInterval, "poll-interval", supervisor.DefaultPollInterval, "spacing between readiness probes")
	fs.StringVar(&c.configPath, "config", "", "optional YAML config file (flags take precedence)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	c.explicit = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		c.explicit[f.Name] = true
	})

	if c.binaryPath == "" && c.configPath == "" {
		fmt.Fprintln(os.Stderr, "-bin is required (or provide it in a -config file)")
		fs.Usage()
		return false
	}
	return true
}

// resolveConfig merges the optional YAML config file with the command line.
// Flags that were set explicitly win over file values; everything else falls
// back to the defaults.
func (c *commandParams) resolveConfig() (harnessConfig, error) {
	cfg := harnessConfig{}
	if c.configPath != "" {
		loaded, err := loadConfigFile(c.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.ApplyDefaults()

	if c.explicit["bin"] {
		cfg.Binary = c.binaryPath
	}
	if c.explicit["host"] {
		cfg.Host = c.host
	}
	if c.explicit["port"] {
		cfg.Port = c.port
	}
	if c.explicit["startup-timeout"] {
		cfg.StartupTimeout = duration(c.startupTimeout)
	}
	if c.explicit["shutdown-grace"] {
		cfg.ShutdownGrace = duration(c.shutdownGrace)
	}
	if c.explicit["poll-interval"] {
		cfg.PollInterval = duration(c.pollInterval)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
