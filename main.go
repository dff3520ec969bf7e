// Command server-contract-tests launches the demo web server as a child
// process, waits for it to accept connections, runs the contract test suite
// against it over HTTP, and tears the process down afterward no matter how
// the run ends.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dusty-web/server-contract-tests/framework"
	"github.com/dusty-web/server-contract-tests/servertests"
	"github.com/dusty-web/server-contract-tests/supervisor"
)

const (
	exitPass    = 0
	exitFail    = 1
	exitUsage   = 2
	exitSkipped = 3
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return exitUsage
	}
	cfg, err := params.resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return exitUsage
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	sup := supervisor.New(supervisor.Options{
		BinaryPath:     cfg.Binary,
		Host:           cfg.Host,
		Port:           cfg.Port,
		StartupTimeout: time.Duration(cfg.StartupTimeout),
		ShutdownGrace:  time.Duration(cfg.ShutdownGrace),
		PollInterval:   time.Duration(cfg.PollInterval),
		Logger:         mainDebugLogger,
		StartupOutput:  os.Stdout,
	})

	if err := sup.Launch(); err != nil {
		if errors.Is(err, supervisor.ErrBinaryNotFound) {
			fmt.Fprintf(os.Stderr, "Skipping test run: %s\n", err)
			return exitSkipped
		}
		fmt.Fprintf(os.Stderr, "Could not launch server: %s\n", err)
		return exitFail
	}
	// the process must not outlive the harness on any exit path
	defer sup.Shutdown()

	if err := sup.WaitReady(); err != nil {
		fmt.Fprintf(os.Stderr, "Server startup failed: %s\n", err)
		return exitFail
	}

	fmt.Println()
	framework.PrintFilterDescription(params.filters)

	fmt.Println("Running test suite")
	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := servertests.RunTestSuite(servertests.NewTarget(sup.BaseURL()), params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(results)
	if !results.OK() {
		return exitFail
	}
	return exitPass
}
