// Command contract-tests runs the Todo REST API contract-test suite against
// an already-running service instance and reports the results on the console.
//
// Usage:
//
//	contract-tests [-url http://localhost:4567] [-run regex] [-skip regex] [-debug]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/todoapi/contract-tests/apitests"
	"github.com/todoapi/contract-tests/config"
	"github.com/todoapi/contract-tests/framework"
	"github.com/todoapi/contract-tests/rest"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var serviceURL string
	var configPath string
	var probeTimeoutSec int
	var filters framework.RegexFilters
	var debug bool
	var debugAll bool

	fs := flag.NewFlagSet("contract-tests", flag.ExitOnError)
	fs.StringVar(&serviceURL, "url", "", "base URL of the Todo service under test")
	fs.StringVar(&configPath, "config", "", "optional YAML config file")
	fs.IntVar(&probeTimeoutSec, "timeout", 0, "seconds to wait for the service at startup")
	fs.Var(&filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&debug, "debug", false, "enable debug output for failed tests")
	fs.BoolVar(&debugAll, "debug-all", false, "enable debug output for all tests")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	// Flags given on the command line win over the config file.
	if serviceURL != "" {
		cfg.ServiceURL = serviceURL
	}
	if probeTimeoutSec > 0 {
		cfg.ProbeTimeoutSec = probeTimeoutSec
	}
	cfg.Debug = cfg.Debug || debug
	cfg.DebugAll = cfg.DebugAll || debugAll
	for _, p := range cfg.Run {
		if err := filters.MustMatch.Set(p); err != nil {
			fmt.Fprintf(os.Stderr, "bad run pattern in config: %s\n", err)
			return 1
		}
	}
	for _, p := range cfg.Skip {
		if err := filters.MustNotMatch.Set(p); err != nil {
			fmt.Fprintf(os.Stderr, "bad skip pattern in config: %s\n", err)
			return 1
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := rest.Probe(cfg.ServiceURL, time.Duration(cfg.ProbeTimeoutSec)*time.Second, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Todo service error: %s\n", err)
		return 1
	}

	fmt.Println()
	filters.Describe(os.Stdout)
	fmt.Println("Running test suite")

	client := rest.NewClient(cfg.ServiceURL, time.Duration(cfg.RequestTimeoutSec)*time.Second, nil)
	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: cfg.Debug || cfg.DebugAll,
		DebugOutputOnSuccess: cfg.DebugAll,
	}

	results := apitests.RunTestSuite(client, filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		return 1
	}
	return 0
}
