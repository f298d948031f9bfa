// Command aqsdemo drives the aqs-based synchronizers through the scenarios
// they are built for and logs what happens.
//
// Usage:
//
//	aqsdemo --scenario=handoff            # three goroutines take a mutex in turn
//	aqsdemo --scenario=timeout --timeout=50ms
//	aqsdemo --scenario=cascade --goroutines=16
//	aqsdemo --scenario=contention --goroutines=8 --iterations=10000
//	aqsdemo --scenario=all --v=2          # everything, with engine trace logs
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"v.io/x/lib/vlog"
)

type config struct {
	scenario   string
	goroutines int
	iterations int
	timeout    time.Duration
	verbosity  int
}

var scenarios = map[string]func(config) error{
	"handoff":    runHandoff,
	"timeout":    runTimeout,
	"cascade":    runCascade,
	"contention": runContention,
}

var scenarioOrder = []string{"handoff", "timeout", "cascade", "contention"}

func main() {
	var cfg config
	fs := pflag.NewFlagSet("aqsdemo", pflag.ExitOnError)
	fs.StringVar(&cfg.scenario, "scenario", "all", "scenario to run: handoff, timeout, cascade, contention or all")
	fs.IntVar(&cfg.goroutines, "goroutines", 8, "number of competing goroutines")
	fs.IntVar(&cfg.iterations, "iterations", 10000, "acquire/release pairs per goroutine in the contention scenario")
	fs.DurationVar(&cfg.timeout, "timeout", 50*time.Millisecond, "budget for the timed acquire in the timeout scenario")
	fs.IntVar(&cfg.verbosity, "v", 0, "log verbosity; 2 traces engine cancellations")
	_ = fs.Parse(os.Args[1:])

	if err := vlog.Configure(vlog.LogToStderr(true), vlog.Level(cfg.verbosity)); err != nil {
		fmt.Fprintf(os.Stderr, "aqsdemo: configuring logger: %v\n", err)
		os.Exit(1)
	}
	defer vlog.FlushLog()

	if err := run(cfg); err != nil {
		vlog.Errorf("%v", err)
		vlog.FlushLog()
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.goroutines < 1 {
		return fmt.Errorf("--goroutines must be at least 1, got %d", cfg.goroutines)
	}
	names := []string{cfg.scenario}
	if cfg.scenario == "all" {
		names = scenarioOrder
	}
	for _, name := range names {
		fn, ok := scenarios[name]
		if !ok {
			return fmt.Errorf("unknown scenario %q", name)
		}
		vlog.Infof("=== %s", name)
		start := time.Now()
		if err := fn(cfg); err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
		vlog.Infof("=== %s ok (%v)", name, time.Since(start).Round(time.Microsecond))
	}
	return nil
}
