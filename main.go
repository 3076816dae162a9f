package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/memmaker/sweepmove/engine/util"
	"go.uber.org/zap"
)

var newLogger = util.NewConsoleLogger

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit code. Everything deferred here runs before the exit.
func run(args []string, stderr io.Writer) int {
	options := demoOptions{}
	flags := flag.NewFlagSet("sweepmove", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&options.configFile, "config", "", "movement config (yaml)")
	flags.StringVar(&options.levelFile, "level", "", "level collision file (gltf/glb), defaults to a built in test level")
	flags.IntVar(&options.ticks, "ticks", 180, "number of ticks to simulate")
	flags.Float64Var(&options.deltaTime, "dt", 1.0/60.0, "tick length in seconds")
	debug := flags.Bool("debug", false, "log physics and movement details")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	util.SetLogger(logger)
	if *debug {
		util.SetLogLevel(util.LogLevelDebug)
	}

	if err := runDemo(options); err != nil {
		util.LogIOError("demo failed", zap.Error(err))
		return 1
	}
	return 0
}
