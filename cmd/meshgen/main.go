// meshgen generates procedural terrain meshes with scattered props and
// exports them as binary STL.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshgen/internal/config"
	"github.com/Faultbox/meshgen/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Debug("config loaded", zap.String("output", cfg.Output.Dir), zap.String("handoff", cfg.Output.Handoff))

	command := args[0]
	rest := args[1:]

	switch command {
	case "generate", "gen":
		err = cmdGenerate(cfg, rest)
	case "preset":
		err = cmdPreset(cfg, rest)
	case "config":
		err = cmdConfig(cfg, rest)
	case "inspect":
		err = cmdInspect(rest)
	case "serve":
		err = cmdServe(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshgen - procedural terrain mesh generator

Usage:
  meshgen [global options] <command> [options]

Global options:
  -config <file>      Config file (default ./meshgen.yaml or the user config dir)
  -out <dir>          Output directory
  -workers <n>        Worker goroutines per stage
  -memory             Keep the terrain in memory between stages
  -debug              Debug logging
  -log-file <file>    Also log to a rotating file
  -log-format <fmt>   console or json

Commands:
  generate [-preset src] [-seed n] [-random-seed] [-noise kind]
                                Run the full pipeline
  preset init <file>            Write the default preset (.json or .yaml)
  preset show <src>             Print the parameters a preset resolves to
  config save [file]            Save the effective config (default: user config dir)
  inspect <file.stl>            Show triangle count and bounds of an STL file
  serve [-addr host:port]       Serve the pipeline over HTTP

Preset sources are local files or go-getter URLs (https://, git::, s3::).

Examples:
  meshgen generate
  meshgen -out ./build generate -preset hills.json -seed 42
  meshgen preset init my-preset.yaml
  meshgen inspect combined_terrain_with_objects.stl
  meshgen serve -addr :8080`)
}
