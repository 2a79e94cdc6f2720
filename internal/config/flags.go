package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagOut       = flag.String("out", "", "Output directory")
	flagWorkers   = flag.Int("workers", 0, "Worker goroutines per stage")
	flagMemory    = flag.Bool("memory", false, "Hand the terrain to placement in memory instead of re-reading it")
	flagLogFile   = flag.String("log-file", "", "Also log to this file")
	flagLogFormat = flag.String("log-format", "", "Log format: console or json")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagWorkers > 0 {
		cfg.Pipeline.Workers = *flagWorkers
	}
	if *flagMemory {
		cfg.Output.Handoff = "memory"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagLogFormat != "" {
		cfg.Logging.Format = *flagLogFormat
	}
}
