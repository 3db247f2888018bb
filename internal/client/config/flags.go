package config

import (
	"flag"
	"io"
	"time"

	"github.com/culvertcrawlers/fieldsurvey/internal/flagx"
)

// parseFlags populates Config from the short flags listed in the package
// doc. Unknown arguments are filtered out first; invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-l", "-i", "-n", "-w", "-t", "-v"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "survey server base URL")
	fs.StringVar(&cfg.HealthGRPCAddr, "g", cfg.HealthGRPCAddr, "gRPC health address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LinkCheckAddr, "l", cfg.LinkCheckAddr, "link check address")
	interval := fs.Int("i", int(cfg.LinkCheckInterval.Seconds()), "link check interval (in seconds)")
	fs.IntVar(&cfg.ProbeAttempts, "n", cfg.ProbeAttempts, "probe attempts")
	delay := fs.Int("w", int(cfg.ProbeDelay.Milliseconds()), "pause between probe attempts (in milliseconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.LinkCheckInterval = time.Duration(*interval) * time.Second
	cfg.ProbeDelay = time.Duration(*delay) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
