package config

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   backend base URL
//	-p string   platform
//	-t int      request timeout (seconds)
//	-i int      online check interval (seconds)
//	-s string   secure store path
func parseFlags(cfg *Config, args []string) error {
	args = filterArgs(args, []string{"-a", "-p", "-t", "-i", "-s"})

	fs := flag.NewFlagSet("campus", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "backend base URL")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "secure store path")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only touch durations that were given, so sub-second values from other
	// sources survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
