package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/salesdesk/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-u string   backend API base URL
//	-s string   path of the local state database
//	-t int      request timeout in seconds
//	-l string   log level
//
// Other arguments are ignored, so the config file flags can share args.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-u", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("salesdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "backend API base URL")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local state database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only override when -t was given, so sub-second values from other
	// sources survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
