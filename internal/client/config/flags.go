package config

import (
	"flag"
	"io"
	"time"

	"github.com/ktech-edu/ktechhub/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API base URL
//	-t int      request timeout (in seconds)
//	-d string   data directory
//	-s string   store backend (sqlite, bolt, file, redis, memory)
//	-dsn string store location for the selected backend
//	-l string   log level
//
// Arguments not listed above are filtered out with flagx.FilterArgs so the
// config-file flags do not break parsing. Invalid values panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-s", "-dsn", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend")
	fs.StringVar(&cfg.StoreDSN, "dsn", cfg.StoreDSN, "store location")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
