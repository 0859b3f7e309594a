package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags populates cfg from the short flags in args. Only the flags
// known here are considered (see flagx.FilterArgs), so flags meant for other
// components do not break parsing.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-p", "-r", "-i", "-q", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the storefront API")
	fs.StringVar(&cfg.Storage, "s", cfg.Storage, "storage backend: sqlite, redis or memory")
	fs.StringVar(&cfg.StoragePath, "p", cfg.StoragePath, "SQLite file path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address host:port")
	pollInterval := fs.Int("i", 0, "external change poll interval in seconds (0 keeps the configured value)")
	fs.Float64Var(&cfg.RateLimit, "q", cfg.RateLimit, "request rate limit per second (0 = unlimited)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format: zap or text")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *pollInterval > 0 {
		cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	}
}
