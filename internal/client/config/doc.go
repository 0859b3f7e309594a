// Package config loads runtime configuration for the storefront client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after an optional .env file is loaded with
//     godotenv. Variables already set in the process environment win over
//     the file.
//  3. Optional JSON file selected with -c / -config (or $STOREFRONT_CONFIG).
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the storefront REST API
//	-s string   storage backend: sqlite, redis or memory
//	-p string   SQLite file (relative paths live under the data dir)
//	-r string   redis address host:port
//	-i int      external change poll interval (seconds; 0 keeps the configured value)
//	-q float    request rate limit (requests per second, 0 = unlimited)
//	-l string   log level: debug, info, warn, error
//	-f string   log format: zap or text
//
// # Environment
//
//	STOREFRONT_API_URL, STOREFRONT_STORAGE, STOREFRONT_STORAGE_PATH,
//	STOREFRONT_REDIS_ADDR, STOREFRONT_REDIS_PASSWORD, STOREFRONT_REDIS_DB,
//	STOREFRONT_ENV, STOREFRONT_LOG_LEVEL, STOREFRONT_LOG_FORMAT
//
// # JSON schema
//
// Intervals use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds. Absent keys leave earlier values untouched:
//
//	{
//	  "api_url": "https://kozzyserverapi.azurewebsites.net",
//	  "storage": "sqlite",
//	  "storage_path": "storefront.db",
//	  "data_dir": ".storefront",
//	  "poll_interval": "1s",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "redis_namespace": "storefront",
//	  "rate_limit": 5,
//	  "env": "production",
//	  "log_level": "info",
//	  "log_format": "zap"
//	}
//
// Invalid JSON, environment or flag values panic: misconfiguration is a
// startup failure.
package config
