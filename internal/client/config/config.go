package config

import (
	"os"
	"time"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds runtime settings for the storefront client.
type Config struct {
	APIURL string

	Storage      string
	DataDir      string
	StoragePath  string
	PollInterval time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string

	// RateLimit caps outgoing requests per second; 0 disables the limit.
	RateLimit float64

	Env       string
	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "https://kozzyserverapi.azurewebsites.net"
	c.Storage = StorageSQLite
	c.DataDir = ".storefront"
	c.StoragePath = "storefront.db"
	c.PollInterval = time.Second
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RedisNamespace = "storefront"
	c.RateLimit = 0
	c.Env = "development"
	c.LogLevel = "info"
	c.LogFormat = "zap"
}

// LoadConfig builds a Config from defaults, the environment (and ./.env),
// the JSON file and the process flags. Later sources take precedence.
func LoadConfig() *Config {
	return load(os.Args[1:], ".env")
}

func load(args []string, dotenv string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, dotenv)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
