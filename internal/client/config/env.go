package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with STOREFRONT_* variables. dotenv, when the file
// exists, is loaded first without overriding variables already set.
func parseEnv(cfg *Config, dotenv string) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&cfg.APIURL, "STOREFRONT_API_URL")
	setString(&cfg.Storage, "STOREFRONT_STORAGE")
	setString(&cfg.StoragePath, "STOREFRONT_STORAGE_PATH")
	setString(&cfg.RedisAddr, "STOREFRONT_REDIS_ADDR")
	setString(&cfg.RedisPassword, "STOREFRONT_REDIS_PASSWORD")
	setString(&cfg.Env, "STOREFRONT_ENV")
	setString(&cfg.LogLevel, "STOREFRONT_LOG_LEVEL")
	setString(&cfg.LogFormat, "STOREFRONT_LOG_FORMAT")

	if v, ok := os.LookupEnv("STOREFRONT_REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.RedisDB = db
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
