package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	APIURL         string          `json:"api_url"`
	Storage        string          `json:"storage"`
	DataDir        string          `json:"data_dir"`
	StoragePath    string          `json:"storage_path"`
	PollInterval   *timex.Duration `json:"poll_interval"`
	RedisAddr      string          `json:"redis_addr"`
	RedisPassword  string          `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	RedisNamespace string          `json:"redis_namespace"`
	RateLimit      *float64        `json:"rate_limit"`
	Env            string          `json:"env"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
}

// parseJson overlays cfg with the JSON file named by -c / -config in args
// (or $STOREFRONT_CONFIG). Without a file nothing changes.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.APIURL, jc.APIURL)
	overlay(&cfg.Storage, jc.Storage)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.StoragePath, jc.StoragePath)
	overlay(&cfg.RedisAddr, jc.RedisAddr)
	overlay(&cfg.RedisPassword, jc.RedisPassword)
	overlay(&cfg.RedisNamespace, jc.RedisNamespace)
	overlay(&cfg.Env, jc.Env)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)

	if jc.PollInterval != nil {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
