package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the server and the data layer.
type Config struct {
	ListenAddr     string
	DataDir        string
	RegistryFile   string
	UsersFile      string
	ActivityLog    string
	DatasetTTL     time.Duration
	FetchTimeout   time.Duration
	AllowedOrigins []string
}

// Default returns the settings used when no config file or environment
// overrides are present.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		DataDir:        "data",
		RegistryFile:   "data/multi_sheets_config.json",
		UsersFile:      "users.json",
		ActivityLog:    "logs/activity.log",
		DatasetTTL:     5 * time.Minute,
		FetchTimeout:   15 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Load reads config.yaml from configPath and applies environment
// overrides (prefix ESTATEDESK, e.g. ESTATEDESK_LISTEN_ADDR).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("ESTATEDESK")

	v.BindEnv("server.listen_addr", "ESTATEDESK_LISTEN_ADDR")
	v.BindEnv("data.dir", "ESTATEDESK_DATA_DIR")
	v.BindEnv("data.registry_file", "ESTATEDESK_REGISTRY_FILE")
	v.BindEnv("data.users_file", "ESTATEDESK_USERS_FILE")
	v.BindEnv("data.activity_log", "ESTATEDESK_ACTIVITY_LOG")
	v.BindEnv("cache.dataset_ttl", "ESTATEDESK_DATASET_TTL")
	v.BindEnv("fetch.timeout", "ESTATEDESK_FETCH_TIMEOUT")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Use defaults + env.
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.listen_addr") {
		cfg.ListenAddr = v.GetString("server.listen_addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("data.dir") {
		cfg.DataDir = v.GetString("data.dir")
	}
	if v.IsSet("data.registry_file") {
		cfg.RegistryFile = v.GetString("data.registry_file")
	}
	if v.IsSet("data.users_file") {
		cfg.UsersFile = v.GetString("data.users_file")
	}
	if v.IsSet("data.activity_log") {
		cfg.ActivityLog = v.GetString("data.activity_log")
	}
	if v.IsSet("cache.dataset_ttl") {
		cfg.DatasetTTL = v.GetDuration("cache.dataset_ttl")
	}
	if v.IsSet("fetch.timeout") {
		cfg.FetchTimeout = v.GetDuration("fetch.timeout")
	}

	return cfg, nil
}
