package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory = "memory"
)

type Config struct {
	Port           string `yaml:"port"`
	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`

	GeocoderAPIKey         string `yaml:"geocoder_api_key"`
	GeocoderURL            string `yaml:"geocoder_url"`
	GeocoderTimeoutMs      int    `yaml:"geocoder_timeout_ms"`
	GeocoderCachePrecision int    `yaml:"geocoder_cache_precision"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	StoreFolder     string   `yaml:"store_folder"`
	StoreBaseURL    string   `yaml:"store_base_url"`
	DefaultWorkbook string   `yaml:"default_workbook"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

func defaults() Config {
	return Config{
		Port:                   "8080",
		GeocoderTimeoutMs:      5000,
		GeocoderCachePrecision: 7,
		LogLevel:               "info",
		LogFormat:              "json",
		StoreFolder:            "GeoGuessr Stats Users",
		StoreBaseURL:           "http://localhost:8080/workbooks",
		CORSOrigins:            []string{"*"},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables. A .env file in the working
// directory is loaded into the environment first if present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.GeocoderAPIKey = getEnv("GEOCODER_API_KEY", cfg.GeocoderAPIKey)
	cfg.GeocoderURL = getEnv("GEOCODER_URL", cfg.GeocoderURL)
	cfg.GeocoderTimeoutMs = getEnvInt("GEOCODER_TIMEOUT_MS", cfg.GeocoderTimeoutMs)
	cfg.GeocoderCachePrecision = getEnvInt("GEOCODER_CACHE_PRECISION", cfg.GeocoderCachePrecision)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.StoreFolder = getEnv("STORE_FOLDER", cfg.StoreFolder)
	cfg.StoreBaseURL = getEnv("STORE_BASE_URL", cfg.StoreBaseURL)
	cfg.DefaultWorkbook = getEnv("DEFAULT_WORKBOOK", cfg.DefaultWorkbook)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)

	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverMemory
		if cfg.DatabaseURL != "" {
			cfg.DatabaseDriver = "postgres"
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
