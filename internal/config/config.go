package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds application configuration values.
type Config struct {
	Secret        string   `yaml:"secret"`
	DatabaseDSN   string   `yaml:"database_dsn"`
	HTTPPort      string   `yaml:"http_port"`
	SeedPath      string   `yaml:"seed_path"`
	AdminUsername string   `yaml:"admin_username"`
	AdminPassword string   `yaml:"admin_password"`
	CORSOrigins   []string `yaml:"cors_origins"`
	LogLevel      string   `yaml:"log_level"`
}

// Load reads configuration from an optional YAML file named by MESAS_CONFIG,
// then environment variables, with reasonable defaults.
func Load() Config {
	var cfg Config
	if path := os.Getenv("MESAS_CONFIG"); path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			log.Printf("unable to read config file %s: %v", path, err)
		} else if err := yaml.Unmarshal(file, &cfg); err != nil {
			log.Printf("unable to parse config file %s: %v", path, err)
		}
	}

	override(&cfg.Secret, "SECRET", "dev_secret")
	override(&cfg.HTTPPort, "HTTP_PORT", "8080")
	override(&cfg.DatabaseDSN, "DATABASE_DSN", "mesas.db")
	override(&cfg.SeedPath, "SEED_PATH", "assets/sample_medicines.csv")
	override(&cfg.AdminUsername, "ADMIN_USERNAME", "admin")
	override(&cfg.AdminPassword, "ADMIN_PASSWORD", "admin123")
	override(&cfg.LogLevel, "LOG_LEVEL", "info")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	return cfg
}

// override sets dst from the environment when the variable is present, and
// falls back to def when neither the file nor the environment provided a value.
func override(dst *string, key, def string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
	if *dst == "" {
		*dst = def
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
