package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// secretEnvVars may be supplied through a file named by <VAR>_FILE, the
// convention used by Docker and Kubernetes secret mounts.
var secretEnvVars = []string{
	"DATABASE_DSN",
	"AUTH_JWT_SECRET",
	"AUTH_STATE_SIGNING_KEY",
	"CREDENTIALS_ENCRYPTION_KEY",
	"SLACK_CLIENT_SECRET",
	"SLACK_SIGNING_SECRET",
	"NOTION_CLIENT_SECRET",
	"GOOGLE_CLIENT_SECRET",
	"GITHUB_CLIENT_SECRET",
	"LLM_API_KEY",
	"LLM_EMBEDDING_API_KEY",
	"EMAIL_SMTP_PASSWORD",
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > <VAR>_FILE > YAML > defaults (via env-default tags).
// The YAML file path is determined by CONFIG_PATH env (fallback "./config.yaml").
// If the file does not exist and CONFIG_PATH was not set explicitly,
// configuration is loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	if err := loadSecretFiles(); err != nil {
		return nil, err
	}

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		// No file, load from ENV + defaults only.
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// loadSecretFiles exports the contents of every <VAR>_FILE into VAR so that
// cleanenv picks it up. An explicitly set VAR wins over its file.
func loadSecretFiles() error {
	for _, name := range secretEnvVars {
		file := os.Getenv(name + "_FILE")
		if file == "" {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("config: %s_FILE: %w", name, err)
		}
		if err := os.Setenv(name, strings.TrimRight(string(data), "\r\n")); err != nil {
			return fmt.Errorf("config: export %s: %w", name, err)
		}
	}
	return nil
}
