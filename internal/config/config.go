package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const defaultAPIBaseURL = "http://localhost:3001"

type Config struct {
	APIBaseURL    string `yaml:"api_base_url"`
	TokenPath     string `yaml:"token_path"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LoginEmail    string `yaml:"login_email"`
	LoginPassword string `yaml:"login_password"`
}

// Load reads an optional YAML config file, then lets environment
// variables override whatever the file set. A missing file is not an
// error; a malformed one is.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, err
			}
		} else if !os.IsNotExist(err) {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() Config {
	var cfg Config
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SYNDECK_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("SYNDECK_TOKEN_PATH"); v != "" {
		c.TokenPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("SYNDECK_EMAIL"); v != "" {
		c.LoginEmail = v
	}
	if v := os.Getenv("SYNDECK_PASSWORD"); v != "" {
		c.LoginPassword = v
	}
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.TokenPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		c.TokenPath = filepath.Join(dir, "syndeck", "token")
	}
}
