package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"mincc/internal"
)

type Config struct {
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	Compaction string `toml:"compaction"`
	// TokenLimit overrides the budget derived from the model's context
	// window. 0 means derive it.
	TokenLimit    int `toml:"token_limit"`
	KeepCount     int `toml:"keep_count"`
	PreserveCount int `toml:"preserve_count"`

	BashTimeout   int  `toml:"bash_timeout"`
	SafeMode      bool `toml:"safe_mode"`
	APITimeout    int  `toml:"api_timeout"`
	MaxIterations int  `toml:"max_iterations"`

	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
	Debug   bool   `toml:"debug"`

	// APIKey only ever comes from the environment.
	APIKey string `toml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:         internal.DEFAULT_MODEL,
		BaseURL:       internal.DEFAULT_BASE_URL,
		Compaction:    "truncate",
		KeepCount:     internal.TRUNCATE_KEEP_COUNT,
		PreserveCount: internal.SUMMARIZE_PRESERVE_COUNT,
		BashTimeout:   internal.DEFAULT_BASH_TIMEOUT,
		SafeMode:      true,
		APITimeout:    internal.DEFAULT_API_TIMEOUT,
		DataDir:       internal.DEFAULT_DATA_DIR,
		LogDir:        internal.DEFAULT_LOG_DIR,
	}
}

// ValidateConfig checks if all required configuration fields are properly set
func ValidateConfig(cfg *Config) error {
	var missingFields []string

	if cfg.Model == "" {
		missingFields = append(missingFields, "model")
	}
	if cfg.BaseURL == "" {
		missingFields = append(missingFields, "base_url")
	}
	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}

	switch strings.ToLower(cfg.Compaction) {
	case "truncate", "summarize":
	default:
		return fmt.Errorf("unknown compaction strategy %q (use truncate or summarize)", cfg.Compaction)
	}

	if cfg.TokenLimit < 0 || cfg.KeepCount < 0 || cfg.PreserveCount < 0 || cfg.MaxIterations < 0 {
		return fmt.Errorf("token_limit, keep_count, preserve_count and max_iterations must not be negative")
	}
	if cfg.BashTimeout <= 0 || cfg.APITimeout <= 0 {
		return fmt.Errorf("bash_timeout and api_timeout must be positive")
	}

	return nil
}

// LoadConfig reads the TOML file at path on top of the defaults. A missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	return cfg, nil
}

// Load reads the config file, applies environment overrides and validates
// the result.
func Load() (*Config, error) {
	cfg, err := LoadConfig(GetConfigPath())
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with the environment variables that are set.
func ApplyEnv(cfg *Config) error {
	cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")

	if v := os.Getenv("COMPACTION"); v != "" {
		cfg.Compaction = strings.ToLower(v)
	}
	if v := os.Getenv("MINCC_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("MINCC_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MINCC_TOKEN_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MINCC_TOKEN_LIMIT %q: %w", v, err)
		}
		cfg.TokenLimit = n
	}
	if v := os.Getenv("MINCC_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MINCC_DEBUG %q: %w", v, err)
		}
		cfg.Debug = debug
	}

	return nil
}

// GetConfigPath returns the path for the config file
func GetConfigPath() string {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = internal.DEFAULT_CONFIG_PATH
	}
	return configPath
}

// IsFirstRun reports whether no config file has been written yet.
func IsFirstRun() bool {
	_, err := os.Stat(GetConfigPath())
	return os.IsNotExist(err)
}

// SaveConfig writes cfg to path as TOML
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for config file: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			fmt.Printf("failed to close config file: %v\n", err)
		}
	}(file)

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
