package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultPath is the config file looked up in the working directory
const DefaultPath = "claudia.toml"

type Config struct {
	LLM     LLMConfig     `toml:"llm"`
	Context ContextConfig `toml:"context"`
	Log     LogConfig     `toml:"log"`
}

type LLMConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Endpoint  string `toml:"endpoint"`
}

type ContextConfig struct {
	MaxFileSize        int64    `toml:"max_file_size"`
	MaxTotalSize       int64    `toml:"max_total_size"`
	MaxFiles           int      `toml:"max_files"`
	IgnoredDirectories []string `toml:"ignored_directories"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Load decodes the TOML file at path over the defaults, so keys missing from
// the file keep their default values. A missing file yields the defaults.
// The API key falls back to CLAUDIA_API_KEY and then ANTHROPIC_API_KEY, and a
// .env file in the working directory is honored for both.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// .env is optional; a missing one is not an error
	_ = godotenv.Load()

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("CLAUDIA_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:     "claude-3-7-sonnet-20250219",
			MaxTokens: 4000,
			Endpoint:  "https://api.anthropic.com/v1/messages",
		},
		Context: ContextConfig{
			MaxFileSize:        100000,
			MaxTotalSize:       1000000,
			MaxFiles:           10,
			IgnoredDirectories: []string{"node_modules", ".git", "dist", "build"},
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate reports every invalid value at once
func (c *Config) Validate() error {
	var errs []string

	if c.LLM.Model == "" {
		errs = append(errs, "llm.model must not be empty")
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, "llm.max_tokens must be >= 1")
	}
	if c.LLM.Endpoint == "" {
		errs = append(errs, "llm.endpoint must not be empty")
	}
	if c.Context.MaxFileSize < 1 {
		errs = append(errs, "context.max_file_size must be >= 1")
	}
	if c.Context.MaxTotalSize < 1 {
		errs = append(errs, "context.max_total_size must be >= 1")
	}
	if c.Context.MaxFiles < 1 {
		errs = append(errs, "context.max_files must be >= 1")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// MaskedAPIKey hides all but the last four characters of the credential
func (c *Config) MaskedAPIKey() string {
	key := c.LLM.APIKey
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// DefaultFile is the commented template written by `claudia init`
const DefaultFile = `# Claudia Configuration

[llm]
# Leave empty to use CLAUDIA_API_KEY or ANTHROPIC_API_KEY (a .env file works too)
api_key = ""
model = "claude-3-7-sonnet-20250219"
max_tokens = 4000
endpoint = "https://api.anthropic.com/v1/messages"

[context]
max_file_size = 100000
max_total_size = 1000000
max_files = 10
ignored_directories = ["node_modules", ".git", "dist", "build"]

[log]
# debug, info, warn or error
level = "warn"
# empty logs to stderr
file = ""
`
