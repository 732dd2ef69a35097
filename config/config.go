// Package config provides configuration management for the application.
//
// Credentials always come from the process environment. Non-secret settings
// may additionally come from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"clillm/internal/core"
)

const (
	// EnvAPIKey holds the API key sent as a bearer token
	EnvAPIKey = "OPENAI_API_KEY"
	// EnvBaseURL holds the API base endpoint, e.g. https://api.deepseek.com/v1
	EnvBaseURL = "OPENAI_BASE_URL"
	// EnvConfigPath points at an alternate settings file
	EnvConfigPath = "CLILLM_CONFIG"

	// DefaultConfigFile is read from the working directory when EnvConfigPath is unset
	DefaultConfigFile = "clillm.yaml"
	// DotEnvFile is loaded into the environment before anything is read
	DotEnvFile = ".env"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// APIConfig holds the credentials and endpoint of the remote API.
// Both fields are non-empty once loaded.
type APIConfig struct {
	APIKey  string
	BaseURL string
}

// Settings holds the optional, non-secret settings
type Settings struct {
	// Models maps a model token (coder, chat-R, ...) to the upstream model name
	Models map[string]string `yaml:"models"`
	HTTP   HTTPSettings      `yaml:"http"`
	// PromptsFile replaces the embedded system prompts document when set
	PromptsFile string `yaml:"prompts_file"`
}

// HTTPSettings holds HTTP client timeouts. Zero values keep the client defaults.
type HTTPSettings struct {
	Timeout               time.Duration `yaml:"timeout"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout"`
}

// Result is the outcome of Load
type Result struct {
	API      APIConfig
	Settings *Settings
	// SettingsPath is the file the settings were read from, empty when defaults are used
	SettingsPath string
}

// defaultModels is the built-in upstream model table
var defaultModels = map[string]string{
	"coder":      "deepseek-coder",
	"chat":       "deepseek-chat",
	"creative":   "deepseek-chat",
	"coder-R":    "deepseek-reasoner",
	"chat-R":     "deepseek-reasoner",
	"creative-R": "deepseek-reasoner",
}

// LoadDotEnv loads DotEnvFile from the working directory if it exists.
// Variables already present in the process environment are left untouched.
func LoadDotEnv() error {
	if err := godotenv.Load(DotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	return nil
}

// Load reads the API configuration and settings through lookup.
func Load(lookup LookupFunc) (*Result, error) {
	api, err := LoadAPIConfig(lookup)
	if err != nil {
		return nil, err
	}

	path, explicit := lookup(EnvConfigPath)
	if !explicit || path == "" {
		path = DefaultConfigFile
		explicit = false
	}

	settings, err := loadSettingsFile(path, explicit, lookup)
	if err != nil {
		return nil, err
	}

	result := &Result{API: api, Settings: settings}
	if settings != nil {
		result.SettingsPath = path
	} else {
		result.Settings = DefaultSettings()
	}
	return result, nil
}

// LoadAPIConfig reads EnvAPIKey and EnvBaseURL. Values are taken verbatim;
// an unset or empty variable fails with KindMissingEnvVar.
func LoadAPIConfig(lookup LookupFunc) (APIConfig, error) {
	key, ok := lookup(EnvAPIKey)
	if !ok || key == "" {
		return APIConfig{}, core.NewMissingEnvVarError(EnvAPIKey)
	}
	baseURL, ok := lookup(EnvBaseURL)
	if !ok || baseURL == "" {
		return APIConfig{}, core.NewMissingEnvVarError(EnvBaseURL)
	}
	return APIConfig{APIKey: key, BaseURL: baseURL}, nil
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() *Settings {
	models := make(map[string]string, len(defaultModels))
	for k, v := range defaultModels {
		models[k] = v
	}
	return &Settings{Models: models}
}

// UpstreamModel returns the upstream model name for a variant.
func (s *Settings) UpstreamModel(v core.ModelVariant) string {
	if name, ok := s.Models[v.String()]; ok && name != "" {
		return name
	}
	return defaultModels[v.String()]
}

// loadSettingsFile returns nil settings when an implicit default file is absent.
func loadSettingsFile(path string, explicit bool, lookup LookupFunc) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil, nil
		}
		return nil, core.NewConfigMissingError(path, err)
	}
	return ParseSettings(data, lookup)
}

// ParseSettings decodes a settings document after expanding ${VAR} placeholders.
// Model keys must be known model tokens.
func ParseSettings(data []byte, lookup LookupFunc) (*Settings, error) {
	settings := DefaultSettings()

	var raw Settings
	dec := yaml.NewDecoder(strings.NewReader(expandString(string(data), lookup)))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, core.NewConfigMalformedError("settings", err)
	}

	for token, name := range raw.Models {
		if _, err := core.ParseModelVariant(token); err != nil {
			return nil, core.NewConfigMalformedError(fmt.Sprintf("settings: unknown model token %q", token), nil)
		}
		if name == "" {
			return nil, core.NewConfigMalformedError(fmt.Sprintf("settings: empty model name for %q", token), nil)
		}
		settings.Models[token] = name
	}
	if raw.HTTP.Timeout < 0 || raw.HTTP.ResponseHeaderTimeout < 0 {
		return nil, core.NewConfigMalformedError("settings: negative http timeout", nil)
	}
	settings.HTTP = raw.HTTP
	settings.PromptsFile = raw.PromptsFile
	return settings, nil
}
