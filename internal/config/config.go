package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sdklocator/internal/hostenv"
)

// Config captures user settings for the locator.
type Config struct {
	Version int         `yaml:"version"`
	Store   StoreConfig `yaml:"store"`
	// OverrideKeyEnv names the environment variable that redirects the
	// override key.
	OverrideKeyEnv string        `yaml:"override_key_env"`
	Log            LogConfig     `yaml:"log"`
	Folders        FoldersConfig `yaml:"folders"`
}

// StoreConfig selects the key-value store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	// File is the YAML store path, relative to the state root when not
	// absolute. Empty means store.yaml in the state root.
	File string `yaml:"file,omitempty"`
}

// LogConfig controls trace logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  *bool  `yaml:"file,omitempty"`
}

// FileEnabled returns the effective file flag applying defaults.
func (l LogConfig) FileEnabled() bool {
	if l.File == nil {
		return true
	}
	return *l.File
}

// FoldersConfig overrides OS special folders. Blank entries keep the value
// detected from the host.
type FoldersConfig struct {
	LocalAppData    string `yaml:"local_app_data,omitempty"`
	CommonAppData   string `yaml:"common_app_data,omitempty"`
	ProgramFiles    string `yaml:"program_files,omitempty"`
	ProgramFilesX86 string `yaml:"program_files_x86,omitempty"`
	SystemDrive     string `yaml:"system_drive,omitempty"`
}

// Apply returns env with the configured folders substituted.
func (f FoldersConfig) Apply(env hostenv.Env) hostenv.Env {
	env = env.WithFolder(hostenv.LocalAppData, f.LocalAppData)
	env = env.WithFolder(hostenv.CommonAppData, f.CommonAppData)
	env = env.WithFolder(hostenv.ProgramFiles, f.ProgramFiles)
	env = env.WithFolder(hostenv.ProgramFilesX86, f.ProgramFilesX86)
	if drive := strings.TrimSpace(f.SystemDrive); drive != "" {
		env.SystemDrive = drive
	}
	return env
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Store: StoreConfig{
			Backend: "auto",
		},
		OverrideKeyEnv: "XAMARIN_ANDROID_REGKEY",
		Log: LogConfig{
			Level: "info",
			File:  boolPtr(true),
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults ensures fields fall back to sensible defaults when the YAML
// omits or blanks them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if strings.TrimSpace(c.Store.Backend) == "" {
		c.Store.Backend = defaults.Store.Backend
	}
	if strings.TrimSpace(c.OverrideKeyEnv) == "" {
		c.OverrideKeyEnv = defaults.OverrideKeyEnv
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == nil {
		c.Log.File = boolPtr(true)
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

// WriteDefault creates path holding the default configuration. An existing
// file is left untouched and reported as not created.
func WriteDefault(path string) (bool, error) {
	data, err := Default().Marshal()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("ensure config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return false, fmt.Errorf("write default config: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("write default config: %w", err)
	}
	return true, nil
}

func boolPtr(v bool) *bool {
	return &v
}
