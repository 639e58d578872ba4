package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// SDKLOCATOR_STORE_BACKEND.
const EnvPrefix = "SDKLOCATOR"

// Overlay keys, shared with the flags bound by the CLI.
const (
	KeyStoreBackend   = "store.backend"
	KeyStoreFile      = "store.file"
	KeyOverrideKeyEnv = "override_key_env"
	KeyLogLevel       = "log.level"
)

// NewViper returns a viper instance reading SDKLOCATOR_* variables for
// every overlay key.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{KeyStoreBackend, KeyStoreFile, KeyOverrideKeyEnv, KeyLogLevel} {
		_ = v.BindEnv(key)
	}
	return v
}

// Overlay applies values set in v (environment or bound flags) on top of
// the file configuration.
func (c *Config) Overlay(v *viper.Viper) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(v.GetString(KeyStoreBackend)); s != "" {
		c.Store.Backend = s
	}
	if s := strings.TrimSpace(v.GetString(KeyStoreFile)); s != "" {
		c.Store.File = s
	}
	if s := strings.TrimSpace(v.GetString(KeyOverrideKeyEnv)); s != "" {
		c.OverrideKeyEnv = s
	}
	if s := strings.TrimSpace(v.GetString(KeyLogLevel)); s != "" {
		c.Log.Level = s
	}
}
