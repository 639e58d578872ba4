package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate runs all validations against the config and returns structured
// results.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVersion()...)
	results = append(results, c.validateStore()...)
	results = append(results, c.validateOverrideKeyEnv()...)
	results = append(results, c.validateLog()...)
	results = append(results, c.validateFolders()...)
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func (c Config) validateVersion() []ValidationResult {
	if c.Version == 1 {
		return nil
	}
	return []ValidationResult{{
		Level:   "warning",
		Message: fmt.Sprintf("config version %d is not recognised; reading it as version 1", c.Version),
	}}
}

func (c Config) validateStore() []ValidationResult {
	switch strings.ToLower(strings.TrimSpace(c.Store.Backend)) {
	case "auto", "file":
		return nil
	case "registry":
		if runtime.GOOS != "windows" {
			return []ValidationResult{{
				Level:   "error",
				Message: fmt.Sprintf("store backend \"registry\" is only available on windows, not %s", runtime.GOOS),
			}}
		}
		return nil
	default:
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("unknown store backend %q (want auto, registry or file)", c.Store.Backend),
		}}
	}
}

func (c Config) validateOverrideKeyEnv() []ValidationResult {
	name := c.OverrideKeyEnv
	if strings.ContainsAny(name, "= \t") {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("override_key_env %q is not a valid environment variable name", name),
		}}
	}
	return nil
}

func (c Config) validateLog() []ValidationResult {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("log level %q is not one of debug, info, warn, error, fatal", c.Log.Level),
		}}
	}
	return nil
}

func (c Config) validateFolders() []ValidationResult {
	var results []ValidationResult
	folders := []struct {
		key  string
		path string
	}{
		{"local_app_data", c.Folders.LocalAppData},
		{"common_app_data", c.Folders.CommonAppData},
		{"program_files", c.Folders.ProgramFiles},
		{"program_files_x86", c.Folders.ProgramFilesX86},
		{"system_drive", c.Folders.SystemDrive},
	}
	for _, f := range folders {
		path := strings.TrimSpace(f.path)
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("folders.%s %q is not a directory", f.key, f.path),
			})
		}
	}
	return results
}
