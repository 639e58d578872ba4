// Package hostenv captures the ambient host state the locator depends on:
// environment variables, OS special folders and executable extensions.
// Callers build an Env once and pass it down so tests can substitute
// fixtures for the real machine.
package hostenv

import (
	"fmt"
	"os"
	"strings"
)

// Folder identifies an OS special folder.
type Folder int

const (
	// LocalAppData is the per-user application data directory.
	LocalAppData Folder = iota
	// CommonAppData is the all-users application data directory.
	CommonAppData
	// ProgramFiles is the native program files directory.
	ProgramFiles
	// ProgramFilesX86 is the 32-bit program files directory.
	ProgramFilesX86
)

func (f Folder) String() string {
	switch f {
	case LocalAppData:
		return "LocalAppData"
	case CommonAppData:
		return "CommonAppData"
	case ProgramFiles:
		return "ProgramFiles"
	case ProgramFilesX86:
		return "ProgramFilesX86"
	default:
		return fmt.Sprintf("Folder(%d)", int(f))
	}
}

// Env is a snapshot of host state.
type Env struct {
	// LookupEnv reads an environment variable. Nil means no variables.
	LookupEnv func(string) (string, bool)
	Folders   map[Folder]string
	// SystemDrive is the root of the system volume, e.g. `C:\`.
	SystemDrive string
	// ExecutableExts are appended to marker names when probing for
	// executables; the bare name is always tried first.
	ExecutableExts []string
}

// Getenv returns the named variable, or "" when unset.
func (e Env) Getenv(name string) string {
	if e.LookupEnv == nil {
		return ""
	}
	v, _ := e.LookupEnv(name)
	return v
}

// Folder returns the path of a special folder, or "" when unknown.
func (e Env) Folder(f Folder) string {
	return e.Folders[f]
}

// WithFolder returns a copy of e with f overridden. Blank paths are ignored.
func (e Env) WithFolder(f Folder, path string) Env {
	if strings.TrimSpace(path) == "" {
		return e
	}
	folders := make(map[Folder]string, len(e.Folders)+1)
	for k, v := range e.Folders {
		folders[k] = v
	}
	folders[f] = path
	e.Folders = folders
	return e
}

// FromOS snapshots the running host.
func FromOS() Env {
	return Env{
		LookupEnv:      os.LookupEnv,
		Folders:        osFolders(),
		SystemDrive:    systemDrive(),
		ExecutableExts: executableExts(os.Getenv("PATHEXT")),
	}
}

func parsePathExt(pathext string) []string {
	var exts []string
	for _, ext := range strings.Split(pathext, ";") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, strings.ToLower(ext))
	}
	return exts
}
