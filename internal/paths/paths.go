package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// AppPaths captures canonical locations for the locator's own state.
type AppPaths struct {
	Root       string
	ConfigFile string
	StoreFile  string
	LogsDir    string
}

// Resolve determines the state root using the optional --home flag, the
// SDKLOCATOR_HOME environment variable, or the user config directory.
func Resolve(homeFlag string) (AppPaths, error) {
	var (
		root string
		err  error
	)

	switch {
	case homeFlag != "":
		root, err = filepath.Abs(homeFlag)
	case os.Getenv("SDKLOCATOR_HOME") != "":
		root, err = filepath.Abs(os.Getenv("SDKLOCATOR_HOME"))
	default:
		var base string
		base, err = os.UserConfigDir()
		root = filepath.Join(base, "sdklocator")
	}
	if err != nil {
		return AppPaths{}, fmt.Errorf("resolve state root: %w", err)
	}

	return newAppPaths(root), nil
}

func newAppPaths(root string) AppPaths {
	return AppPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "config.yaml"),
		StoreFile:  filepath.Join(root, "store.yaml"),
		LogsDir:    filepath.Join(root, "logs"),
	}
}

// ResolveFile returns value as-is if absolute, otherwise joins it with the
// state root.
func (p AppPaths) ResolveFile(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(p.Root, value)
}

// EnsureRoot makes sure the state root exists on disk.
func (p AppPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create state root: %w", err)
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// foldCase makes Subdirs match names case-insensitively, as Windows
// directory enumeration does.
var foldCase = runtime.GOOS == "windows"

// Subdirs lists the immediate subdirectories of root whose names match the
// filepath.Match pattern, sorted by name. A missing root yields no entries.
func Subdirs(root, pattern string) ([]string, error) {
	if foldCase {
		pattern = strings.ToLower(pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		name := entry.Name()
		match := name
		if foldCase {
			match = strings.ToLower(name)
		}
		if ok, _ := filepath.Match(pattern, match); !ok {
			continue
		}
		full := filepath.Join(root, name)
		if !entry.IsDir() {
			// Follow symlinked install directories.
			if isDir, _ := DirExists(full); !isDir {
				continue
			}
		}
		dirs = append(dirs, full)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// OS exposes the helpers above as a value, for components that take the
// filesystem as a dependency.
type OS struct{}

func (OS) DirExists(path string) (bool, error)  { return DirExists(path) }
func (OS) FileExists(path string) (bool, error) { return FileExists(path) }
func (OS) Subdirs(root, pattern string) ([]string, error) {
	return Subdirs(root, pattern)
}
