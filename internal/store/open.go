package store

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendAuto     = "auto"
	BackendRegistry = "registry"
	BackendFile     = "file"
)

// Open selects a store backend. "auto" picks the registry on Windows and
// the YAML file everywhere else.
func Open(backend, filePath string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		if runtime.GOOS == "windows" {
			return nativeStore()
		}
		return openFile(filePath)
	case BackendRegistry:
		return nativeStore()
	case BackendFile:
		return openFile(filePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func openFile(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("file store requires a path")
	}
	return NewFile(path), nil
}
