//go:build windows

package store

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// Registry is the Store backed by the Windows registry.
type Registry struct{}

// NewRegistry returns the registry-backed store.
func NewRegistry() (*Registry, error) {
	return &Registry{}, nil
}

func rootKey(scope Scope) registry.Key {
	if scope == LocalMachine {
		return registry.LOCAL_MACHINE
	}
	return registry.CURRENT_USER
}

func viewAccess(view View) uint32 {
	if view == View64 {
		return registry.WOW64_64KEY
	}
	return registry.WOW64_32KEY
}

func (Registry) GetString(scope Scope, key, value string, view View) (string, bool, error) {
	k, err := registry.OpenKey(rootKey(scope), key, registry.QUERY_VALUE|viewAccess(view))
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", false, nil
		}
		if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
			// Unreadable keys are as good as absent for locating purposes.
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: open %s: %v", ErrUnavailable, KeyName(scope, key, value), err)
	}
	defer k.Close()

	data, _, err := k.GetStringValue(value)
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, registry.ErrNotExist):
		return "", false, nil
	case errors.Is(err, registry.ErrUnexpectedType):
		return "", false, fmt.Errorf("%w: %s", ErrInvalidValue, KeyName(scope, key, value))
	default:
		return "", false, fmt.Errorf("%w: read %s: %v", ErrUnavailable, KeyName(scope, key, value), err)
	}
}

func (Registry) SetString(scope Scope, key, value, data string, view View) error {
	k, _, err := registry.CreateKey(rootKey(scope), key, registry.SET_VALUE|viewAccess(view))
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrUnavailable, KeyName(scope, key, value), err)
	}
	defer k.Close()

	if err := k.SetStringValue(value, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, KeyName(scope, key, value), err)
	}
	return nil
}

func nativeStore() (Store, error) {
	return NewRegistry()
}
