package store

import (
	"errors"
	"fmt"
	"strings"
)

// Scope selects the hive a key lives under.
type Scope int

const (
	CurrentUser Scope = iota
	LocalMachine
)

func (s Scope) String() string {
	switch s {
	case CurrentUser:
		return "HKCU"
	case LocalMachine:
		return "HKLM"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// View selects the 32-bit or 64-bit view of the store. Backends without
// such a split ignore it.
type View int

const (
	View32 View = iota
	View64
)

func (v View) String() string {
	if v == View64 {
		return "64-bit"
	}
	return "32-bit"
}

var (
	// ErrUnavailable reports that the store itself could not be read or
	// written. Missing keys and values are never reported with it.
	ErrUnavailable = errors.New("key-value store unavailable")
	// ErrInvalidValue reports a value that exists but is not a string.
	ErrInvalidValue = errors.New("stored value is not a string")
)

// Store is the persisted key-value capability the resolver reads installer
// records and user overrides from.
type Store interface {
	// GetString returns the value and true when present. A missing key or
	// value yields "", false, nil.
	GetString(scope Scope, key, value string, view View) (string, bool, error)
	SetString(scope Scope, key, value, data string, view View) error
}

// KeyName renders a value location the way registry tools display it.
func KeyName(scope Scope, key, value string) string {
	return scope.String() + `\` + strings.Trim(key, `\`) + `\` + value
}
