package sdk

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"sdklocator/internal/store"
)

// SourceCategory orders candidate origins. Lower categories are always
// probed first.
type SourceCategory int

const (
	Override SourceCategory = iota
	InstallerRecord
	ConventionalPath
	GlobPattern
)

func (c SourceCategory) String() string {
	switch c {
	case Override:
		return "override"
	case InstallerRecord:
		return "installer-record"
	case ConventionalPath:
		return "conventional-path"
	case GlobPattern:
		return "glob-pattern"
	default:
		return fmt.Sprintf("SourceCategory(%d)", int(c))
	}
}

func (c SourceCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Location addresses a single value in the key-value store.
type Location struct {
	Scope store.Scope
	Key   string
	Value string
	View  store.View
}

func (l Location) String() string {
	return store.KeyName(l.Scope, l.Key, l.Value)
}

// Source is one named origin of candidate paths.
type Source struct {
	Category SourceCategory
	// Location is read for Override and InstallerRecord sources.
	Location Location
	// Requires, when set, must be present in the store before Location is
	// read. Its value is not otherwise used.
	Requires *Location
	// Dir is the candidate itself for ConventionalPath sources and the
	// search root for GlobPattern sources.
	Dir     string
	Pattern string
}

func (s Source) String() string {
	switch s.Category {
	case Override, InstallerRecord:
		return s.Location.String()
	case GlobPattern:
		return filepath.Join(s.Dir, s.Pattern)
	default:
		return s.Dir
	}
}

// Candidate is a validated toolchain root and where it came from.
type Candidate struct {
	Path   string
	Kind   Kind
	Source Source
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path     string         `json:"path"`
		Kind     Kind           `json:"kind"`
		Category SourceCategory `json:"category"`
		Source   string         `json:"source"`
	}{c.Path, c.Kind, c.Source.Category, c.Source.String()})
}
