package sdk

import (
	"fmt"
	"strings"

	"sdklocator/internal/store"
)

// SetPreferredPath records path as the user override for kind. An empty
// path clears the override. The path is not validated here; every
// resolution pass validates it again.
func (r *Resolver) SetPreferredPath(kind Kind, path string) error {
	spec, ok := Spec(kind)
	if !ok {
		return fmt.Errorf("unknown toolchain kind %d", int(kind))
	}
	if strings.TrimSpace(path) == "" {
		path = ""
	}

	loc := Location{Scope: store.CurrentUser, Key: r.OverrideKey(), Value: spec.ValueName, View: store.View32}
	if path == "" {
		r.logf("Clearing %s override at %s.", spec.DisplayName, loc)
	} else {
		r.logf("Setting %s override at %s to %s.", spec.DisplayName, loc, path)
	}

	if err := r.store.SetString(loc.Scope, loc.Key, loc.Value, path, loc.View); err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	return nil
}

// UserOverride returns the raw override stored for kind in the current
// user scope, without validating it.
func (r *Resolver) UserOverride(kind Kind) (string, error) {
	spec, ok := Spec(kind)
	if !ok {
		return "", fmt.Errorf("unknown toolchain kind %d", int(kind))
	}
	loc := Location{Scope: store.CurrentUser, Key: r.OverrideKey(), Value: spec.ValueName, View: store.View32}
	v, _, err := r.store.GetString(loc.Scope, loc.Key, loc.Value, loc.View)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", loc, err)
	}
	return strings.TrimSpace(v), nil
}
