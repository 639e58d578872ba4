package sdk

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"sdklocator/internal/hostenv"
	"sdklocator/internal/paths"
	"sdklocator/internal/store"
)

// FS is the filesystem capability used to probe candidates.
type FS interface {
	DirExists(path string) (bool, error)
	FileExists(path string) (bool, error)
	// Subdirs lists immediate subdirectories of root whose names match
	// pattern. A missing root yields no entries and no error.
	Subdirs(root, pattern string) ([]string, error)
}

// LogFunc receives one trace line per probe.
type LogFunc func(level log.Level, msg string)

// Locator is implemented by every platform resolver.
type Locator interface {
	PreferredPath(kind Kind) (string, bool, error)
	AllAvailablePaths(kind Kind) iter.Seq2[Candidate, error]
	SetPreferredPath(kind Kind, path string) error
}

// Options configures a Resolver.
type Options struct {
	Store store.Store
	// FS defaults to the host filesystem.
	FS  FS
	Env hostenv.Env
	Log LogFunc
	// OverrideKeyEnv names the variable that redirects the override key.
	// Defaults to DefaultOverrideKeyEnv.
	OverrideKeyEnv string
}

// Resolver locates toolchains from store records and well-known
// directories. It keeps no state between calls.
type Resolver struct {
	store          store.Store
	fs             FS
	env            hostenv.Env
	log            LogFunc
	overrideKeyEnv string
}

var _ Locator = (*Resolver)(nil)

// New builds a Resolver from opts.
func New(opts Options) *Resolver {
	r := &Resolver{
		store:          opts.Store,
		fs:             opts.FS,
		env:            opts.Env,
		log:            opts.Log,
		overrideKeyEnv: opts.OverrideKeyEnv,
	}
	if r.fs == nil {
		r.fs = paths.OS{}
	}
	if r.log == nil {
		r.log = func(log.Level, string) {}
	}
	if r.overrideKeyEnv == "" {
		r.overrideKeyEnv = DefaultOverrideKeyEnv
	}
	return r
}

// OverrideKey returns the key the override values currently live under.
func (r *Resolver) OverrideKey() string {
	if key := strings.TrimSpace(r.env.Getenv(r.overrideKeyEnv)); key != "" {
		return key
	}
	return defaultOverrideKey
}

// Sources returns the probe order for kind.
func (r *Resolver) Sources(kind Kind) ([]Source, error) {
	spec, ok := Spec(kind)
	if !ok {
		return nil, fmt.Errorf("unknown toolchain kind %d", int(kind))
	}
	return spec.sources(r.sourceLayout(), spec), nil
}

func (r *Resolver) sourceLayout() layout {
	return layout{env: r.env, overrideKey: r.OverrideKey()}
}

// PreferredPath returns the first valid candidate for kind in priority
// order. Probing stops at the first hit.
func (r *Resolver) PreferredPath(kind Kind) (string, bool, error) {
	for c, err := range r.AllAvailablePaths(kind) {
		if err != nil {
			return "", false, err
		}
		return c.Path, true, nil
	}
	return "", false, nil
}

// AllAvailablePaths yields every valid candidate for kind in priority order,
// without removing duplicates. Probes run only as the consumer pulls, and
// ranging again repeats them. A store failure is yielded once as the error
// and ends the sequence.
func (r *Resolver) AllAvailablePaths(kind Kind) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		spec, ok := Spec(kind)
		if !ok {
			yield(Candidate{}, fmt.Errorf("unknown toolchain kind %d", int(kind)))
			return
		}
		sources := spec.sources(r.sourceLayout(), spec)

		r.logf("Looking for %s...", spec.DisplayName)

		// Presence gates are probed once per pass.
		gates := map[Location]bool{}

		for _, src := range sources {
			switch src.Category {
			case Override, InstallerRecord:
				if src.Requires != nil {
					present, seen := gates[*src.Requires]
					if !seen {
						var err error
						present, err = r.checkPresent(*src.Requires)
						if err != nil {
							yield(Candidate{}, err)
							return
						}
						gates[*src.Requires] = present
					}
					if !present {
						continue
					}
				}
				path, ok, err := r.checkKey(spec, src.Location)
				if err != nil {
					yield(Candidate{}, err)
					return
				}
				if ok && !yield(Candidate{Path: path, Kind: kind, Source: src}, nil) {
					return
				}

			case ConventionalPath:
				if r.checkDir(spec, src.Dir) && !yield(Candidate{Path: src.Dir, Kind: kind, Source: src}, nil) {
					return
				}

			case GlobPattern:
				dirs, err := r.fs.Subdirs(src.Dir, src.Pattern)
				if err != nil {
					r.logf("  Directory %s could not be listed: %v", src.Dir, err)
					continue
				}
				if len(dirs) == 0 {
					r.logf("  No %s directories in %s.", src.Pattern, src.Dir)
					continue
				}
				for _, dir := range dirs {
					if r.validate(spec, dir) && !yield(Candidate{Path: dir, Kind: kind, Source: src}, nil) {
						return
					}
				}
			}
		}
	}
}

// Paths collects AllAvailablePaths into a slice.
func (r *Resolver) Paths(kind Kind) ([]string, error) {
	var out []string
	for c, err := range r.AllAvailablePaths(kind) {
		if err != nil {
			return out, err
		}
		out = append(out, c.Path)
	}
	return out, nil
}

// Validate reports whether dir carries the marker executable for kind.
func (r *Resolver) Validate(kind Kind, dir string) bool {
	spec, ok := Spec(kind)
	if !ok {
		return false
	}
	return r.validate(spec, dir)
}

func (r *Resolver) checkPresent(loc Location) (bool, error) {
	v, ok, err := r.store.GetString(loc.Scope, loc.Key, loc.Value, loc.View)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", loc, err)
	}
	if !ok || v == "" {
		r.logf("  Key %s not found.", loc)
		return false, nil
	}
	r.logf("  Key %s found.", loc)
	return true, nil
}

func (r *Resolver) checkKey(spec KindSpec, loc Location) (string, bool, error) {
	path, ok, err := r.store.GetString(loc.Scope, loc.Key, loc.Value, loc.View)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", loc, err)
	}
	if !ok || strings.TrimSpace(path) == "" {
		r.logf("  Key %s not found.", loc)
		return "", false, nil
	}

	dir := filepath.Join(path, spec.Subdir)
	if _, found := r.findExecutable(dir, spec.Marker); !found {
		r.logf("  Key %s found: path does not contain %s in %s (%s).", loc, spec.Marker, spec.Subdir, path)
		return "", false, nil
	}
	r.logf("  Key %s found: path contains %s in %s (%s).", loc, spec.Marker, spec.Subdir, path)
	return path, true, nil
}

func (r *Resolver) checkDir(spec KindSpec, dir string) bool {
	exists, err := r.fs.DirExists(dir)
	if err != nil {
		r.logf("  Directory %s could not be checked: %v", dir, err)
		return false
	}
	if !exists {
		r.logf("  Directory %s not found.", dir)
		return false
	}
	return r.validate(spec, dir)
}

func (r *Resolver) validate(spec KindSpec, root string) bool {
	dir := filepath.Join(root, spec.Subdir)
	if exe, found := r.findExecutable(dir, spec.Marker); found {
		r.logf("  Path %s contains %s.", root, exe)
		return true
	}
	r.logf("  Path %s does not contain %s in %s.", root, spec.Marker, spec.Subdir)
	return false
}

// findExecutable looks for name, then name with each executable extension,
// directly inside dir.
func (r *Resolver) findExecutable(dir, name string) (string, bool) {
	candidates := make([]string, 0, len(r.env.ExecutableExts)+1)
	candidates = append(candidates, name)
	for _, ext := range r.env.ExecutableExts {
		candidates = append(candidates, name+ext)
	}

	for _, candidate := range candidates {
		full := filepath.Join(dir, candidate)
		ok, err := r.fs.FileExists(full)
		if err != nil {
			r.logf("  File %s could not be checked: %v", full, err)
			continue
		}
		if ok {
			return full, true
		}
	}
	return "", false
}

func (r *Resolver) logf(format string, args ...any) {
	r.log(log.InfoLevel, fmt.Sprintf(format, args...))
}
