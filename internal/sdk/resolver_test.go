package sdk

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"sdklocator/internal/hostenv"
	"sdklocator/internal/paths"
	"sdklocator/internal/store"
)

type fixture struct {
	root  string
	env   hostenv.Env
	store *store.Memory
	lines []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	return &fixture{
		root:  root,
		store: store.NewMemory(),
		env: hostenv.Env{
			LookupEnv: func(string) (string, bool) { return "", false },
			Folders: map[hostenv.Folder]string{
				hostenv.LocalAppData:    filepath.Join(root, "LocalAppData"),
				hostenv.CommonAppData:   filepath.Join(root, "ProgramData"),
				hostenv.ProgramFiles:    filepath.Join(root, "ProgramFiles"),
				hostenv.ProgramFilesX86: filepath.Join(root, "ProgramFilesX86"),
			},
			SystemDrive: filepath.Join(root, "drive"),
		},
	}
}

func (f *fixture) options() Options {
	return Options{
		Store: f.store,
		Env:   f.env,
		Log:   func(_ log.Level, msg string) { f.lines = append(f.lines, msg) },
	}
}

func (f *fixture) resolver() *Resolver {
	return New(f.options())
}

func (f *fixture) path(elem ...string) string {
	return filepath.Join(append([]string{f.root}, elem...)...)
}

func (f *fixture) set(t *testing.T, scope store.Scope, key, value, data string) {
	t.Helper()
	if err := f.store.SetString(scope, key, value, data, store.View32); err != nil {
		t.Fatalf("set %s: %v", value, err)
	}
}

// install creates the marker executable for kind under root and returns root.
func install(t *testing.T, root string, kind Kind) string {
	t.Helper()
	spec, ok := Spec(kind)
	if !ok {
		t.Fatalf("no spec for %v", kind)
	}
	dir := filepath.Join(root, spec.Subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, spec.Marker), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	return root
}

func mkdir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

func collect(t *testing.T, r *Resolver, kind Kind) []string {
	t.Helper()
	got, err := r.Paths(kind)
	if err != nil {
		t.Fatalf("Paths(%v): %v", kind, err)
	}
	return got
}

// countingFS records every filesystem probe.
type countingFS struct {
	paths.OS
	probes int
}

func (c *countingFS) DirExists(path string) (bool, error) {
	c.probes++
	return c.OS.DirExists(path)
}

func (c *countingFS) FileExists(path string) (bool, error) {
	c.probes++
	return c.OS.FileExists(path)
}

func (c *countingFS) Subdirs(root, pattern string) ([]string, error) {
	c.probes++
	return c.OS.Subdirs(root, pattern)
}

// recordingStore records every value read.
type recordingStore struct {
	store.Store
	reads []string
}

func (s *recordingStore) GetString(scope store.Scope, key, value string, view store.View) (string, bool, error) {
	s.reads = append(s.reads, store.KeyName(scope, key, value))
	return s.Store.GetString(scope, key, value, view)
}

func TestOverrideTakesPrecedence(t *testing.T) {
	f := newFixture(t)
	override := install(t, f.path("custom", "sdk"), AndroidSDK)
	conventional := install(t, f.path("ProgramFilesX86", "Android", "android-sdk"), AndroidSDK)
	f.set(t, store.CurrentUser, defaultOverrideKey, "AndroidSdkDirectory", override)

	r := f.resolver()
	got, ok, err := r.PreferredPath(AndroidSDK)
	if err != nil || !ok {
		t.Fatalf("PreferredPath = %q, %v, %v", got, ok, err)
	}
	if got != override {
		t.Fatalf("expected override %s, got %s", override, got)
	}

	all := collect(t, r, AndroidSDK)
	want := []string{override, conventional}
	if !reflect.DeepEqual(all, want) {
		t.Fatalf("AllAvailablePaths = %v, want %v", all, want)
	}
}

func TestInvalidOverrideIsIgnored(t *testing.T) {
	f := newFixture(t)
	conventional := install(t, f.path("LocalAppData", "Android", "android-sdk"), AndroidSDK)

	baseline := collect(t, f.resolver(), AndroidSDK)

	f.set(t, store.CurrentUser, defaultOverrideKey, "AndroidSdkDirectory", mkdir(t, f.path("empty-sdk")))
	r := f.resolver()

	got, ok, err := r.PreferredPath(AndroidSDK)
	if err != nil || !ok || got != conventional {
		t.Fatalf("PreferredPath = %q, %v, %v; want %s", got, ok, err, conventional)
	}
	if all := collect(t, r, AndroidSDK); !reflect.DeepEqual(all, baseline) {
		t.Fatalf("AllAvailablePaths = %v, want %v", all, baseline)
	}
}

func TestSetPreferredPathRoundTrip(t *testing.T) {
	f := newFixture(t)
	conventional := install(t, f.path("ProgramFiles", "Android", "android-sdk"), AndroidSDK)
	target := f.path("later", "sdk")

	r := f.resolver()
	if err := r.SetPreferredPath(AndroidSDK, target); err != nil {
		t.Fatalf("SetPreferredPath: %v", err)
	}

	// Not valid yet: the write records intent only.
	if got, _, _ := r.PreferredPath(AndroidSDK); got != conventional {
		t.Fatalf("expected fallback to %s before install, got %s", conventional, got)
	}

	install(t, target, AndroidSDK)
	if got, ok, err := r.PreferredPath(AndroidSDK); err != nil || !ok || got != target {
		t.Fatalf("PreferredPath = %q, %v, %v; want %s", got, ok, err, target)
	}

	if err := r.SetPreferredPath(AndroidSDK, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _, _ := r.PreferredPath(AndroidSDK); got != conventional {
		t.Fatalf("expected %s after clearing, got %s", conventional, got)
	}
	if v, err := r.UserOverride(AndroidSDK); err != nil || v != "" {
		t.Fatalf("UserOverride = %q, %v", v, err)
	}
}

func TestSetPreferredPathWritesCurrentUserOnly(t *testing.T) {
	f := newFixture(t)
	r := f.resolver()

	for _, kind := range Kinds() {
		if err := r.SetPreferredPath(kind, "/somewhere/"+kind.String()); err != nil {
			t.Fatalf("SetPreferredPath(%v): %v", kind, err)
		}
		spec, _ := Spec(kind)
		v, ok, _ := f.store.GetString(store.CurrentUser, defaultOverrideKey, spec.ValueName, store.View32)
		if !ok || v != "/somewhere/"+kind.String() {
			t.Fatalf("%v: HKCU value = %q (ok=%v)", kind, v, ok)
		}
		if _, ok, _ := f.store.GetString(store.LocalMachine, defaultOverrideKey, spec.ValueName, store.View32); ok {
			t.Fatalf("%v: unexpected HKLM value", kind)
		}
	}
}

func TestNDKGlobMatchesVersionedDirectories(t *testing.T) {
	f := newFixture(t)
	base := f.path("ProgramFilesX86", "Android")
	r16 := install(t, filepath.Join(base, "android-ndk-r16b"), AndroidNDK)
	r21 := install(t, filepath.Join(base, "android-ndk-r21d"), AndroidNDK)
	install(t, filepath.Join(base, "other-dir"), AndroidNDK)
	mkdir(t, filepath.Join(base, "android-ndk-r10e"))

	got := collect(t, f.resolver(), AndroidNDK)
	want := []string{r16, r21}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllAvailablePaths = %v, want %v", got, want)
	}
}

func TestNDKGlobRootsInDeclaredOrder(t *testing.T) {
	f := newFixture(t)
	drive := install(t, filepath.Join(f.env.SystemDrive, "android-ndk-r25c"), AndroidNDK)
	vs := install(t, f.path("ProgramData", "Microsoft", "AndroidNDK64", "android-ndk-r15c"), AndroidNDK)
	xam := install(t, f.path("LocalAppData", "Xamarin", "MonoAndroid", "android-ndk-r23"), AndroidNDK)
	override := install(t, f.path("ndk"), AndroidNDK)
	f.set(t, store.LocalMachine, defaultOverrideKey, "AndroidNdkDirectory", override)

	got := collect(t, f.resolver(), AndroidNDK)
	want := []string{override, xam, vs, drive}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllAvailablePaths = %v, want %v", got, want)
	}
}

func TestJavaFallbackPrefersNewest(t *testing.T) {
	f := newFixture(t)
	j17 := install(t, f.path("jdk1.7"), JavaSDK)
	j18 := install(t, f.path("jdk1.8"), JavaSDK)
	f.set(t, store.LocalMachine, javaSoftKey, "CurrentVersion", "1.7")
	f.set(t, store.LocalMachine, javaSoftKey+`\1.7`, "JavaHome", j17)
	f.set(t, store.LocalMachine, javaSoftKey+`\1.8`, "JavaHome", j18)
	f.set(t, store.LocalMachine, javaSoftKey+`\1.6`, "JavaHome", install(t, f.path("jdk1.6"), JavaSDK))

	rec := &recordingStore{Store: f.store}
	opts := f.options()
	opts.Store = rec
	r := New(opts)

	got, ok, err := r.PreferredPath(JavaSDK)
	if err != nil || !ok || got != j18 {
		t.Fatalf("PreferredPath = %q, %v, %v; want %s", got, ok, err, j18)
	}
	for _, read := range rec.reads {
		if strings.Contains(read, `\1.6\`) || strings.Contains(read, `\1.7\`) {
			t.Fatalf("unexpected read of %s after the 1.8 hit", read)
		}
	}
}

func TestJavaFallbackRequiresCurrentVersion(t *testing.T) {
	f := newFixture(t)
	f.set(t, store.LocalMachine, javaSoftKey+`\1.8`, "JavaHome", install(t, f.path("jdk1.8"), JavaSDK))

	rec := &recordingStore{Store: f.store}
	opts := f.options()
	opts.Store = rec

	got := collect(t, New(opts), JavaSDK)
	if len(got) != 0 {
		t.Fatalf("expected no candidates without CurrentVersion, got %v", got)
	}
	for _, read := range rec.reads {
		if strings.HasSuffix(read, `\JavaHome`) {
			t.Fatalf("JavaHome read without the CurrentVersion marker: %s", read)
		}
	}
}

func TestJavaAllAvailableListsEveryVersion(t *testing.T) {
	f := newFixture(t)
	j17 := install(t, f.path("jdk1.7"), JavaSDK)
	j18 := install(t, f.path("jdk1.8"), JavaSDK)
	f.set(t, store.LocalMachine, javaSoftKey, "CurrentVersion", "1.8")
	f.set(t, store.LocalMachine, javaSoftKey+`\1.7`, "JavaHome", j17)
	f.set(t, store.LocalMachine, javaSoftKey+`\1.8`, "JavaHome", j18)

	// The memory store has no view split, so both views report the same
	// installs and the duplicates are kept.
	got := collect(t, f.resolver(), JavaSDK)
	want := []string{j18, j17, j18, j17}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllAvailablePaths = %v, want %v", got, want)
	}
}

func TestJavaOverrideIgnoresLocalMachine(t *testing.T) {
	f := newFixture(t)
	f.set(t, store.LocalMachine, defaultOverrideKey, "JavaSdkDirectory", install(t, f.path("jdk"), JavaSDK))

	if got := collect(t, f.resolver(), JavaSDK); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}

func TestEmptyHostYieldsNothing(t *testing.T) {
	f := newFixture(t)
	r := f.resolver()

	for _, kind := range Kinds() {
		for c, err := range r.AllAvailablePaths(kind) {
			t.Fatalf("%v: unexpected item %+v, %v", kind, c, err)
		}
		if got, ok, err := r.PreferredPath(kind); ok || err != nil || got != "" {
			t.Fatalf("%v: PreferredPath = %q, %v, %v", kind, got, ok, err)
		}
	}
	if len(f.lines) == 0 {
		t.Fatal("expected probe trace lines")
	}
}

func TestInstallerRecordWithoutMarkerFallsThrough(t *testing.T) {
	f := newFixture(t)
	f.set(t, store.LocalMachine, androidInstallerKey, androidInstallerValue, mkdir(t, f.path("broken-sdk", "platform-tools")))
	conventional := install(t, f.path("ProgramData", "Android", "android-sdk"), AndroidSDK)

	r := f.resolver()
	got, ok, err := r.PreferredPath(AndroidSDK)
	if err != nil || !ok || got != conventional {
		t.Fatalf("PreferredPath = %q, %v, %v; want %s", got, ok, err, conventional)
	}
	all := collect(t, r, AndroidSDK)
	if !reflect.DeepEqual(all, []string{conventional}) {
		t.Fatalf("AllAvailablePaths = %v, want [%s]", all, conventional)
	}

	var sawMissing bool
	for _, line := range f.lines {
		if strings.Contains(line, `HKLM\SOFTWARE\Android SDK Tools\Path found: path does not contain adb`) {
			sawMissing = true
		}
	}
	if !sawMissing {
		t.Fatalf("expected a trace line for the broken installer record, got %v", f.lines)
	}
}

func TestPreferredIsFirstOfAll(t *testing.T) {
	f := newFixture(t)
	install(t, f.path("ProgramFilesX86", "Android", "android-sdk-windows"), AndroidSDK)
	install(t, f.path("ProgramFilesX86", "Android", "android-sdk"), AndroidSDK)
	f.set(t, store.CurrentUser, xamarinInstallerKey, xamarinInstallerValue, install(t, f.path("xamarin-sdk"), AndroidSDK))
	install(t, f.path("ProgramFilesX86", "Android", "android-ndk-r19c"), AndroidNDK)
	f.set(t, store.CurrentUser, defaultOverrideKey, "AndroidNdkDirectory", install(t, f.path("ndk"), AndroidNDK))
	f.set(t, store.LocalMachine, javaSoftKey, "CurrentVersion", "1.8")
	f.set(t, store.LocalMachine, javaSoftKey+`\1.8`, "JavaHome", install(t, f.path("jdk"), JavaSDK))

	r := f.resolver()
	for _, kind := range Kinds() {
		all := collect(t, r, kind)
		if len(all) == 0 {
			t.Fatalf("%v: expected candidates", kind)
		}
		got, ok, err := r.PreferredPath(kind)
		if err != nil || !ok {
			t.Fatalf("%v: PreferredPath = %q, %v, %v", kind, got, ok, err)
		}
		if got != all[0] {
			t.Fatalf("%v: PreferredPath = %s, first available = %s", kind, got, all[0])
		}
	}
}

func TestAllAvailablePathsIsLazy(t *testing.T) {
	f := newFixture(t)
	first := install(t, f.path("LocalAppData", "Xamarin", "MonoAndroid", "android-sdk-windows"), AndroidSDK)
	install(t, f.path("ProgramFiles", "Android", "android-sdk"), AndroidSDK)

	full := &countingFS{}
	opts := f.options()
	opts.FS = full
	if got := collect(t, New(opts), AndroidSDK); len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %v", got)
	}

	partial := &countingFS{}
	opts.FS = partial
	for c, err := range New(opts).AllAvailablePaths(AndroidSDK) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Path != first {
			t.Fatalf("first candidate = %s, want %s", c.Path, first)
		}
		break
	}

	if partial.probes >= full.probes {
		t.Fatalf("early stop probed %d times, exhaustive run %d", partial.probes, full.probes)
	}
}

func TestAllAvailablePathsRestarts(t *testing.T) {
	f := newFixture(t)
	install(t, f.path("ProgramFiles", "Android", "android-sdk"), AndroidSDK)

	seq := f.resolver().AllAvailablePaths(AndroidSDK)
	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 1 || second != 1 {
		t.Fatalf("expected 1 candidate on each pass, got %d and %d", first, second)
	}

	// Later installs are seen without rebuilding anything.
	install(t, f.path("ProgramFilesX86", "Android", "android-sdk"), AndroidSDK)
	if n := count(); n != 2 {
		t.Fatalf("expected 2 candidates after install, got %d", n)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	install(t, f.path("ProgramFiles", "Android", "android-sdk"), AndroidSDK)
	f.store.Err = store.ErrUnavailable
	r := f.resolver()

	if _, ok, err := r.PreferredPath(AndroidSDK); ok || !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("PreferredPath: ok=%v err=%v, want ErrUnavailable", ok, err)
	}

	var errs int
	for _, err := range r.AllAvailablePaths(AndroidSDK) {
		if err == nil {
			t.Fatal("expected the sequence to stop at the store failure")
		}
		errs++
	}
	if errs != 1 {
		t.Fatalf("expected exactly one error, got %d", errs)
	}

	if err := r.SetPreferredPath(AndroidSDK, "/x"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("SetPreferredPath error = %v", err)
	}
}

func TestOverrideKeyRedirect(t *testing.T) {
	f := newFixture(t)
	f.env.LookupEnv = func(name string) (string, bool) {
		if name == "SDK_TEST_REGKEY" {
			return `SOFTWARE\Test Harness`, true
		}
		return "", false
	}
	redirected := install(t, f.path("redirected"), AndroidSDK)
	f.set(t, store.CurrentUser, `SOFTWARE\Test Harness`, "AndroidSdkDirectory", redirected)
	f.set(t, store.CurrentUser, defaultOverrideKey, "AndroidSdkDirectory", install(t, f.path("default"), AndroidSDK))

	opts := f.options()
	opts.OverrideKeyEnv = "SDK_TEST_REGKEY"
	r := New(opts)

	if r.OverrideKey() != `SOFTWARE\Test Harness` {
		t.Fatalf("OverrideKey = %q", r.OverrideKey())
	}
	if got, _, _ := r.PreferredPath(AndroidSDK); got != redirected {
		t.Fatalf("PreferredPath = %s, want %s", got, redirected)
	}

	// Blank values fall back to the default key.
	f.env.LookupEnv = func(string) (string, bool) { return "   ", true }
	opts = f.options()
	opts.OverrideKeyEnv = "SDK_TEST_REGKEY"
	if key := New(opts).OverrideKey(); key != defaultOverrideKey {
		t.Fatalf("OverrideKey = %q, want default", key)
	}
}

func TestExecutableExtensions(t *testing.T) {
	f := newFixture(t)
	f.env.ExecutableExts = []string{".exe", ".cmd"}
	root := f.path("LocalAppData", "Android", "android-sdk")
	mkdir(t, filepath.Join(root, "platform-tools"))
	if err := os.WriteFile(filepath.Join(root, "platform-tools", "adb.exe"), nil, 0o755); err != nil {
		t.Fatalf("write adb.exe: %v", err)
	}
	ndk := f.path("ProgramFilesX86", "Android", "android-ndk-r21e")
	mkdir(t, ndk)
	if err := os.WriteFile(filepath.Join(ndk, "ndk-stack.cmd"), nil, 0o755); err != nil {
		t.Fatalf("write ndk-stack.cmd: %v", err)
	}

	r := f.resolver()
	if got, ok, _ := r.PreferredPath(AndroidSDK); !ok || got != root {
		t.Fatalf("PreferredPath(sdk) = %q, %v", got, ok)
	}
	if got, ok, _ := r.PreferredPath(AndroidNDK); !ok || got != ndk {
		t.Fatalf("PreferredPath(ndk) = %q, %v", got, ok)
	}
}

func TestMarkerMustBeAFile(t *testing.T) {
	f := newFixture(t)
	root := f.path("ProgramFiles", "Android", "android-sdk")
	mkdir(t, filepath.Join(root, "platform-tools", "adb"))

	if got := collect(t, f.resolver(), AndroidSDK); len(got) != 0 {
		t.Fatalf("expected directory named adb to be rejected, got %v", got)
	}
}

func TestSourcesAreCategoryOrdered(t *testing.T) {
	f := newFixture(t)
	r := f.resolver()

	for _, kind := range Kinds() {
		sources, err := r.Sources(kind)
		if err != nil {
			t.Fatalf("Sources(%v): %v", kind, err)
		}
		if len(sources) == 0 || sources[0].Category != Override {
			t.Fatalf("%v: expected an override source first", kind)
		}
		for i := 1; i < len(sources); i++ {
			if sources[i].Category < sources[i-1].Category {
				t.Fatalf("%v: source %d (%s) precedes %s", kind, i, sources[i], sources[i-1])
			}
		}
	}
}

func TestSourcesSkipUnknownFolders(t *testing.T) {
	f := newFixture(t)
	f.env.Folders = map[hostenv.Folder]string{hostenv.ProgramFiles: f.path("ProgramFiles")}
	f.env.SystemDrive = ""

	sources, err := f.resolver().Sources(AndroidSDK)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	var dirs []string
	for _, src := range sources {
		if src.Category == ConventionalPath {
			dirs = append(dirs, src.Dir)
		}
	}
	want := []string{f.path("ProgramFiles", "Android", "android-sdk")}
	if !reflect.DeepEqual(dirs, want) {
		t.Fatalf("conventional dirs = %v, want %v", dirs, want)
	}
}

func TestUnknownKind(t *testing.T) {
	r := newFixture(t).resolver()
	if _, _, err := r.PreferredPath(Kind(42)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := r.SetPreferredPath(Kind(42), "/x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestEnumerationReadsSourcesInOrder(t *testing.T) {
	f := newFixture(t)
	f.env.LookupEnv = func(name string) (string, bool) {
		if name == "SDK_TEST_REGKEY" {
			return `SOFTWARE\Test Harness`, true
		}
		return "", false
	}
	rec := &recordingStore{Store: f.store}
	opts := f.options()
	opts.Store = rec
	opts.OverrideKeyEnv = "SDK_TEST_REGKEY"
	r := New(opts)

	sources, err := r.Sources(AndroidSDK)
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	var want []string
	for _, src := range sources {
		if src.Category == Override || src.Category == InstallerRecord {
			want = append(want, src.Location.String())
		}
	}

	if got := collect(t, r, AndroidSDK); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
	if !reflect.DeepEqual(rec.reads, want) {
		t.Fatalf("reads = %v, want %v", rec.reads, want)
	}
	if !strings.Contains(rec.reads[0], `Test Harness`) {
		t.Fatalf("first read %s should use the redirected key", rec.reads[0])
	}
}
