package sdk

import (
	"path/filepath"
	"strings"

	"sdklocator/internal/hostenv"
	"sdklocator/internal/store"
)

// DefaultOverrideKeyEnv names the environment variable that redirects the
// override key.
const DefaultOverrideKeyEnv = "XAMARIN_ANDROID_REGKEY"

const (
	defaultOverrideKey = `SOFTWARE\Novell\Mono for Android`

	xamarinInstallerKey   = `SOFTWARE\Xamarin\MonoAndroid`
	xamarinInstallerValue = "PrivateAndroidSdkPath"

	androidInstallerKey   = `SOFTWARE\Android SDK Tools`
	androidInstallerValue = "Path"

	javaSoftKey         = `SOFTWARE\JavaSoft\Java Development Kit`
	javaSoftMarkerValue = "CurrentVersion"
	javaSoftHomeValue   = "JavaHome"

	ndkDirectoryPattern = "android-ndk-r*"
)

// javaVersions are tried newest first.
var javaVersions = []string{"1.8", "1.7", "1.6"}

// layout builds the source tables for one resolution pass.
type layout struct {
	env         hostenv.Env
	overrideKey string
}

func (l layout) overrides(spec KindSpec) []Source {
	sources := make([]Source, 0, len(spec.OverrideScopes))
	for _, scope := range spec.OverrideScopes {
		sources = append(sources, Source{
			Category: Override,
			Location: Location{Scope: scope, Key: l.overrideKey, Value: spec.ValueName, View: store.View32},
		})
	}
	return sources
}

func (l layout) androidSDK(spec KindSpec) []Source {
	sources := l.overrides(spec)

	sources = append(sources, Source{
		Category: InstallerRecord,
		Location: Location{Scope: store.CurrentUser, Key: xamarinInstallerKey, Value: xamarinInstallerValue, View: store.View32},
	})
	for _, scope := range []store.Scope{store.CurrentUser, store.LocalMachine} {
		sources = append(sources, Source{
			Category: InstallerRecord,
			Location: Location{Scope: scope, Key: androidInstallerKey, Value: androidInstallerValue, View: store.View32},
		})
	}

	dirs := []string{
		l.folder(hostenv.LocalAppData, "Xamarin", "MonoAndroid", "android-sdk-windows"),
		l.folder(hostenv.ProgramFilesX86, "Android", "android-sdk"),
		l.folder(hostenv.ProgramFilesX86, "Android", "android-sdk-windows"),
		l.folder(hostenv.ProgramFiles, "Android", "android-sdk"),
		l.folder(hostenv.LocalAppData, "Android", "android-sdk"),
		l.folder(hostenv.CommonAppData, "Android", "android-sdk"),
		l.drive("android-sdk-windows"),
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		sources = append(sources, Source{Category: ConventionalPath, Dir: dir})
	}
	return sources
}

func (l layout) androidNDK(spec KindSpec) []Source {
	sources := l.overrides(spec)

	roots := []string{
		l.folder(hostenv.LocalAppData, "Xamarin", "MonoAndroid"),
		l.folder(hostenv.ProgramFilesX86, "Android"),
		l.folder(hostenv.CommonAppData, "Microsoft", "AndroidNDK"),
		l.folder(hostenv.CommonAppData, "Microsoft", "AndroidNDK32"),
		l.folder(hostenv.CommonAppData, "Microsoft", "AndroidNDK64"),
		l.drive(),
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		sources = append(sources, Source{Category: GlobPattern, Dir: root, Pattern: ndkDirectoryPattern})
	}
	return sources
}

func (l layout) javaSDK(spec KindSpec) []Source {
	sources := l.overrides(spec)

	for _, view := range []store.View{store.View32, store.View64} {
		marker := &Location{Scope: store.LocalMachine, Key: javaSoftKey, Value: javaSoftMarkerValue, View: view}
		for _, version := range javaVersions {
			sources = append(sources, Source{
				Category: InstallerRecord,
				Location: Location{Scope: store.LocalMachine, Key: javaSoftKey + `\` + version, Value: javaSoftHomeValue, View: view},
				Requires: marker,
			})
		}
	}
	return sources
}

// folder joins elem onto a special folder, or returns "" when the folder is
// unknown on this host.
func (l layout) folder(f hostenv.Folder, elem ...string) string {
	base := l.env.Folder(f)
	if base == "" {
		return ""
	}
	return filepath.Join(append([]string{base}, elem...)...)
}

func (l layout) drive(elem ...string) string {
	root := l.env.SystemDrive
	if root == "" {
		return ""
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) && !strings.HasSuffix(root, "/") {
		root += string(filepath.Separator)
	}
	if len(elem) == 0 {
		return root
	}
	return filepath.Join(append([]string{root}, elem...)...)
}
