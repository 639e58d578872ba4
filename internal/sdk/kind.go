package sdk

import (
	"fmt"
	"strings"

	"sdklocator/internal/store"
)

// Kind is a toolchain family the resolver can locate.
type Kind int

const (
	AndroidSDK Kind = iota
	AndroidNDK
	JavaSDK
)

// KindSpec is the per-kind data the generic resolution algorithm runs on.
type KindSpec struct {
	Kind Kind
	// ID is the stable CLI and JSON name.
	ID          string
	DisplayName string
	// Subdir and Marker form the validation signature:
	// <candidate>/<Subdir>/<Marker>[ext] must exist.
	Subdir string
	Marker string
	// ValueName is the override value written by SetPreferredPath.
	ValueName string
	// OverrideScopes are probed for the override value, in order.
	OverrideScopes []store.Scope

	sources func(layout, KindSpec) []Source
}

var kindSpecs = []KindSpec{
	{
		Kind:           AndroidSDK,
		ID:             "android-sdk",
		DisplayName:    "Android SDK",
		Subdir:         "platform-tools",
		Marker:         "adb",
		ValueName:      "AndroidSdkDirectory",
		OverrideScopes: []store.Scope{store.CurrentUser, store.LocalMachine},
		sources:        layout.androidSDK,
	},
	{
		Kind:           AndroidNDK,
		ID:             "android-ndk",
		DisplayName:    "Android NDK",
		Subdir:         ".",
		Marker:         "ndk-stack",
		ValueName:      "AndroidNdkDirectory",
		OverrideScopes: []store.Scope{store.CurrentUser, store.LocalMachine},
		sources:        layout.androidNDK,
	},
	{
		Kind:           JavaSDK,
		ID:             "java-sdk",
		DisplayName:    "Java SDK",
		Subdir:         "bin",
		Marker:         "jarsigner",
		ValueName:      "JavaSdkDirectory",
		OverrideScopes: []store.Scope{store.CurrentUser},
		sources:        layout.javaSDK,
	},
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindSpecs))
	for i, spec := range kindSpecs {
		kinds[i] = spec.Kind
	}
	return kinds
}

// Spec returns the lookup record for kind.
func Spec(kind Kind) (KindSpec, bool) {
	for _, spec := range kindSpecs {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return KindSpec{}, false
}

// ParseKind accepts the ID of a kind ("android-sdk") or a short alias
// ("sdk", "ndk", "jdk", "java").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "android-sdk", "sdk":
		return AndroidSDK, nil
	case "android-ndk", "ndk":
		return AndroidNDK, nil
	case "java-sdk", "java", "jdk":
		return JavaSDK, nil
	}
	return 0, fmt.Errorf("unknown toolchain kind %q (want android-sdk, android-ndk or java-sdk)", s)
}

func (k Kind) String() string {
	if spec, ok := Spec(k); ok {
		return spec.ID
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
