package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of a File store:
//
//	HKCU:
//	  SOFTWARE\Novell\Mono for Android:
//	    AndroidSdkDirectory: /opt/android-sdk
type document map[string]map[string]map[string]string

// File is a Store persisted as a YAML document. It stands in for the
// registry on hosts that have none.
type File struct {
	Path string

	mu sync.Mutex
}

// NewFile returns a File store backed by path. The file is created on the
// first write.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) GetString(scope Scope, key, value string, _ View) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", false, err
	}
	values := lookupFold(doc[scope.String()], key)
	if values == nil {
		return "", false, nil
	}
	for name, data := range values {
		if strings.EqualFold(name, value) {
			return data, true, nil
		}
	}
	return "", false, nil
}

func (f *File) SetString(scope Scope, key, value, data string, _ View) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	hive := doc[scope.String()]
	if hive == nil {
		hive = map[string]map[string]string{}
		doc[scope.String()] = hive
	}
	keyName := key
	for existing := range hive {
		if strings.EqualFold(existing, key) {
			keyName = existing
			break
		}
	}
	values := hive[keyName]
	if values == nil {
		values = map[string]string{}
		hive[keyName] = values
	}
	valueName := value
	for existing := range values {
		if strings.EqualFold(existing, value) {
			valueName = existing
			break
		}
	}
	values[valueName] = data

	return f.save(doc)
}

func lookupFold(hive map[string]map[string]string, key string) map[string]string {
	if values, ok := hive[key]; ok {
		return values
	}
	for name, values := range hive {
		if strings.EqualFold(name, key) {
			return values
		}
	}
	return nil
}

func (f *File) load() (document, error) {
	contents, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, f.Path, err)
	}

	doc := document{}
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, f.Path, err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

func (f *File) save(doc document) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: prepare store directory: %v", ErrUnavailable, err)
	}

	buf, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "store-*.yaml")
	if err != nil {
		return fmt.Errorf("%w: create temp store: %v", ErrUnavailable, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write store temp: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close store temp: %v", ErrUnavailable, err)
	}

	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("%w: replace store: %v", ErrUnavailable, err)
	}
	return nil
}
