package store

import (
	"strings"
	"sync"
)

// Memory is an in-process Store. Keys compare case-insensitively and views
// are ignored, matching the file backend.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// Err, when set, is returned from every call.
	Err error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func memoryKey(scope Scope, key, value string) string {
	return strings.ToLower(KeyName(scope, key, value))
}

func (m *Memory) GetString(scope Scope, key, value string, _ View) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.values[memoryKey(scope, key, value)]
	return v, ok, nil
}

func (m *Memory) SetString(scope Scope, key, value, data string, _ View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[memoryKey(scope, key, value)] = data
	return nil
}
