// Package kvstore is the small local key-value store of the storefront client.
//
// Values are opaque bytes; the file-backed store keeps them base64 encoded in a
// YAML document managed by viper.
package kvstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// ErrNotFound is returned when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

const entriesKey = "entries"

// Store reads and writes small values by key.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// File is a Store persisted to a YAML file.
type File struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// NewFile opens the store at path, creating parent directories as needed.
// A missing file is an empty store.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("kvstore: path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("kvstore: create dir: %w", err)
	}

	f := &File{path: path, entries: map[string]string{}}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("kvstore: read %s: %w", path, err)
			}
		}
	}

	for k, val := range v.GetStringMapString(entriesKey) {
		f.entries[k] = val
	}

	return f, nil
}

// Get returns the value stored under key.
func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, ok := f.entries[normalize(key)]
	if !ok {
		return nil, ErrNotFound
	}

	value, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("kvstore: decode %q: %w", key, err)
	}

	return value, nil
}

// Set stores value under key and flushes the file.
func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[normalize(key)] = base64.StdEncoding.EncodeToString(value)
	return f.flush()
}

// Delete removes key and flushes the file. Deleting a missing key is a no-op.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := normalize(key)
	if _, ok := f.entries[k]; !ok {
		return nil
	}

	delete(f.entries, k)
	return f.flush()
}

func (f *File) flush() error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0o600)
	v.Set(entriesKey, f.entries)

	if err := v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", f.path, err)
	}

	return nil
}

// viper keys are case-insensitive and dots nest.
func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), ".", "_")
}

// Memory is a process-local Store.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: map[string][]byte{}}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.entries[normalize(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[normalize(key)] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, normalize(key))
	return nil
}
