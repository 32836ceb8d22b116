package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetMilli retrieves the value associated with the given key as milliseconds.
	GetMilli(key string) time.Duration

	// GetSecond retrieves the value associated with the given key as seconds.
	// If the key does not exist or the value cannot be converted to an integer,
	// a zero duration is returned.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with the given key as minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations handle retrieval and type conversion, falling back to the
// registered defaults when a key is absent.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the value associated with the given key as an int.
	GetInt(key string) int

	// GetUint retrieves the value associated with the given key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the value associated with the given key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with the given key as a string.
	GetString(key string) string

	// GetPath retrieves a filesystem path, expanding a leading "~" to the
	// user home directory.
	GetPath(key string) string

	// GetBinary retrieves the value associated with the given key as a byte slice.
	// Configuration value is stored as base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with the given key as a slice of strings.
	// Both YAML sequences and the <element1>,<element2>,... format are accepted.
	GetArray(key string) []string
}
