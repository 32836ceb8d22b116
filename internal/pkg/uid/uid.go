// Package uid generates opaque identifiers for correlation IDs, idempotency
// keys and session references.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
