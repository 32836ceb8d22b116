package vault

import (
	"crypto/sha256"
	"errors"
	"sync"

	"golang.org/x/crypto/argon2"
)

// ErrMissingKey indicates a provider without key material.
var ErrMissingKey = errors.New("vault: missing key material")

// StaticKeyProvider returns the same 32-byte key for every scope.
type StaticKeyProvider struct {
	KeyBytes []byte
}

// Key returns a copy of the static key.
func (p StaticKeyProvider) Key(_ Scope) ([]byte, error) {
	if len(p.KeyBytes) == 0 {
		return nil, ErrMissingKey
	}
	return append([]byte(nil), p.KeyBytes...), nil
}

// DerivedKeyProvider derives one key per purpose from a passphrase with
// argon2id. Derived keys are memoized because argon2id is deliberately slow.
type DerivedKeyProvider struct {
	passphrase []byte
	salt       []byte

	memory      uint32
	iterations  uint32
	parallelism uint8

	mu    sync.Mutex
	cache map[Purpose][]byte
}

// NewDerivedKeyProvider returns an argon2id provider. The salt is usually a
// stable per-installation value such as the state file path.
func NewDerivedKeyProvider(passphrase, salt string) *DerivedKeyProvider {
	saltSum := sha256.Sum256([]byte(salt))

	return &DerivedKeyProvider{
		passphrase:  []byte(passphrase),
		salt:        saltSum[:16],
		memory:      32 * 1024,
		iterations:  3,
		parallelism: 2,
		cache:       make(map[Purpose][]byte),
	}
}

// Key derives (or returns the memoized) key for scope.Purpose.
func (p *DerivedKeyProvider) Key(scope Scope) ([]byte, error) {
	if len(p.passphrase) == 0 {
		return nil, ErrMissingKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if k, ok := p.cache[scope.Purpose]; ok {
		return append([]byte(nil), k...), nil
	}

	salt := append(append([]byte(nil), p.salt...), []byte(scope.Purpose)...)
	k := argon2.IDKey(p.passphrase, salt, p.iterations, p.memory, p.parallelism, aesKeyLen)
	p.cache[scope.Purpose] = k

	return append([]byte(nil), k...), nil
}
