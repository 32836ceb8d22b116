package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/kvstore"
	"github.com/shandysiswandi/myfarm/internal/pkg/vault"
)

const (
	keyRememberedCredentials = "remembered_credentials"
	keySessionTokens         = "session_tokens"

	subject = "device"
)

// Store keeps remembered credentials and session tokens encrypted in the
// local key-value store.
type Store struct {
	kv  kvstore.Store
	enc vault.Encryptor
}

func New(kv kvstore.Store, enc vault.Encryptor) *Store {
	return &Store{kv: kv, enc: enc}
}

// Load returns entity.ErrNoRememberedCredentials when nothing is stored.
func (s *Store) Load(_ context.Context) (*entity.Credentials, error) {
	var creds entity.Credentials
	err := s.open(keyRememberedCredentials, vault.PurposeRememberedCredentials, &creds)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, entity.ErrNoRememberedCredentials
	}
	if err != nil {
		return nil, err
	}

	return &creds, nil
}

func (s *Store) Save(_ context.Context, creds entity.Credentials) error {
	return s.seal(keyRememberedCredentials, vault.PurposeRememberedCredentials, creds)
}

func (s *Store) Forget(_ context.Context) error {
	return s.kv.Delete(keyRememberedCredentials)
}

// LoadTokens returns entity.ErrNoStoredTokens when nothing is stored.
func (s *Store) LoadTokens(_ context.Context) (*entity.Tokens, error) {
	var tokens entity.Tokens
	err := s.open(keySessionTokens, vault.PurposeSessionTokens, &tokens)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, entity.ErrNoStoredTokens
	}
	if err != nil {
		return nil, err
	}

	return &tokens, nil
}

func (s *Store) SaveTokens(_ context.Context, tokens entity.Tokens) error {
	return s.seal(keySessionTokens, vault.PurposeSessionTokens, tokens)
}

func (s *Store) ForgetTokens(_ context.Context) error {
	return s.kv.Delete(keySessionTokens)
}

func (s *Store) seal(key string, purpose vault.Purpose, v any) error {
	plain, err := json.Marshal(v)
	if err != nil {
		return err
	}

	sealed, err := s.enc.Encrypt(plain, vault.Scope{Subject: subject, Purpose: purpose})
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}

	return s.kv.Set(key, sealed)
}

// open drops entries that no longer decrypt, e.g. after the store secret
// changed.
func (s *Store) open(key string, purpose vault.Purpose, v any) error {
	sealed, err := s.kv.Get(key)
	if err != nil {
		return err
	}

	plain, err := s.enc.Decrypt(sealed, vault.Scope{Subject: subject, Purpose: purpose})
	if err != nil {
		if derr := s.kv.Delete(key); derr != nil {
			return errors.Join(err, derr)
		}
		return fmt.Errorf("decrypt %s: %w", key, err)
	}

	if err := json.Unmarshal(plain, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}

	return nil
}
