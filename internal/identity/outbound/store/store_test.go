package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/shandysiswandi/myfarm/internal/identity/entity"
	"github.com/shandysiswandi/myfarm/internal/pkg/kvstore"
	"github.com/shandysiswandi/myfarm/internal/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(key byte) (*Store, *kvstore.Memory) {
	kv := kvstore.NewMemory()
	enc := vault.NewAESGCM(vault.StaticKeyProvider{KeyBytes: bytes.Repeat([]byte{key}, 32)})
	return New(kv, enc), kv
}

func TestStore_Credentials(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(1)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, entity.ErrNoRememberedCredentials)

	require.NoError(t, s.Save(ctx, entity.Credentials{CountryCode: "62", PhoneSuffix: "81234567"}))

	raw, err := kv.Get(keyRememberedCredentials)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "81234567", "stored value is encrypted")

	creds, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "+6281234567", creds.Phone())

	require.NoError(t, s.Forget(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, entity.ErrNoRememberedCredentials)
}

func TestStore_Tokens(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(2)

	_, err := s.LoadTokens(ctx)
	assert.ErrorIs(t, err, entity.ErrNoStoredTokens)

	want := entity.Tokens{Phone: "+6281234567", AccessToken: "at", RefreshToken: "rt"}
	require.NoError(t, s.SaveTokens(ctx, want))

	got, err := s.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	require.NoError(t, s.ForgetTokens(ctx))
	_, err = s.LoadTokens(ctx)
	assert.ErrorIs(t, err, entity.ErrNoStoredTokens)
}

func TestStore_DropsUndecryptableEntries(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(3)
	require.NoError(t, s.Save(ctx, entity.Credentials{CountryCode: "62", PhoneSuffix: "81234567"}))

	rotated := New(kv, vault.NewAESGCM(vault.StaticKeyProvider{KeyBytes: bytes.Repeat([]byte{4}, 32)}))
	_, err := rotated.Load(ctx)
	require.Error(t, err)

	_, err = rotated.Load(ctx)
	assert.ErrorIs(t, err, entity.ErrNoRememberedCredentials)
}
