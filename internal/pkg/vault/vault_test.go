package vault

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticKey() StaticKeyProvider {
	return StaticKeyProvider{KeyBytes: bytes.Repeat([]byte{7}, 32)}
}

func TestAESGCM_RoundTrip(t *testing.T) {
	enc := NewAESGCM(staticKey())
	scope := Scope{Subject: "default", Purpose: PurposeRememberedCredentials}

	sealed, err := enc.Encrypt([]byte(`{"country_code":"+62"}`), scope)
	require.NoError(t, err)

	plain, err := enc.Decrypt(sealed, scope)
	require.NoError(t, err)
	assert.Equal(t, `{"country_code":"+62"}`, string(plain))
}

func TestAESGCM_ScopeIsBound(t *testing.T) {
	enc := NewAESGCM(staticKey())

	sealed, err := enc.Encrypt([]byte("secret"), Scope{Subject: "a", Purpose: PurposeSessionTokens})
	require.NoError(t, err)

	_, err = enc.Decrypt(sealed, Scope{Subject: "b", Purpose: PurposeSessionTokens})
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = enc.Decrypt(sealed, Scope{Subject: "a", Purpose: PurposeRememberedCredentials})
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestAESGCM_Errors(t *testing.T) {
	enc := NewAESGCM(staticKey())
	scope := Scope{Subject: "a"}

	_, err := enc.Encrypt(nil, scope)
	assert.ErrorIs(t, err, ErrPlaintextEmpty)

	_, err = enc.Decrypt([]byte{0, 1, 2}, scope)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)

	sealed, err := enc.Encrypt([]byte("x"), scope)
	require.NoError(t, err)
	sealed[0] = 9
	_, err = enc.Decrypt(sealed, scope)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = NewAESGCM(StaticKeyProvider{KeyBytes: []byte("short")}).Encrypt([]byte("x"), scope)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = NewAESGCM(nil).Encrypt([]byte("x"), scope)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDerivedKeyProvider(t *testing.T) {
	p := NewDerivedKeyProvider("passphrase", "/home/u/.myfarm/state.yaml")

	k1, err := p.Key(Scope{Purpose: PurposeRememberedCredentials})
	require.NoError(t, err)
	k2, err := p.Key(Scope{Purpose: PurposeRememberedCredentials})
	require.NoError(t, err)
	k3, err := p.Key(Scope{Purpose: PurposeSessionTokens})
	require.NoError(t, err)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)

	_, err = NewDerivedKeyProvider("", "salt").Key(Scope{})
	assert.ErrorIs(t, err, ErrMissingKey)
}
