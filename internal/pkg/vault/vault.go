package vault

// Purpose identifies what a sealed secret is used for.
type Purpose string

const (
	// PurposeRememberedCredentials scopes the sign-in details kept for the
	// remember-me option.
	PurposeRememberedCredentials Purpose = "remembered_credentials"
	// PurposeSessionTokens scopes persisted access and refresh tokens.
	PurposeSessionTokens Purpose = "session_tokens"
)

// Scope binds encryption to a subject and purpose.
// It is used as AAD (Additional Authenticated Data) in AES-GCM.
type Scope struct {
	// Subject identifies the owner, e.g. the local profile name.
	Subject string
	// Purpose is the encryption purpose.
	Purpose Purpose
}

// Encryptor seals and opens secrets for a scope.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) ([]byte, error)
	Decrypt(ciphertext []byte, scope Scope) ([]byte, error)
}

// KeyProvider provides raw AES-256 keys (32 bytes).
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}
