// Package vault encrypts small secrets at rest with AES-256-GCM.
//
// Every ciphertext is bound to a Scope through GCM additional data, so a blob
// sealed for one subject or purpose cannot be opened under another. Keys come
// from a KeyProvider; DerivedKeyProvider stretches a configured passphrase
// with argon2id.
package vault
