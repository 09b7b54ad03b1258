// Package vault seals and opens provider access secrets for storage
// using AES-256-GCM. A sealed secret is an {iv, tag, cipher} triple,
// each base64, serialized to a single opaque string.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	keyLen   = 32
	nonceLen = 12
	tagLen   = 16
)

// Payload is a sealed secret ready for storage. All fields are base64.
type Payload struct {
	IV     string `json:"iv"`
	Tag    string `json:"tag"`
	Cipher string `json:"cipher"`
}

// Seal encrypts plaintext under the given base64-encoded 32-byte key.
// A fresh random nonce is drawn on every call, so sealing the same
// plaintext twice never yields the same ciphertext.
func Seal(plaintext, keyBase64 string) (Payload, error) {
	aead, err := newAEAD(keyBase64)
	if err != nil {
		return Payload{}, err
	}
	iv := make([]byte, nonceLen)
	if _, err := rand.Read(iv); err != nil {
		return Payload{}, fmt.Errorf("failed to draw nonce: %w", err)
	}
	// Go appends the 16-byte tag to the ciphertext; split it back out
	// to keep the stored format interoperable.
	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	cut := len(sealed) - tagLen
	return Payload{
		IV:     base64.StdEncoding.EncodeToString(iv),
		Tag:    base64.StdEncoding.EncodeToString(sealed[cut:]),
		Cipher: base64.StdEncoding.EncodeToString(sealed[:cut]),
	}, nil
}

// Open decrypts a payload produced by Seal. It fails if the key is wrong
// or the ciphertext was tampered with; it never returns corrupted plaintext.
func Open(p Payload, keyBase64 string) (string, error) {
	aead, err := newAEAD(keyBase64)
	if err != nil {
		return "", err
	}
	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return "", fmt.Errorf("invalid iv encoding: %w", err)
	}
	if len(iv) != nonceLen {
		return "", fmt.Errorf("invalid iv length %d", len(iv))
	}
	tag, err := base64.StdEncoding.DecodeString(p.Tag)
	if err != nil {
		return "", fmt.Errorf("invalid tag encoding: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(p.Cipher)
	if err != nil {
		return "", fmt.Errorf("invalid cipher encoding: %w", err)
	}
	plaintext, err := aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed secret: %w", err)
	}
	return string(plaintext), nil
}

// Serialize encodes a payload as a single string blob for storage.
func Serialize(p Payload) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to serialize payload: %w", err)
	}
	return string(b), nil
}

// Deserialize decodes a blob produced by Serialize.
func Deserialize(serialized string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(serialized), &p); err != nil {
		return Payload{}, fmt.Errorf("failed to deserialize payload: %w", err)
	}
	return p, nil
}

// NewKey generates a random 32-byte key, base64 encoded, suitable for
// APP_ENCRYPTION_KEY.
func NewKey() (string, error) {
	key := make([]byte, keyLen)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// DecodeKey validates a base64 key and returns its raw bytes. A key that
// does not decode to exactly 32 bytes is a configuration error.
func DecodeKey(keyBase64 string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("encryption key must decode to %d bytes, got %d", keyLen, len(key))
	}
	return key, nil
}

func newAEAD(keyBase64 string) (cipher.AEAD, error) {
	key, err := DecodeKey(keyBase64)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
