package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required master key size for AES-256.
	KeySize = 32

	// keyID tags every ciphertext with the key generation that produced it,
	// leaving room for a future rotation scheme without re-encrypting rows.
	keyID byte = 0x01

	// derivationInfo provides HKDF domain separation so the same master key
	// can never be reused verbatim by another subsystem.
	derivationInfo = "mfakit-vault-v1"
)

// Vault performs authenticated symmetric encryption of short MFA secrets
// (TOTP seeds, phone numbers, backup codes). It is the trust boundary for
// all persisted MFA material: plaintext never leaves the calling operation.
type Vault struct {
	aead cipher.AEAD
}

// New creates a Vault from configuration. The master key must be a
// base64-encoded 32-byte value; the working AES key is derived from it via
// HKDF-SHA256. Construction fails when the key is absent or malformed so a
// misconfigured process never starts with an unusable vault.
func New(cfg Config) (*Vault, error) {
	if cfg.EncryptionKey == "" {
		return nil, errors.Join(ErrInvalidKey, ErrKeyNotSet)
	}

	master, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	if len(master) != KeySize {
		return nil, errors.Join(ErrInvalidKey, ErrInvalidKeyLength)
	}

	return NewWithKey(master)
}

// NewWithKey creates a Vault from a raw 32-byte master key.
func NewWithKey(master []byte) (*Vault, error) {
	if len(master) != KeySize {
		return nil, errors.Join(ErrInvalidKey, ErrInvalidKeyLength)
	}

	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(derivationInfo)), derived); err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrInvalidKey, err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals a plaintext secret with AES-256-GCM. The returned string is
// base64(keyID || nonce || ciphertext || tag), self-describing so Decrypt
// needs no out-of-band state.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	out := make([]byte, 1, 1+len(nonce)+len(plaintext)+v.aead.Overhead())
	out[0] = keyID
	out = append(out, nonce...)
	out = v.aead.Seal(out, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt opens a ciphertext produced by Encrypt. A failed authentication
// tag yields ErrIntegrity: the payload was tampered with or sealed under a
// different key, and the calling operation must treat it as fatal.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(raw) < 1+nonceSize {
		return "", ErrInvalidCiphertext
	}
	if raw[0] != keyID {
		return "", errors.Join(ErrIntegrity, ErrUnknownKeyID)
	}

	nonce, sealed := raw[1:1+nonceSize], raw[1+nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errors.Join(ErrIntegrity, err)
	}

	return string(plaintext), nil
}

// GenerateEncodedKey creates a new random base64-encoded 32-byte master key,
// suitable for seeding MFA_ENCRYPTION_KEY.
func GenerateEncodedKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", errors.Join(ErrInvalidKey, err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
