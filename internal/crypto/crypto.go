// Package crypto seals client contact details stored in the booking ledger.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100000
	keySize    = 32 // AES-256
	saltSuffix = "gogoref-ledger-salt"
)

// ErrCiphertext is returned for values that were not sealed with this key
var ErrCiphertext = errors.New("invalid ciphertext")

// Encryptor encrypts and decrypts ledger fields with AES-GCM
type Encryptor struct {
	key []byte
}

// NewEncryptor derives a key from passphrase. An empty passphrase returns nil,
// and a nil Encryptor passes values through unchanged.
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}

	// The ledger has no per-record salt; the salt is derived from the passphrase
	salt := sha256.Sum256([]byte(passphrase + saltSuffix))
	key := pbkdf2.Key([]byte(passphrase), salt[:], iterations, keySize, sha256.New)

	return &Encryptor{key: key}
}

// Enabled reports whether e encrypts
func (e *Encryptor) Enabled() bool {
	return e != nil && e.key != nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext and returns it base64 encoded with the nonce prepended
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if !e.Enabled() || plaintext == "" {
		return plaintext, nil
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt opens a value produced by Encrypt. Unlike Encrypt it fails loudly:
// a value that does not open with this key yields ErrCiphertext.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if !e.Enabled() || ciphertext == "" {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: too short", ErrCiphertext)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}

	return string(plaintext), nil
}

// SealFields encrypts each field in place
func (e *Encryptor) SealFields(fields ...*string) error {
	for _, f := range fields {
		sealed, err := e.Encrypt(*f)
		if err != nil {
			return err
		}
		*f = sealed
	}
	return nil
}

// OpenFields decrypts each field in place. On error the fields already
// opened stay opened.
func (e *Encryptor) OpenFields(fields ...*string) error {
	for _, f := range fields {
		opened, err := e.Decrypt(*f)
		if err != nil {
			return err
		}
		*f = opened
	}
	return nil
}
