// Package cryptox seals small secrets (the session token) for storage in the
// local database. Keys are derived with argon2id and data is sealed with
// AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/protodesk/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	KeySize  = 32
	SaltSize = 16
)

var ErrOpenFailed = errors.New("cannot open sealed data")

// DeriveKey stretches secret with salt into a 32-byte AES key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, KeySize)
}

// Seal encrypts plaintext with key using AES-GCM. A fresh nonce is generated
// for every call and returned alongside the ciphertext.
func Seal(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Open reverses Seal. Any authentication failure (wrong key, tampered data)
// is reported as ErrOpenFailed.
func Open(key, ciphertext, nonce []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce size %d", ErrOpenFailed, len(nonce))
	}
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
