package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

var errEmptySecret = errors.New("secret key cannot be empty")

// gcmFor derives a 256-bit key from the secret and returns an AES-GCM AEAD.
// Hashing the secret lets operators use passphrases of any length.
func gcmFor(secret string) (cipher.AEAD, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptString seals plaintext with AES-256-GCM under the given secret and
// returns base64 text safe to store in a database column. The random nonce is
// prepended to the ciphertext.
func EncryptString(secret, plaintext string) (string, error) {
	gcm, err := gcmFor(secret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. It fails when the secret differs from
// the one used to seal or when the ciphertext was tampered with.
func DecryptString(secret, ciphertext string) (string, error) {
	gcm, err := gcmFor(secret)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	opened, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(opened), nil
}
