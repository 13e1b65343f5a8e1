package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

const encPrefix = "enc::" // prefix that marks an already-encrypted value

// Cipher encrypts and decrypts monitor secrets at rest using AES-256-GCM.
// The key is derived from the configured encryption secret.
type Cipher struct {
	key []byte // 32-byte AES-256 key
}

// New derives an AES-256 key from the given secret.
func New(secret []byte) *Cipher {
	h := sha256.Sum256(secret) // always exactly 32 bytes
	return &Cipher{key: h[:]}
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns "enc::<base64>" or empty string if input is empty.
// If the value is already encrypted (has the prefix), it is returned as-is.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if strings.HasPrefix(plaintext, encPrefix) {
		return plaintext, nil // already encrypted
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return encPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts an "enc::<base64>" value back to plaintext.
// If the value has no prefix (legacy plaintext), it is returned as-is.
func (c *Cipher) Decrypt(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}
	if !strings.HasPrefix(encrypted, encPrefix) {
		return encrypted, nil // legacy plaintext, encrypted on next save
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encrypted, encPrefix))
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	ns := gcm.NonceSize()
	if len(data) < ns {
		return "", errors.New("crypto: ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// MaskSecret returns a masked version of a secret for display.
// Shows only the last 4 characters, e.g. "••••••••abc1"
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("•", 8)
	}
	return strings.Repeat("•", 8) + secret[len(secret)-4:]
}
