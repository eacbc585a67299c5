// Package crypto provides the at-rest protection for SSNs: AES-256-GCM
// envelope encryption, a keyed blind index for equality lookups, and
// secure account-number generation.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	keySize   = 32
	nonceSize = 16
	tagSize   = 16
)

var (
	ErrInvalidKeySize   = errors.New("key must be 32 bytes")
	ErrInvalidEnvelope  = errors.New("invalid encrypted text format")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Service encrypts and indexes sensitive values. The encryption key and the
// blind-index key must be independent; knowing one must not reveal the other.
type Service struct {
	aead     cipher.AEAD
	indexKey []byte
}

func New(encryptionKey, indexKey []byte) (*Service, error) {
	if len(encryptionKey) != keySize || len(indexKey) != keySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}

	return &Service{aead: aead, indexKey: indexKey}, nil
}

// Encrypt seals the plaintext with a fresh random nonce and returns the
// envelope as nonce:tag:ciphertext, each part hex encoded.
func (s *Service) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return fmt.Sprintf("%s:%s:%s",
		hex.EncodeToString(nonce),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	), nil
}

// Decrypt opens an envelope produced by Encrypt. A malformed envelope
// returns ErrInvalidEnvelope; a failed authentication tag returns
// ErrDecryptionFailed.
func (s *Service) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", ErrInvalidEnvelope
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return "", ErrInvalidEnvelope
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", ErrInvalidEnvelope
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrInvalidEnvelope
	}

	plaintext, err := s.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// Hash computes the deterministic blind index for a plaintext value using
// HMAC-SHA256 over the index key. It is only suitable for equality lookups,
// never for password storage.
func (s *Service) Hash(plaintext string) string {
	mac := hmac.New(sha256.New, s.indexKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

var accountNumberSpace = big.NewInt(10_000_000_000)

// GenerateAccountNumber draws a uniform random integer in [0, 1e10) from
// crypto/rand and zero-pads it to 10 digits.
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%010d", n), nil
}
