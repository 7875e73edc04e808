// Package credential encrypts integration credentials at rest.
package credential

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Mode selects the block cipher construction.
type Mode string

const (
	// ModeCBC is AES-256-CBC with PKCS#7 padding and a random IV. It is not
	// authenticated: a corrupted blob is only caught by padding and JSON checks.
	ModeCBC Mode = "cbc"
	// ModeGCM is AES-256-GCM with a random nonce.
	ModeGCM Mode = "gcm"
)

const hkdfInfo = "flipflop integration credentials v1"

var (
	errMalformed  = errors.New("malformed ciphertext")
	errPadding    = errors.New("invalid padding")
	errNotJSON    = errors.New("plaintext is not valid JSON")
	errCiphertext = errors.New("ciphertext length is not a multiple of the block size")
)

// Store encrypts and decrypts credential payloads with a process-wide key.
// It performs no I/O and is safe for concurrent use.
type Store struct {
	mode  Mode
	block cipher.Block
	aead  cipher.AEAD
}

// NewStore derives a 256-bit key from secret with HKDF-SHA256.
func NewStore(secret string, mode Mode) (*Store, error) {
	if secret == "" {
		return nil, fmt.Errorf("credential.NewStore: empty secret")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("credential.NewStore derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("credential.NewStore cipher: %w", err)
	}

	s := &Store{mode: mode, block: block}
	switch mode {
	case ModeCBC:
	case ModeGCM:
		if s.aead, err = cipher.NewGCM(block); err != nil {
			return nil, fmt.Errorf("credential.NewStore gcm: %w", err)
		}
	default:
		return nil, fmt.Errorf("credential.NewStore: unknown mode %q", mode)
	}
	return s, nil
}

// Encrypt serializes payload to JSON and returns an opaque base64 string.
func (s *Store) Encrypt(payload any) (string, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("credential.Encrypt marshal: %w", err)
	}

	var out []byte
	if s.mode == ModeGCM {
		nonce := make([]byte, s.aead.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			return "", fmt.Errorf("credential.Encrypt nonce: %w", err)
		}
		out = s.aead.Seal(nonce, nonce, plain, nil)
	} else {
		padded := pkcs7Pad(plain, aes.BlockSize)
		out = make([]byte, aes.BlockSize+len(padded))
		iv := out[:aes.BlockSize]
		if _, err := rand.Read(iv); err != nil {
			return "", fmt.Errorf("credential.Encrypt iv: %w", err)
		}
		cipher.NewCBCEncrypter(s.block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt and unmarshals the JSON plaintext into dst.
// Any failure is reported as a *domain.DecryptionError.
func (s *Store) Decrypt(blob string, dst any) error {
	plain, err := s.open(blob)
	if err != nil {
		return &domain.DecryptionError{Cause: err}
	}
	if !json.Valid(plain) {
		return &domain.DecryptionError{Cause: errNotJSON}
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		return &domain.DecryptionError{Cause: err}
	}
	return nil
}

// DecryptCredentials is Decrypt into domain.Credentials.
func (s *Store) DecryptCredentials(blob string) (domain.Credentials, error) {
	var c domain.Credentials
	err := s.Decrypt(blob, &c)
	return c, err
}

func (s *Store) open(blob string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, errMalformed
	}

	if s.mode == ModeGCM {
		ns := s.aead.NonceSize()
		if len(raw) < ns+s.aead.Overhead() {
			return nil, errMalformed
		}
		return s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	}

	if len(raw) < 2*aes.BlockSize {
		return nil, errMalformed
	}
	if len(raw)%aes.BlockSize != 0 {
		return nil, errCiphertext
	}
	iv, body := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(s.block, iv).CryptBlocks(plain, body)
	return pkcs7Unpad(plain, aes.BlockSize)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errPadding
		}
	}
	return b[:len(b)-n], nil
}
