// Package seal encrypts texts before they reach the backing store, so a
// store dump never exposes plaintext.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	saltLen  = 16
	nonceLen = 12 // GCM standard
	keyLen   = 32 // AES-256

	blobPrefix = "v1:"

	masterSalt = "textdrop/seal/v1"
	hkdfInfo   = "textdrop blob key"
)

// ErrOpen is returned when a blob cannot be decrypted with the given key.
var ErrOpen = errors.New("seal: cannot open blob")

// KDFParams are the argon2id parameters used to stretch the sealing key.
type KDFParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:    1,
		Memory:  64 * 1024, // 64 MB
		Threads: 4,
	}
}

// TestKDFParams returns cheaper parameters for tests.
func TestKDFParams() KDFParams {
	return KDFParams{
		Time:    1,
		Memory:  1024,
		Threads: 4,
	}
}

var (
	kdfParams   = DefaultKDFParams()
	kdfParamsMu sync.RWMutex
)

func getKDFParams() KDFParams {
	kdfParamsMu.RLock()
	defer kdfParamsMu.RUnlock()
	return kdfParams
}

func setKDFParams(p KDFParams) {
	kdfParamsMu.Lock()
	defer kdfParamsMu.Unlock()
	kdfParams = p
}

// stretchKey turns the server secret into the master key. Replaced in tests.
var stretchKey = func(secret string) []byte {
	p := getKDFParams()
	return argon2.IDKey([]byte(secret), []byte(masterSalt), p.Time, p.Memory, p.Threads, keyLen)
}

// Sealer encrypts and decrypts blobs under one server secret. The argon2id
// stretch happens once in NewSealer; each blob gets its own key expanded
// from the master key and a random salt with HKDF.
type Sealer struct {
	master []byte
}

func NewSealer(secret string) *Sealer {
	return &Sealer{master: stretchKey(secret)}
}

func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.master, salt, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns "v1:" + base64(salt|nonce|ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	raw := make([]byte, saltLen+nonceLen, saltLen+nonceLen+len(plaintext)+16)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("salt/nonce: %w", err)
	}
	salt, nonce := raw[:saltLen], raw[saltLen:]

	gcm, err := s.aead(salt)
	if err != nil {
		return "", err
	}
	raw = gcm.Seal(raw, nonce, []byte(plaintext), nil)
	return blobPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// Open reverses Seal.
func (s *Sealer) Open(blob string) (string, error) {
	b64, ok := strings.CutPrefix(blob, blobPrefix)
	if !ok {
		return "", fmt.Errorf("%w: unsupported format", ErrOpen)
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if len(raw) < saltLen+nonceLen+1 {
		return "", fmt.Errorf("%w: blob too short", ErrOpen)
	}

	salt := raw[:saltLen]
	nonce := raw[saltLen : saltLen+nonceLen]
	gcm, err := s.aead(salt)
	if err != nil {
		return "", err
	}
	pt, err := gcm.Open(nil, nonce, raw[saltLen+nonceLen:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: auth failed", ErrOpen)
	}
	return string(pt), nil
}
