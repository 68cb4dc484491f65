package storage

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/agrimarket/agrimarket/internal/assert"
)

const (
	sealVersion = 1
	saltSize    = 16

	// scrypt parameters recommended for interactive logins
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// ErrSealed is returned when a sealed session file cannot be opened with the
// configured passphrase
var ErrSealed = errors.New("storage: session file cannot be decrypted with the configured passphrase")

// sealedEnvelope is the on-disk layout of an encrypted session file
type sealedEnvelope struct {
	Version int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

func deriveKey(passphrase, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// seal encrypts plaintext with a key derived from passphrase and a fresh salt
func seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	assert.Length(key, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	assert.Length(nonce, chacha20poly1305.NonceSizeX)

	return json.Marshal(sealedEnvelope{
		Version: sealVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    aead.Seal(nil, nonce, plaintext, nil),
	})
}

// isSealed reports whether raw is a sealed session file
func isSealed(raw []byte) bool {
	var env sealedEnvelope
	return json.Unmarshal(raw, &env) == nil && env.Version == sealVersion
}

// unseal reverses seal
func unseal(passphrase, raw []byte) ([]byte, error) {
	var env sealedEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if env.Version != sealVersion {
		return nil, fmt.Errorf("unsupported sealed session file version %d", env.Version)
	}

	key, err := deriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, ErrSealed
	}

	plaintext, err := aead.Open(nil, env.Nonce, env.Data, nil)
	if err != nil {
		return nil, ErrSealed
	}
	return plaintext, nil
}
