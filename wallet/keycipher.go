package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// Keycipher encrypts private keys before they reach durable storage.
// Secretbox (XSalsa20 + Poly1305) with a random nonce prefixed to each
// sealed blob.
type Keycipher struct {
	key [32]byte
}

// NewKeycipher builds a cipher from a 32-byte hex-encoded key
func NewKeycipher(hexKey string) (*Keycipher, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: not hex: %v", ErrCipherKey, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: need 32 bytes, got %d", ErrCipherKey, len(raw))
	}
	c := &Keycipher{}
	copy(c.key[:], raw)
	return c, nil
}

// Seal encrypts a private key for storage
func (c *Keycipher) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce generation: %v", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &c.key), nil
}

// Open decrypts a previously sealed private key
func (c *Keycipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", ErrDecrypt)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}
