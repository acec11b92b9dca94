package wallet

import "errors"

var (
	// ErrInvalidKey signals malformed private key material
	ErrInvalidKey = errors.New("invalid private key")

	// ErrCipherKey signals an unusable key-at-rest encryption key
	ErrCipherKey = errors.New("invalid encryption key")

	// ErrDecrypt signals that an encrypted key blob could not be opened
	ErrDecrypt = errors.New("private key decryption failed")
)
