package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the length of a secretbox key.
	KeySize = 32

	// SaltSize is the number of random bytes in a new salt.
	SaltSize = 32

	// MinSaltSize is the smallest decoded salt accepted.
	MinSaltSize = 16

	// DefaultWorkFactor gives scrypt N = 1<<15.
	DefaultWorkFactor uint = 15

	// MinWorkFactor and MaxWorkFactor bound the configurable scrypt cost.
	MinWorkFactor uint = 10
	MaxWorkFactor uint = 22
)

// Key is a derived journal key.
type Key struct {
	bytes [KeySize]byte
}

// NewKey wraps raw key bytes. It is mostly useful in tests.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", kerrors.ErrInvalidKeyMaterial, KeySize, len(raw))
	}
	k := &Key{}
	copy(k.bytes[:], raw)
	return k, nil
}

// NewSalt returns SaltSize random bytes encoded as standard base64.
func NewSalt() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DecodeSalt decodes a configured salt and checks its length.
func DecodeSalt(salt string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt is not valid base64: %v", kerrors.ErrInvalidKeyMaterial, err)
	}
	if len(raw) < MinSaltSize {
		return nil, fmt.Errorf("%w: salt must be at least %d bytes, got %d", kerrors.ErrInvalidKeyMaterial, MinSaltSize, len(raw))
	}
	return raw, nil
}

// ValidateWorkFactor checks the scrypt cost is within bounds.
func ValidateWorkFactor(workFactor uint) error {
	if workFactor < MinWorkFactor || workFactor > MaxWorkFactor {
		return fmt.Errorf("%w: work factor must be between %d and %d, got %d",
			kerrors.ErrInvalidKeyMaterial, MinWorkFactor, MaxWorkFactor, workFactor)
	}
	return nil
}

// DeriveKey derives the journal key from a passphrase with scrypt.
func DeriveKey(passphrase []byte, salt string, workFactor uint) (*Key, error) {
	if len(passphrase) == 0 {
		return nil, kerrors.ErrNoPassphrase
	}
	rawSalt, err := DecodeSalt(salt)
	if err != nil {
		return nil, err
	}
	if err := ValidateWorkFactor(workFactor); err != nil {
		return nil, err
	}

	raw, err := scrypt.Key(passphrase, rawSalt, 1<<workFactor, 8, 1, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return NewKey(raw)
}

// Check returns the key verifier stored in the configuration.
func (k *Key) Check() string {
	sum := sha256.Sum256(k.bytes[:])
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifyKey compares the key against a stored check. An empty check always passes.
func VerifyKey(k *Key, check string) error {
	if check == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(k.Check()), []byte(check)) != 1 {
		return kerrors.ErrWrongPassphrase
	}
	return nil
}
