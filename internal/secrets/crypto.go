package secrets

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/giournal/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// SealedPrefix marks the start of every sealed entry.
var SealedPrefix = []byte("$giournal$v1$")

// IsSealed reports whether content is in sealed form: the prefix followed
// by base64 long enough to hold a nonce and an authenticator. Text that only
// starts with the prefix is plaintext.
func IsSealed(content []byte) bool {
	_, err := decodeBox(content)
	return err == nil
}

// decodeBox returns the nonce and ciphertext armored in content.
func decodeBox(content []byte) ([]byte, error) {
	if !bytes.HasPrefix(content, SealedPrefix) {
		return nil, fmt.Errorf("content is not sealed")
	}

	encoded := bytes.TrimSpace(content[len(SealedPrefix):])
	box := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(box, encoded)
	if err != nil {
		return nil, fmt.Errorf("corrupt encoding: %v", err)
	}
	if n < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("ciphertext too short")
	}
	return box[:n], nil
}

// Seal encrypts plaintext with the key and returns the armored sealed form.
func Seal(plaintext []byte, key *Key) ([]byte, error) {
	if key == nil {
		return nil, kerrors.ErrKeyRequired
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: failed to generate nonce: %v", kerrors.ErrEncryptFailed, err)
	}

	box := secretbox.Seal(nonce[:], plaintext, &nonce, &key.bytes)

	out := make([]byte, 0, len(SealedPrefix)+base64.StdEncoding.EncodedLen(len(box))+1)
	out = append(out, SealedPrefix...)
	out = base64.StdEncoding.AppendEncode(out, box)
	out = append(out, '\n')
	return out, nil
}

// Open decrypts a sealed entry.
func Open(sealed []byte, key *Key) ([]byte, error) {
	if key == nil {
		return nil, kerrors.ErrKeyRequired
	}
	box, err := decodeBox(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])

	plaintext, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &key.bytes)
	if !ok {
		return nil, fmt.Errorf("%w: authentication failed", kerrors.ErrDecryptFailed)
	}
	return plaintext, nil
}
