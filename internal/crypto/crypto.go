// Package crypto derives per-user message keys and seals plaintext into
// fernet tokens. Each stored message carries two tokens of the same
// plaintext, one per party's key, so neither secret unlocks the other copy.
package crypto

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// KeyLen is the raw fernet key length: 16 signing bytes + 16 encryption bytes.
const KeyLen = 32

// ErrInvalidToken is returned when a token fails authentication, was
// encrypted under a different key, or is not a fernet token at all.
var ErrInvalidToken = errors.New("crypto: invalid or tampered token")

// DeriveKey stretches a short user secret into a fernet key by right-padding
// it with ASCII '0' to KeyLen bytes. Deterministic and unsalted on purpose:
// the same secret must always produce the same key so either party can
// re-derive it later. Swapping this for a real password KDF only touches
// this function.
func DeriveKey(secret string) (*fernet.Key, error) {
	if secret == "" {
		return nil, errors.New("crypto: empty secret")
	}
	if len(secret) > KeyLen {
		return nil, fmt.Errorf("crypto: secret exceeds %d bytes", KeyLen)
	}

	var key fernet.Key
	copy(key[:], secret)
	for i := len(secret); i < KeyLen; i++ {
		key[i] = '0'
	}
	return &key, nil
}

// Encrypt seals plaintext into a fernet token under key.
func Encrypt(key *fernet.Key, plaintext string) (string, error) {
	tok, err := fernet.EncryptAndSign([]byte(plaintext), key)
	if err != nil {
		return "", err
	}
	return string(tok), nil
}

// Decrypt opens a fernet token. Tokens never expire here; the TTL check is
// disabled because stored messages must stay readable indefinitely. Any
// integrity failure yields ErrInvalidToken, never partial plaintext.
func Decrypt(key *fernet.Key, token string) (string, error) {
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{key})
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}
