// Package keyring implements KeyProtectedByPassword from spec.md §4.7:
// a randomly generated Key wrapped in a password-derived ciphertext,
// with support for rotating the wrapping password.
package keyring

import (
	"crypto/sha256"
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/encoding"
	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// header is the 4-byte tag for KeyProtectedByPassword's own
// checksummed ASCII-safe serialization (spec.md §6
// PASSWORD_KEY_CURRENT_VERSION).
var header = []byte{0xDE, 0xF1, 0x00, 0x00}

// KeyProtectedByPassword holds a Key encrypted under a password-derived
// secret. The inner Key is never retained beyond the smallest scope
// needed to produce or consume it.
type KeyProtectedByPassword struct {
	encryptedKey string
}

// Create generates a fresh random Key and wraps it under password. The
// password is pre-hashed with SHA-256 before being handed to the
// in-memory encrypt routine — a deliberate domain separator (spec.md
// §4.7, §9) against any other protocol the caller runs with the same
// password, not an incidental detail to drop in a rewrite.
func Create(password []byte) (KeyProtectedByPassword, error) {
	k, err := key.Random()
	if err != nil {
		return KeyProtectedByPassword{}, err
	}

	return wrap(k, password)
}

// Unlock decrypts the wrapped Key using password. A BadFormat error
// decoding the inner Key after a successful outer decryption is
// upgraded to WrongKeyOrModifiedCiphertext: spec.md §4.7 notes that
// should not happen unless an attacker crafted a valid outer
// ciphertext with the same password over unrelated bytes.
func (kp KeyProtectedByPassword) Unlock(password []byte) (key.Key, error) {
	s := passwordSecret(password)

	plaintext, err := cryptor.Decrypt([]byte(kp.encryptedKey), s, false)
	if err != nil {
		return key.Key{}, err
	}

	k, err := key.LoadFromASCIISafeString(string(plaintext))
	if err != nil {
		return key.Key{}, cryptoerr.Upgrade(err)
	}

	return k, nil
}

// ChangePassword unlocks kp with oldPassword and re-wraps the same
// inner Key under newPassword. The inner Key exists only for the
// duration of this call.
func (kp KeyProtectedByPassword) ChangePassword(oldPassword, newPassword []byte) (KeyProtectedByPassword, error) {
	k, err := kp.Unlock(oldPassword)
	if err != nil {
		return KeyProtectedByPassword{}, err
	}

	return wrap(k, newPassword)
}

// Save serializes kp as a checksummed ASCII-safe string tagged with
// the PASSWORD_KEY_CURRENT_VERSION header.
func (kp KeyProtectedByPassword) Save() (string, error) {
	return encoding.SaveChecksummed(header, []byte(kp.encryptedKey))
}

// Load is the inverse of Save.
func Load(s string) (KeyProtectedByPassword, error) {
	payload, err := encoding.LoadChecksummed(header, s, true)
	if err != nil {
		return KeyProtectedByPassword{}, err
	}
	return KeyProtectedByPassword{encryptedKey: string(payload)}, nil
}

func wrap(k key.Key, password []byte) (KeyProtectedByPassword, error) {
	ascii, err := k.SaveToASCIISafeString()
	if err != nil {
		return KeyProtectedByPassword{}, err
	}

	s := passwordSecret(password)
	ciphertext, err := cryptor.Encrypt([]byte(ascii), s, false)
	if err != nil {
		return KeyProtectedByPassword{}, fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	return KeyProtectedByPassword{encryptedKey: string(ciphertext)}, nil
}

func passwordSecret(password []byte) secret.Secret {
	prehash := sha256.Sum256(password)
	return secret.FromPassword(prehash[:])
}
