// Package kdf derives the per-operation (authKey, encKey) pair from
// either a raw key or a password, following the HKDF/PBKDF2 pipeline
// of spec.md §4.2: a 256-bit authentication key and a 256-bit
// encryption key, both domain-separated subkeys of a single secret by
// way of HKDF-Expand.
package kdf

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
)

// SaltSize is the required length of the per-operation salt fed into
// both PBKDF2 (for passwords) and HKDF (for every secret kind).
const SaltSize = 32

// SubkeySize is the length, in bytes, of each derived subkey.
const SubkeySize = 32

// PBKDF2Iterations is the fixed HMAC-SHA256 iteration count used to
// stretch a password-derived pre-hash into PBKDF2 output. 100,000
// matches spec.md §4.2.
const PBKDF2Iterations = 100_000

const (
	authInfo = "DefusePHP|V2|KeyForAuthentication"
	encInfo  = "DefusePHP|V2|KeyForEncryption"
)

// Keys is the (authKey, encKey) pair produced by DeriveFromRaw and
// DeriveFromPassword. Both fields are SubkeySize bytes.
type Keys struct {
	Auth []byte
	Enc  []byte
}

// DeriveFromRaw runs the HKDF-only branch of deriveKeys: prekey is the
// raw 32-byte key material itself, with no password stretch. salt must
// be SaltSize bytes; anything else is a programmer error (spec.md §4.2
// invariant), not a recoverable one.
func DeriveFromRaw(rawKey, salt []byte) (Keys, error) {
	if len(salt) != SaltSize {
		return Keys{}, fmt.Errorf("%w: salt must be %d bytes, got %d", cryptoerr.EnvironmentIsBroken, SaltSize, len(salt))
	}
	return expandBoth(rawKey, salt)
}

// DeriveFromPassword runs the full deriveKeys pipeline for a password
// secret: SHA-256 pre-hash, then PBKDF2-HMAC-SHA256 stretch, then the
// same HKDF-Expand step as the raw-key branch. The pre-hash both
// normalizes variable-length passwords ahead of PBKDF2 and
// domain-separates this use of the password from any other protocol
// the caller might run with the same password.
func DeriveFromPassword(password, salt []byte) (Keys, error) {
	if len(salt) != SaltSize {
		return Keys{}, fmt.Errorf("%w: salt must be %d bytes, got %d", cryptoerr.EnvironmentIsBroken, SaltSize, len(salt))
	}

	prehash := sha256.Sum256(password)
	prekey := pbkdf2.Key(prehash[:], salt, PBKDF2Iterations, SubkeySize, sha256.New)

	return expandBoth(prekey, salt)
}

func expandBoth(prekey, salt []byte) (Keys, error) {
	authKey, err := expand(prekey, salt, authInfo)
	if err != nil {
		return Keys{}, err
	}
	encKey, err := expand(prekey, salt, encInfo)
	if err != nil {
		return Keys{}, err
	}
	return Keys{Auth: authKey, Enc: encKey}, nil
}

func expand(prekey, salt []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, prekey, salt, []byte(info))
	out := make([]byte, SubkeySize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("%w: HKDF expand failed: %v", cryptoerr.EnvironmentIsBroken, err)
	}
	return out, nil
}
