// Package secret implements KeyOrPassword, the tagged union spec.md §3
// and §9 describe: either a Key or a password byte string, consumed
// only to derive a (authKey, encKey) pair for a given salt. It is
// modeled as a closed sum type rather than an interface with virtual
// dispatch, per spec.md §9's re-architecture guidance.
package secret

import (
	"github.com/hambosto/cryptkeeper/internal/kdf"
	"github.com/hambosto/cryptkeeper/internal/key"
)

// kind tags which branch of the union a Secret holds.
type kind int

const (
	kindKey kind = iota + 1
	kindPassword
)

// Secret is a tagged union of a Key (secret type 1) or a password byte
// string (secret type 2). Zero value is invalid; construct with
// FromKey or FromPassword.
type Secret struct {
	kind     kind
	key      key.Key
	password []byte
}

// FromKey wraps a Key as a Secret.
func FromKey(k key.Key) Secret {
	return Secret{kind: kindKey, key: k}
}

// FromPassword wraps a password byte string as a Secret. The password
// bytes are copied so the caller's buffer and the Secret's internal
// storage never alias.
func FromPassword(password []byte) Secret {
	cp := make([]byte, len(password))
	copy(cp, password)
	return Secret{kind: kindPassword, password: cp}
}

// DeriveKeys runs spec.md §4.2's deriveKeys algorithm: for a Key
// secret, the raw 32 bytes are the HKDF prekey directly; for a
// Password secret, the password is SHA-256 pre-hashed and stretched
// through PBKDF2-HMAC-SHA256 before the same HKDF-Expand step. salt
// must be kdf.SaltSize bytes.
func (s Secret) DeriveKeys(salt []byte) (kdf.Keys, error) {
	switch s.kind {
	case kindKey:
		return kdf.DeriveFromRaw(s.key.RawBytes(), salt)
	case kindPassword:
		return kdf.DeriveFromPassword(s.password, salt)
	default:
		panic("secret: zero-value Secret used — construct with FromKey or FromPassword")
	}
}
