// Package cryptor implements the single-shot, in-memory encrypt/decrypt
// pair from spec.md §4.4: encrypt-then-MAC over AES-128-CTR, with
// subkeys from internal/kdf via internal/secret.
package cryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/ctutil"
	"github.com/hambosto/cryptkeeper/internal/encoding"
	"github.com/hambosto/cryptkeeper/internal/kdf"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// Version is the current ciphertext format tag (spec.md §3, §6).
var Version = [4]byte{0xDE, 0xF5, 0x02, 0x00}

const (
	saltSize = kdf.SaltSize
	ivSize   = ctutil.IVSize
	macSize  = sha256.Size
	aesKeyLen = 16 // AES-128: only the first 16 bytes of encKey are used.

	// MinCiphertextSize is 4 (version) + 32 (salt) + 16 (iv) + 32 (mac).
	MinCiphertextSize = 4 + saltSize + ivSize + macSize
)

// Encrypt implements spec.md §4.4 encrypt(plaintext, secret, rawOutput).
// A fresh salt and IV are generated per call, so two encryptions of the
// same plaintext under the same secret always differ.
func Encrypt(plaintext []byte, s secret.Secret, rawOutput bool) ([]byte, error) {
	salt, err := ctutil.RandomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	iv, err := ctutil.RandomBytes(ivSize)
	if err != nil {
		return nil, err
	}

	keys, err := s.DeriveKeys(salt)
	if err != nil {
		return nil, err
	}

	ct, err := ctrCrypt(keys.Enc[:aesKeyLen], iv, plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	body := make([]byte, 0, 4+saltSize+ivSize+len(ct))
	body = append(body, Version[:]...)
	body = append(body, salt...)
	body = append(body, iv...)
	body = append(body, ct...)

	mac := hmac.New(sha256.New, keys.Auth)
	mac.Write(body)
	tag := mac.Sum(nil)

	out := append(body, tag...)

	if rawOutput {
		return out, nil
	}
	return []byte(encoding.ToHex(out)), nil
}

// Decrypt implements spec.md §4.4 decrypt(ciphertext, secret, rawInput).
// MAC verification happens before any cipher call, and every format or
// integrity failure (bad hex, short input, wrong version, MAC mismatch)
// collapses to WrongKeyOrModifiedCiphertext so callers need only one
// branch for "did not decrypt." Key-derivation and cipher failures are
// returned as EnvironmentIsBroken.
func Decrypt(ciphertext []byte, s secret.Secret, rawInput bool) ([]byte, error) {
	raw := ciphertext
	if !rawInput {
		decoded, err := encoding.FromHex(string(ciphertext))
		if err != nil {
			return nil, cryptoerr.Upgrade(err)
		}
		raw = decoded
	}

	if len(raw) < MinCiphertextSize {
		return nil, cryptoerr.WrongKeyOrModifiedCiphertext
	}

	version := raw[0:4]
	salt := raw[4 : 4+saltSize]
	iv := raw[4+saltSize : 4+saltSize+ivSize]
	ct := raw[4+saltSize+ivSize : len(raw)-macSize]
	storedMAC := raw[len(raw)-macSize:]

	if !ctutil.Equal(version, Version[:]) {
		return nil, cryptoerr.WrongKeyOrModifiedCiphertext
	}

	keys, err := s.DeriveKeys(salt)
	if err != nil {
		return nil, err
	}

	body := raw[:len(raw)-macSize]
	mac := hmac.New(sha256.New, keys.Auth)
	mac.Write(body)
	computedMAC := mac.Sum(nil)

	if !ctutil.Equal(computedMAC, storedMAC) {
		return nil, cryptoerr.WrongKeyOrModifiedCiphertext
	}

	plaintext, err := ctrCrypt(keys.Enc[:aesKeyLen], iv, ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	return plaintext, nil
}

// ctrCrypt runs AES-CTR over data; CTR is its own inverse, so this
// single helper serves both Encrypt and Decrypt.
func ctrCrypt(key16, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key16)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, iv)

	out := make([]byte, len(data))
	stream.XORKeyStream(out, data)
	return out, nil
}
