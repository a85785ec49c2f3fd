// Package cryptkeeper is the thin public façade over the cryptographic
// core in internal/: it fans out the overloaded key/password entry
// points spec.md §6 lists as external interfaces. The façade itself
// carries no cryptographic logic — every operation here is a direct
// call into internal/cryptor, internal/fileop, internal/key,
// internal/secret, or internal/keyring.
package cryptkeeper

import (
	"io"

	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/fileop"
	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/keyring"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// Key is a 256-bit secret suitable for Encrypt/Decrypt.
type Key = key.Key

// KeyProtectedByPassword is a randomly generated Key wrapped under a
// password-derived ciphertext, with password rotation support.
type KeyProtectedByPassword = keyring.KeyProtectedByPassword

// GenerateKey creates a new random Key from the platform CSPRNG.
func GenerateKey() (Key, error) {
	return key.Random()
}

// LoadKeyFromASCIISafeString decodes a Key from its checksummed
// ASCII-safe hex serialization.
func LoadKeyFromASCIISafeString(s string) (Key, error) {
	return key.LoadFromASCIISafeString(s)
}

// Encrypt encrypts data under k. rawOutput=true returns the binary
// ciphertext; rawOutput=false returns it as lowercase hex.
func Encrypt(data []byte, k Key, rawOutput bool) ([]byte, error) {
	return cryptor.Encrypt(data, secret.FromKey(k), rawOutput)
}

// Decrypt decrypts ciphertext produced by Encrypt with the same k and
// rawInput setting.
func Decrypt(ciphertext []byte, k Key, rawInput bool) ([]byte, error) {
	return cryptor.Decrypt(ciphertext, secret.FromKey(k), rawInput)
}

// EncryptWithPassword encrypts data under a password-derived secret.
func EncryptWithPassword(data, password []byte, rawOutput bool) ([]byte, error) {
	return cryptor.Encrypt(data, secret.FromPassword(password), rawOutput)
}

// DecryptWithPassword decrypts ciphertext produced by
// EncryptWithPassword with the same password and rawInput setting.
func DecryptWithPassword(ciphertext, password []byte, rawInput bool) ([]byte, error) {
	return cryptor.Decrypt(ciphertext, secret.FromPassword(password), rawInput)
}

// EncryptFile streams inPath to outPath, encrypted under k. inPath and
// outPath must name distinct files.
func EncryptFile(inPath, outPath string, k Key) error {
	return fileop.EncryptFile(inPath, outPath, secret.FromKey(k))
}

// DecryptFile streams inPath to outPath, decrypted under k.
func DecryptFile(inPath, outPath string, k Key) error {
	return fileop.DecryptFile(inPath, outPath, secret.FromKey(k))
}

// EncryptFileWithPassword streams inPath to outPath, encrypted under a
// password-derived secret.
func EncryptFileWithPassword(inPath, outPath string, password []byte) error {
	return fileop.EncryptFile(inPath, outPath, secret.FromPassword(password))
}

// DecryptFileWithPassword streams inPath to outPath, decrypted under a
// password-derived secret.
func DecryptFileWithPassword(inPath, outPath string, password []byte) error {
	return fileop.DecryptFile(inPath, outPath, secret.FromPassword(password))
}

// EncryptResource streams in to out, encrypted under k. Encryption is a
// single forward pass, so in is a plain io.Reader and is never seeked.
func EncryptResource(in io.Reader, out io.Writer, k Key) error {
	return fileop.EncryptStream(in, out, secret.FromKey(k))
}

// DecryptResource streams in to out, decrypted under k. in must
// support Seek (io.ReadSeeker) for the two-pass integrity-then-decrypt
// protocol; non-seekable sources are rejected at the type boundary.
func DecryptResource(in io.ReadSeeker, out io.Writer, k Key) error {
	return fileop.DecryptStream(in, out, secret.FromKey(k))
}

// EncryptResourceWithPassword is EncryptResource for a password secret.
func EncryptResourceWithPassword(in io.Reader, out io.Writer, password []byte) error {
	return fileop.EncryptStream(in, out, secret.FromPassword(password))
}

// DecryptResourceWithPassword is DecryptResource for a password secret.
func DecryptResourceWithPassword(in io.ReadSeeker, out io.Writer, password []byte) error {
	return fileop.DecryptStream(in, out, secret.FromPassword(password))
}

// CreateKeyProtectedByPassword generates a new random Key and wraps it
// under password.
func CreateKeyProtectedByPassword(password []byte) (KeyProtectedByPassword, error) {
	return keyring.Create(password)
}

// LoadKeyProtectedByPassword decodes a KeyProtectedByPassword from its
// checksummed ASCII-safe serialization.
func LoadKeyProtectedByPassword(s string) (KeyProtectedByPassword, error) {
	return keyring.Load(s)
}
