// Package cryptoerr defines the error taxonomy shared by every layer of
// cryptkeeper's cryptographic core.
//
// Callers are only ever meant to branch on these four sentinels (see
// errors.Is). No wrapped message produced anywhere in the core embeds
// key, password, or plaintext material.
package cryptoerr

import "errors"

// BadFormat signals that an encoded input (hex string, checksummed
// ASCII-safe blob) is structurally invalid: odd-length hex, wrong
// header, too-short payload, checksum mismatch, wrong decoded key
// length. Raised by the encoding layer and by Key/KeyProtectedByPassword
// loading, which return it to their callers; the in-memory decrypt
// path and KeyProtectedByPassword.Unlock upgrade it to
// WrongKeyOrModifiedCiphertext.
var BadFormat = errors.New("cryptkeeper: bad format")

// WrongKeyOrModifiedCiphertext signals integrity failure: wrong secret,
// tampered ciphertext, wrong raw/hex variant, or a ciphertext shorter
// than the format minimum. It is the single predicate callers need for
// "this did not decrypt."
var WrongKeyOrModifiedCiphertext = errors.New("cryptkeeper: wrong key or modified ciphertext")

// IOException signals that an underlying read/write/seek failed, that
// the input and output handles alias the same resource, or that EOF
// arrived before the expected amount of data.
var IOException = errors.New("cryptkeeper: io error")

// EnvironmentIsBroken signals an unrecoverable platform problem: RNG
// failure, a primitive returning an unexpected result, an internal
// length invariant violated, or IV-counter overflow. Callers should not
// retry.
var EnvironmentIsBroken = errors.New("cryptkeeper: environment is broken")

// TypeError marks a programmer error at the public boundary (e.g. a
// non-string value where the API requires a string).
var TypeError = errors.New("cryptkeeper: type error")

// Upgrade rewrites a BadFormat error into WrongKeyOrModifiedCiphertext,
// preserving every other error unchanged. This is the crypto layer's
// boundary: decoding errors below it stay precise, but nothing above it
// tells a caller which of "bad hex" vs "bad header" vs "bad checksum"
// occurred.
func Upgrade(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, BadFormat) {
		return WrongKeyOrModifiedCiphertext
	}
	return err
}
