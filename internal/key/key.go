// Package key implements the opaque 32-byte Key value from spec.md §3:
// random generation, and checksummed ASCII-safe save/load.
package key

import (
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/ctutil"
	"github.com/hambosto/cryptkeeper/internal/encoding"
)

// Size is the fixed raw length of a Key, in bytes.
const Size = 32

// header is the 4-byte tag prepended to a Key's checksummed ASCII-safe
// serialization (spec.md §6).
var header = []byte{0xDE, 0xF0, 0x00, 0x00}

// Key is an opaque 256-bit secret. Its lifetime is owned by the
// caller; it carries no behavior beyond raw-byte access, random
// generation, and checksummed serialization.
type Key struct {
	raw []byte
}

// Random generates a new Key from the platform CSPRNG.
func Random() (Key, error) {
	raw, err := ctutil.RandomBytes(Size)
	if err != nil {
		return Key{}, err
	}
	return Key{raw: raw}, nil
}

// FromRawBytes wraps an existing 32-byte slice as a Key, copying it so
// the caller's buffer and the Key's internal storage never alias.
func FromRawBytes(raw []byte) (Key, error) {
	if len(raw) != Size {
		return Key{}, fmt.Errorf("%w: key must be %d bytes, got %d", cryptoerr.EnvironmentIsBroken, Size, len(raw))
	}
	cp := make([]byte, Size)
	copy(cp, raw)
	return Key{raw: cp}, nil
}

// RawBytes returns a copy of the key's 32 raw bytes.
func (k Key) RawBytes() []byte {
	out := make([]byte, Size)
	copy(out, k.raw)
	return out
}

// SaveToASCIISafeString serializes the key as
// hex(header‖raw‖SHA256(header‖raw)).
func (k Key) SaveToASCIISafeString() (string, error) {
	return encoding.SaveChecksummed(header, k.raw)
}

// LoadFromASCIISafeString is the inverse of SaveToASCIISafeString. Any
// structural problem (bad hex, wrong header, checksum mismatch, wrong
// decoded length) is reported as BadFormat.
func LoadFromASCIISafeString(s string) (Key, error) {
	payload, err := encoding.LoadChecksummed(header, s, true)
	if err != nil {
		return Key{}, err
	}
	if len(payload) != Size {
		return Key{}, fmt.Errorf("%w: decoded key payload must be %d bytes, got %d", cryptoerr.BadFormat, Size, len(payload))
	}
	return FromRawBytes(payload)
}
