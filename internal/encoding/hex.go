// Package encoding implements the side-channel-resistant binary/hex
// codec and the checksummed, header-tagged ASCII-safe serialization
// format described in spec.md §4.3. Both ToHex and FromHex avoid
// table lookups and data-dependent branches on secret bytes: every
// nibble is converted by pure arithmetic instead.
package encoding

import (
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
)

// ToHex encodes data as lowercase hex, one nibble at a time, using only
// branch-free arithmetic so the encoding of a secret byte never takes a
// data-dependent code path.
func ToHex(data []byte) string {
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = nibbleToHex(b >> 4)
		out[i*2+1] = nibbleToHex(b & 0x0f)
	}
	return string(out)
}

// nibbleToHex maps a 4-bit value (0-15) to its lowercase ASCII hex
// digit without a lookup table: '0'-'9' for 0-9, 'a'-'f' for 10-15.
func nibbleToHex(n byte) byte {
	// isDigit is 1 when n < 10, 0 otherwise — computed arithmetically,
	// not via a branch on n, so the instruction stream is identical for
	// every nibble value.
	isDigit := byte((int32(n) - 10) >> 31 & 1)
	return n + '0' + (1-isDigit)*('a'-'0'-10)
}

// FromHex decodes a hex string (accepting both uppercase and lowercase
// digits) back into bytes. An odd-length input or any byte outside
// [0-9A-Fa-f] is rejected as BadFormat; spec.md §9 flags the silent
// drop-the-final-nibble behavior of the original as the wrong default,
// so this rewrite rejects rather than truncates.
func FromHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length hex input", cryptoerr.BadFormat)
	}

	out := make([]byte, len(s)/2)
	bad := byte(0)
	for i := 0; i < len(s); i += 2 {
		hi, okHi := hexToNibble(s[i])
		lo, okLo := hexToNibble(s[i+1])
		bad |= (okHi ^ 1) | (okLo ^ 1)
		out[i/2] = hi<<4 | lo
	}

	if bad != 0 {
		return nil, fmt.Errorf("%w: non-hex character in input", cryptoerr.BadFormat)
	}

	return out, nil
}

// hexToNibble converts a single ASCII hex digit to its 4-bit value
// without a lookup table, returning ok=0 (not 1) for any byte outside
// [0-9A-Fa-f] instead of branching on validity.
func hexToNibble(c byte) (value byte, ok byte) {
	isDigit := inRange(c, '0', '9')
	isUpper := inRange(c, 'A', 'F')
	isLower := inRange(c, 'a', 'f')

	value = isDigit*(c-'0') + isUpper*(c-'A'+10) + isLower*(c-'a'+10)
	ok = isDigit | isUpper | isLower

	return value, ok
}

// inRange returns 1 if lo <= c <= hi, else 0, computed without a
// branch on c: each comparison is the sign bit of a 32-bit subtraction,
// arithmetic-shifted into bit 0.
func inRange(c, lo, hi byte) byte {
	ltLo := byte((int32(c) - int32(lo)) >> 31 & 1)      // 1 if c < lo
	gtHi := byte((int32(hi) - int32(c)) >> 31 & 1)       // 1 if c > hi
	return 1 - (ltLo | gtHi)
}
