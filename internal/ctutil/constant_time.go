// Package ctutil holds the side-channel-sensitive primitives the rest
// of the core is built on: constant-time comparison, a CSPRNG wrapper,
// and big-endian counter arithmetic on a 16-byte IV.
package ctutil

import "crypto/subtle"

// Equal reports whether a and b hold the same bytes, comparing in
// constant time relative to their contents. Unlike bytes.Equal it does
// not return instantly on a length mismatch: it first runs a full
// comparison over every byte of b. It is used for every MAC and
// checksum check in the core so that no branch timing leaks which byte
// first differed.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		// Still run a comparison of b against itself so callers that
		// race this against a true branch see a comparison of
		// comparable cost, not an instant return.
		subtle.ConstantTimeCompare(b, b)
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
