package ctutil

import (
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
)

// IVSize is the width, in bytes, of the CTR-mode counter/IV.
const IVSize = 16

// IncrementIV adds inc to iv, treating iv as a 16-byte big-endian
// unsigned integer (the CTR-mode block counter), and returns the
// result as a new 16-byte slice. The carry propagates from the
// least-significant byte (index 15) toward the most-significant byte
// (index 0), one byte at a time, with no data-dependent branch other
// than the carry-stop check every constant-time adder needs.
//
// If the addition would carry out of the most-significant byte, the
// counter has exhausted its representable range: the caller must not
// encrypt more data than a single IV can address, so this returns
// EnvironmentIsBroken rather than wrapping silently.
//
// The final call of a streaming loop may leave the returned IV one
// increment past what any further block will use; this is harmless
// because no further block is ever encrypted under it.
func IncrementIV(iv []byte, inc uint64) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", cryptoerr.EnvironmentIsBroken, IVSize, len(iv))
	}

	out := make([]byte, IVSize)
	copy(out, iv)

	carry := inc
	for i := IVSize - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(out[i]) + (carry & 0xff)
		out[i] = byte(sum)
		carry = (carry >> 8) + (sum >> 8)
	}

	if carry > 0 {
		return nil, fmt.Errorf("%w: IV counter overflow", cryptoerr.EnvironmentIsBroken)
	}

	return out, nil
}
