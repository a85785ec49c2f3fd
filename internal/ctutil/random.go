package ctutil

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
)

// RandomBytes returns n cryptographically secure random bytes. A
// failure of the platform RNG is treated as an unrecoverable
// environment problem, not a retryable error.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("%w: secure random source unavailable: %v", cryptoerr.EnvironmentIsBroken, err)
	}
	return buf, nil
}
