package fileop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding"
	"fmt"
	"hash"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
)

// snapshotMAC returns the MAC of everything written to h so far,
// leaving h itself untouched so the running computation can keep
// accumulating bytes. This is the "clone the HMAC state" step
// spec.md §4.6 requires for the two-pass streaming protocol.
//
// crypto/hmac's concrete type does not implement
// encoding.BinaryMarshaler, so for it the snapshot is h.Sum(nil): the
// hash.Hash contract guarantees Sum appends the current MAC without
// changing the underlying state. A hash that does implement
// encoding.BinaryMarshaler has its state restored into a fresh HMAC
// constructed with the same key, and that copy is finalized instead.
func snapshotMAC(h hash.Hash, authKey []byte) ([]byte, error) {
	marshaler, ok := h.(encoding.BinaryMarshaler)
	if !ok {
		return h.Sum(nil), nil
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	clone := hmac.New(sha256.New, authKey)
	unmarshaler, ok := clone.(encoding.BinaryUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: HMAC implementation does not support cloning", cryptoerr.EnvironmentIsBroken)
	}
	if err := unmarshaler.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	return clone.Sum(nil), nil
}
