package fileop_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/fileop"
	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

func randomKeySecret(t *testing.T) secret.Secret {
	t.Helper()
	k, err := key.Random()
	require.NoError(t, err)
	return secret.FromKey(k)
}

// E6: a multi-megabyte file spanning several buffer sizes round-trips.
func TestStreamRoundtripAcrossMultipleBuffers(t *testing.T) {
	s := randomKeySecret(t)

	plaintext := make([]byte, 5*fileop.BufferByteSize)
	for i := range plaintext {
		plaintext[i] = byte(i % 256)
	}

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader(plaintext), &ciphertext, s))

	var decrypted bytes.Buffer
	require.NoError(t, fileop.DecryptStream(bytes.NewReader(ciphertext.Bytes()), &decrypted, s))

	require.Equal(t, plaintext, decrypted.Bytes())
}

func TestStreamRoundtripEmptyInput(t *testing.T) {
	s := randomKeySecret(t)

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader(nil), &ciphertext, s))

	var decrypted bytes.Buffer
	require.NoError(t, fileop.DecryptStream(bytes.NewReader(ciphertext.Bytes()), &decrypted, s))

	require.Empty(t, decrypted.Bytes())
}

func TestStreamRoundtripSmallerThanOneBuffer(t *testing.T) {
	s := randomKeySecret(t)
	plaintext := []byte("a small file, much smaller than one chunk")

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader(plaintext), &ciphertext, s))

	var decrypted bytes.Buffer
	require.NoError(t, fileop.DecryptStream(bytes.NewReader(ciphertext.Bytes()), &decrypted, s))

	require.Equal(t, plaintext, decrypted.Bytes())
}

func TestStreamLengthFloor(t *testing.T) {
	s := randomKeySecret(t)
	var decrypted bytes.Buffer
	err := fileop.DecryptStream(bytes.NewReader(make([]byte, 10)), &decrypted, s)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
	require.Empty(t, decrypted.Bytes())
}

// E6 continuation: flipping a byte in the middle of the ciphertext
// must be detected and must not emit plaintext.
func TestStreamTamperedMiddleByteFailsAndEmitsNothing(t *testing.T) {
	s := randomKeySecret(t)
	plaintext := make([]byte, 3*fileop.BufferByteSize+17)

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader(plaintext), &ciphertext, s))

	tampered := append([]byte(nil), ciphertext.Bytes()...)
	mid := len(tampered) / 2
	tampered[mid] ^= 0xff

	var decrypted bytes.Buffer
	err := fileop.DecryptStream(bytes.NewReader(tampered), &decrypted, s)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
	require.Empty(t, decrypted.Bytes())
}

// toctouReader simulates an attacker mutating the backing file between
// pass 1 and pass 2 of the streaming decrypt protocol: it flips a
// ciphertext byte the second time the reader is seeked back to the
// start of the ciphertext region.
type toctouReader struct {
	data        []byte
	pos         int64
	cipherStart int64
	seeksToZero int
	mutateAt    int
}

func (r *toctouReader) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = r.pos + offset
	case io.SeekEnd:
		newPos = int64(len(r.data)) + offset
	}
	r.pos = newPos

	if newPos == r.cipherStart {
		r.seeksToZero++
		if r.seeksToZero == 2 {
			r.data[r.mutateAt] ^= 0xff
		}
	}
	return newPos, nil
}

func (r *toctouReader) Read(p []byte) (int, error) {
	if r.pos >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += int64(n)
	return n, nil
}

// property 12: a file mutated between pass 1 and pass 2 must be
// detected, and must not emit any plaintext byte.
func TestTwoPassProtocolDetectsMutationBetweenPasses(t *testing.T) {
	s := randomKeySecret(t)
	plaintext := make([]byte, 2*fileop.BufferByteSize+123)

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader(plaintext), &ciphertext, s))

	const cipherStart = 4 + 32 + 16
	src := &toctouReader{
		data:        append([]byte(nil), ciphertext.Bytes()...),
		cipherStart: cipherStart,
		mutateAt:    cipherStart + 10,
	}

	var decrypted bytes.Buffer
	err := fileop.DecryptStream(src, &decrypted, s)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
	require.Empty(t, decrypted.Bytes())
}

func TestStreamWrongSecretFails(t *testing.T) {
	s := randomKeySecret(t)
	wrong := randomKeySecret(t)

	var ciphertext bytes.Buffer
	require.NoError(t, fileop.EncryptStream(bytes.NewReader([]byte("some plaintext")), &ciphertext, s))

	var decrypted bytes.Buffer
	err := fileop.DecryptStream(bytes.NewReader(ciphertext.Bytes()), &decrypted, wrong)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}
