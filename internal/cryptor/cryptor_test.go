package cryptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

func randomKeySecret(t *testing.T) secret.Secret {
	t.Helper()
	k, err := key.Random()
	require.NoError(t, err)
	return secret.FromKey(k)
}

func TestRoundtripWithKey(t *testing.T) {
	s := randomKeySecret(t)

	plaintexts := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("EnCrYpT EvErYThInG\x00\x00"),
		make([]byte, 5*1024*1024), // spans multiple buffer sizes worth of data
	}

	for _, pt := range plaintexts {
		ct, err := cryptor.Encrypt(pt, s, true)
		require.NoError(t, err)

		got, err := cryptor.Decrypt(ct, s, true)
		require.NoError(t, err)
		require.Equal(t, pt, got)
	}
}

func TestRoundtripWithPassword(t *testing.T) {
	s := secret.FromPassword([]byte("password"))
	pt := []byte("EnCrYpT EvErYThInG\x00\x00")

	ct, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)

	got, err := cryptor.Decrypt(ct, s, true)
	require.NoError(t, err)
	require.Equal(t, pt, got)
}

// E1
func TestEmptyPlaintextProducesMinimumSizeCiphertext(t *testing.T) {
	s := randomKeySecret(t)

	ct, err := cryptor.Encrypt(nil, s, true)
	require.NoError(t, err)
	require.Len(t, ct, cryptor.MinCiphertextSize)

	pt, err := cryptor.Decrypt(ct, s, true)
	require.NoError(t, err)
	require.Empty(t, pt)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	s := randomKeySecret(t)
	pt := []byte("same plaintext, different ciphertexts")

	a, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)
	b, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

// E3: appending a byte must break decryption.
func TestAppendedByteBreaksAuthentication(t *testing.T) {
	s := secret.FromPassword([]byte("password"))
	ct, err := cryptor.Encrypt([]byte("abcdef"), s, true)
	require.NoError(t, err)

	tampered := append(ct, 0x00)
	_, err = cryptor.Decrypt(tampered, s, true)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}

// E4 / property 4: flipping any single byte must be detected. Check
// the header, salt, iv, and ciphertext regions specifically.
func TestBitFlipInEveryRegionBreaksAuthentication(t *testing.T) {
	s := secret.FromPassword([]byte("password"))
	pt := []byte("EnCrYpT EvErYThInG\x00\x00")
	ct, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)

	indices := []int{0, 4 + 1, 4 + 32 + 1, 4 + 32 + 16 + 1}
	for _, idx := range indices {
		tampered := append([]byte(nil), ct...)
		tampered[idx] ^= 0xff

		_, err := cryptor.Decrypt(tampered, s, true)
		require.ErrorIsf(t, err, cryptoerr.WrongKeyOrModifiedCiphertext, "flipping byte %d did not fail", idx)
	}
}

// E5 / property 5: wrong secret must fail.
func TestWrongSecretFailsDecryption(t *testing.T) {
	s := secret.FromPassword([]byte("password"))
	pt := []byte("abcdef")
	ct, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)

	wrong := secret.FromPassword([]byte("wrong_password"))
	_, err = cryptor.Decrypt(ct, wrong, true)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}

// property 6: raw/hex format-variant mismatch must fail.
func TestFormatVariantMismatchFails(t *testing.T) {
	s := secret.FromPassword([]byte("password"))
	pt := []byte("abcdef")

	rawCT, err := cryptor.Encrypt(pt, s, true)
	require.NoError(t, err)
	_, err = cryptor.Decrypt(rawCT, s, false)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)

	hexCT, err := cryptor.Encrypt(pt, s, false)
	require.NoError(t, err)
	_, err = cryptor.Decrypt(hexCT, s, true)
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}

// property 7: anything shorter than the minimum must fail.
func TestLengthFloor(t *testing.T) {
	s := randomKeySecret(t)
	for _, n := range []int{0, 1, 50, cryptor.MinCiphertextSize - 1} {
		_, err := cryptor.Decrypt(make([]byte, n), s, true)
		require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
	}
}
