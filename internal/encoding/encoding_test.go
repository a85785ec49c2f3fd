package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/encoding"
)

func TestHexRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xff},
		{0xde, 0xad, 0xbe, 0xef},
		make([]byte, 256),
	}
	for i := range cases[4] {
		cases[4][i] = byte(i)
	}

	for _, c := range cases {
		encoded := encoding.ToHex(c)
		decoded, err := encoding.FromHex(encoded)
		require.NoError(t, err)
		require.Equal(t, c, decoded)
	}
}

func TestToHexIsLowercaseOnly(t *testing.T) {
	encoded := encoding.ToHex([]byte{0xAB, 0xCD, 0xEF})
	for _, r := range encoded {
		require.False(t, r >= 'A' && r <= 'F', "unexpected uppercase hex digit: %q", r)
	}
}

func TestFromHexAcceptsUpperAndLower(t *testing.T) {
	lower, err := encoding.FromHex("deadbeef")
	require.NoError(t, err)

	upper, err := encoding.FromHex("DEADBEEF")
	require.NoError(t, err)

	mixed, err := encoding.FromHex("DeAdBeEf")
	require.NoError(t, err)

	require.Equal(t, lower, upper)
	require.Equal(t, lower, mixed)
}

func TestFromHexRejectsOddLength(t *testing.T) {
	_, err := encoding.FromHex("abc")
	require.ErrorIs(t, err, cryptoerr.BadFormat)
}

func TestFromHexRejectsNonHexCharacters(t *testing.T) {
	_, err := encoding.FromHex("zzzz")
	require.ErrorIs(t, err, cryptoerr.BadFormat)

	_, err = encoding.FromHex("ab  cd")
	require.ErrorIs(t, err, cryptoerr.BadFormat)
}

func TestTrimTrailingWhitespaceTrimsOnlyEnd(t *testing.T) {
	in := []byte("\x00 \t\npayload\r\n\x00 ")
	got := encoding.TrimTrailingWhitespace(in)
	require.Equal(t, "\x00 \t\npayload", string(got))
}

func TestTrimTrailingWhitespaceTrimsExactSet(t *testing.T) {
	in := append([]byte("value"), 0x00, 0x09, 0x0A, 0x0D, 0x20)
	got := encoding.TrimTrailingWhitespace(in)
	require.Equal(t, "value", string(got))

	// A byte outside the trim set must stop trimming immediately.
	in2 := []byte("value\x01 ")
	got2 := encoding.TrimTrailingWhitespace(in2)
	require.Equal(t, "value\x01", string(got2))
}

func TestSaveLoadChecksummedRoundTrip(t *testing.T) {
	header := []byte{0xDE, 0xF0, 0x00, 0x00}
	payload := []byte("some payload bytes")

	saved, err := encoding.SaveChecksummed(header, payload)
	require.NoError(t, err)

	loaded, err := encoding.LoadChecksummed(header, saved, true)
	require.NoError(t, err)
	require.Equal(t, payload, loaded)
}

func TestLoadChecksummedRejectsWrongHeader(t *testing.T) {
	header := []byte{0xDE, 0xF0, 0x00, 0x00}
	other := []byte{0xDE, 0xF1, 0x00, 0x00}
	payload := []byte("payload")

	saved, err := encoding.SaveChecksummed(header, payload)
	require.NoError(t, err)

	_, err = encoding.LoadChecksummed(other, saved, true)
	require.ErrorIs(t, err, cryptoerr.BadFormat)
}

func TestLoadChecksummedRejectsTamperedChecksum(t *testing.T) {
	header := []byte{0xDE, 0xF0, 0x00, 0x00}
	payload := []byte("payload")

	saved, err := encoding.SaveChecksummed(header, payload)
	require.NoError(t, err)

	raw, err := encoding.FromHex(saved)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := encoding.ToHex(raw)

	_, err = encoding.LoadChecksummed(header, tampered, true)
	require.ErrorIs(t, err, cryptoerr.BadFormat)
}

func TestLoadChecksummedRejectsShortInput(t *testing.T) {
	header := []byte{0xDE, 0xF0, 0x00, 0x00}
	_, err := encoding.LoadChecksummed(header, encoding.ToHex([]byte{0x01, 0x02}), true)
	require.ErrorIs(t, err, cryptoerr.BadFormat)
}
