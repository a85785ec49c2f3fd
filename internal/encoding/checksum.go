package encoding

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/ctutil"
)

// HeaderSize is the fixed width of every checksummed ASCII-safe
// string's header tag. It is fixed at 4 bytes so that one key kind's
// header can never be mistaken for a prefix of another's.
const HeaderSize = 4

// ChecksumSize is the width of the trailing SHA-256 checksum. The full
// hash is always used, never truncated (spec.md §3, §9): truncating it
// would equalize less of the byte-at-a-time oracle difficulty the
// design note calls out.
const ChecksumSize = sha256.Size

// whitespaceBytes are the only bytes TrimTrailingWhitespace removes,
// and only from the end of the input.
var whitespaceBytes = map[byte]struct{}{
	0x00: {}, 0x09: {}, 0x0A: {}, 0x0D: {}, 0x20: {},
}

// TrimTrailingWhitespace trims trailing bytes in
// {0x00, 0x09, 0x0A, 0x0D, 0x20} only — never from the front or
// middle — so that a key loaded from a file tolerates an editor's
// appended trailing newline.
func TrimTrailingWhitespace(b []byte) []byte {
	end := len(b)
	for end > 0 {
		if _, ok := whitespaceBytes[b[end-1]]; !ok {
			break
		}
		end--
	}
	return b[:end]
}

// SaveChecksummed assembles header‖payload‖SHA256(header‖payload) and
// hex-encodes the result. header must be exactly HeaderSize bytes.
func SaveChecksummed(header, payload []byte) (string, error) {
	if len(header) != HeaderSize {
		return "", fmt.Errorf("%w: header must be %d bytes, got %d", cryptoerr.EnvironmentIsBroken, HeaderSize, len(header))
	}

	prefix := make([]byte, 0, len(header)+len(payload))
	prefix = append(prefix, header...)
	prefix = append(prefix, payload...)

	sum := sha256.Sum256(prefix)

	full := append(prefix, sum[:]...)
	return ToHex(full), nil
}

// LoadChecksummed reverses SaveChecksummed: it trims trailing
// whitespace (unless disabled), hex-decodes, verifies the decoded
// length, verifies the checksum in constant time, checks the expected
// header byte-for-byte, and returns the payload. Any failure is
// BadFormat.
func LoadChecksummed(expectedHeader []byte, s string, trimWhitespace bool) ([]byte, error) {
	if trimWhitespace {
		s = string(TrimTrailingWhitespace([]byte(s)))
	}

	decoded, err := FromHex(s)
	if err != nil {
		return nil, err
	}

	if len(decoded) < HeaderSize+ChecksumSize {
		return nil, fmt.Errorf("%w: decoded length %d below minimum %d", cryptoerr.BadFormat, len(decoded), HeaderSize+ChecksumSize)
	}

	prefix := decoded[:len(decoded)-ChecksumSize]
	storedChecksum := decoded[len(decoded)-ChecksumSize:]

	computed := sha256.Sum256(prefix)
	if !ctutil.Equal(storedChecksum, computed[:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", cryptoerr.BadFormat)
	}

	gotHeader := prefix[:HeaderSize]
	if !bytes.Equal(gotHeader, expectedHeader) {
		return nil, fmt.Errorf("%w: header mismatch", cryptoerr.BadFormat)
	}

	payload := make([]byte, len(prefix)-HeaderSize)
	copy(payload, prefix[HeaderSize:])
	return payload, nil
}
