// Package fileop implements the streaming, two-pass file/resource
// encrypt and decrypt protocol from spec.md §4.5 and §4.6: encryption
// is a single forward pass; decryption runs two passes over the input
// with interleaved per-chunk MAC verification so that no plaintext
// byte is ever written before the whole ciphertext's integrity has
// been confirmed, and a concurrent mutation of the input between the
// two passes is detected rather than silently decrypted.
package fileop

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/ctutil"
	"github.com/hambosto/cryptkeeper/internal/kdf"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// BufferByteSize is the chunk size the streaming protocol reads,
// encrypts/verifies, and writes at a time. It is a multiple of 16 so
// every chunk but possibly the last aligns to the CTR block size, and
// large enough to amortize I/O and hash-update overhead while keeping
// memory use predictable.
const BufferByteSize = 1 << 20 // 1 MiB

const headerSize = 4 + kdf.SaltSize + ctutil.IVSize

// blocksPerBuffer is the fixed IV increment applied after every chunk,
// including a short final chunk — spec.md §4.1 and §4.5 call for
// incrementing by BUFFER_BYTE_SIZE/16 unconditionally; the last
// increment may leave the tracked IV one step past what was actually
// used, which is harmless because no further block is ever encrypted
// under it.
const blocksPerBuffer = uint64(BufferByteSize / ctutil.IVSize)

// EncryptStream implements spec.md §4.5: it writes VERSION‖salt‖iv,
// then streams ciphertext chunks followed by a trailing HMAC tag.
func EncryptStream(src io.Reader, dst io.Writer, s secret.Secret) error {
	salt, err := ctutil.RandomBytes(kdf.SaltSize)
	if err != nil {
		return err
	}
	iv, err := ctutil.RandomBytes(ctutil.IVSize)
	if err != nil {
		return err
	}

	keys, err := s.DeriveKeys(salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(keys.Enc[:16])
	if err != nil {
		return fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	header := make([]byte, 0, headerSize)
	header = append(header, cryptor.Version[:]...)
	header = append(header, salt...)
	header = append(header, iv...)

	if _, err := dst.Write(header); err != nil {
		return fmt.Errorf("%w: writing header: %v", cryptoerr.IOException, err)
	}

	mac := hmac.New(sha256.New, keys.Auth)
	mac.Write(header)

	currentIV := iv
	buf := make([]byte, BufferByteSize)

	for {
		n, readErr := io.ReadFull(src, buf)
		if n > 0 {
			stream := cipher.NewCTR(block, currentIV)
			ciphertext := make([]byte, n)
			stream.XORKeyStream(ciphertext, buf[:n])

			if _, err := dst.Write(ciphertext); err != nil {
				return fmt.Errorf("%w: writing ciphertext: %v", cryptoerr.IOException, err)
			}
			mac.Write(ciphertext)

			nextIV, err := ctutil.IncrementIV(currentIV, blocksPerBuffer)
			if err != nil {
				return err
			}
			currentIV = nextIV
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("%w: reading plaintext: %v", cryptoerr.IOException, readErr)
		}
	}

	if _, err := dst.Write(mac.Sum(nil)); err != nil {
		return fmt.Errorf("%w: writing MAC: %v", cryptoerr.IOException, err)
	}

	return nil
}

// DecryptStream implements spec.md §4.6's two-pass protocol. src must
// support Seek (io.SeekStart/io.SeekEnd); non-seekable input is
// rejected at the boundary by the io.ReadSeeker type itself, matching
// spec.md §9's streaming-seek requirement. No byte of dst is written
// until pass 1's final MAC has verified against the stored MAC, and
// pass 2 rechecks every chunk's incremental MAC against the value
// pass 1 observed before decrypting it, defeating a mutation of the
// underlying file between the two passes.
func DecryptStream(src io.ReadSeeker, dst io.Writer, s secret.Secret) error {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("%w: seeking to end: %v", cryptoerr.IOException, err)
	}
	if size < int64(headerSize+sha256.Size) {
		return cryptoerr.WrongKeyOrModifiedCiphertext
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to start: %v", cryptoerr.IOException, err)
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return fmt.Errorf("%w: reading header: %v", cryptoerr.IOException, err)
	}

	version := header[0:4]
	salt := header[4 : 4+kdf.SaltSize]
	iv := header[4+kdf.SaltSize : headerSize]

	if !ctutil.Equal(version, cryptor.Version[:]) {
		return cryptoerr.WrongKeyOrModifiedCiphertext
	}

	macOffset := size - int64(sha256.Size)
	if _, err := src.Seek(macOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to MAC: %v", cryptoerr.IOException, err)
	}
	storedMAC := make([]byte, sha256.Size)
	if _, err := io.ReadFull(src, storedMAC); err != nil {
		return fmt.Errorf("%w: reading MAC: %v", cryptoerr.IOException, err)
	}

	cipherStart := int64(headerSize)
	cipherLen := macOffset - cipherStart
	if cipherLen < 0 {
		return cryptoerr.WrongKeyOrModifiedCiphertext
	}

	keys, err := s.DeriveKeys(salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(keys.Enc[:16])
	if err != nil {
		return fmt.Errorf("%w: %v", cryptoerr.EnvironmentIsBroken, err)
	}

	if _, err := src.Seek(cipherStart, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to ciphertext start: %v", cryptoerr.IOException, err)
	}

	runningMAC1 := hmac.New(sha256.New, keys.Auth)
	runningMAC1.Write(header)

	var macs [][]byte
	remaining := cipherLen
	buf := make([]byte, BufferByteSize)

	for remaining > 0 {
		toRead := int64(BufferByteSize)
		if remaining < toRead {
			toRead = remaining
		}

		n, err := io.ReadFull(src, buf[:toRead])
		if err != nil {
			return fmt.Errorf("%w: reading ciphertext (pass 1): %v", cryptoerr.IOException, err)
		}

		runningMAC1.Write(buf[:n])
		chunkMAC, err := snapshotMAC(runningMAC1, keys.Auth)
		if err != nil {
			return err
		}
		macs = append(macs, chunkMAC)

		remaining -= int64(n)
	}

	finalMAC := runningMAC1.Sum(nil)
	if !ctutil.Equal(finalMAC, storedMAC) {
		return cryptoerr.WrongKeyOrModifiedCiphertext
	}

	// Pass 2: decrypt-and-write-with-recheck.
	if _, err := src.Seek(cipherStart, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to ciphertext start (pass 2): %v", cryptoerr.IOException, err)
	}

	runningMAC2 := hmac.New(sha256.New, keys.Auth)
	runningMAC2.Write(header)

	currentIV := iv
	remaining = cipherLen
	macIndex := 0

	for remaining > 0 {
		toRead := int64(BufferByteSize)
		if remaining < toRead {
			toRead = remaining
		}

		n, err := io.ReadFull(src, buf[:toRead])
		if err != nil {
			return fmt.Errorf("%w: reading ciphertext (pass 2): %v", cryptoerr.IOException, err)
		}

		runningMAC2.Write(buf[:n])
		chunkMAC, err := snapshotMAC(runningMAC2, keys.Auth)
		if err != nil {
			return err
		}

		if macIndex >= len(macs) {
			return fmt.Errorf("%w: file was modified after MAC verification", cryptoerr.WrongKeyOrModifiedCiphertext)
		}
		expected := macs[macIndex]
		macIndex++

		if !ctutil.Equal(chunkMAC, expected) {
			return fmt.Errorf("%w: file was modified after MAC verification", cryptoerr.WrongKeyOrModifiedCiphertext)
		}

		stream := cipher.NewCTR(block, currentIV)
		plaintext := make([]byte, n)
		stream.XORKeyStream(plaintext, buf[:n])

		if _, err := dst.Write(plaintext); err != nil {
			return fmt.Errorf("%w: writing plaintext: %v", cryptoerr.IOException, err)
		}

		nextIV, err := ctutil.IncrementIV(currentIV, blocksPerBuffer)
		if err != nil {
			return err
		}
		currentIV = nextIV

		remaining -= int64(n)
	}

	return nil
}
