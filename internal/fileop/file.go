package fileop

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// EncryptFile opens inPath and outPath and runs EncryptStream over
// them. Both handles are closed on every exit path, success or
// failure, per spec.md §5's resource-acquisition requirement.
func EncryptFile(inPath, outPath string, s secret.Secret) error {
	if err := rejectAliasedPaths(inPath, outPath); err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: opening input: %v", cryptoerr.IOException, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %v", cryptoerr.IOException, err)
	}
	defer out.Close()

	return EncryptStream(in, out, s)
}

// DecryptFile opens inPath and outPath and runs DecryptStream over
// them.
func DecryptFile(inPath, outPath string, s secret.Secret) error {
	if err := rejectAliasedPaths(inPath, outPath); err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w: opening input: %v", cryptoerr.IOException, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %v", cryptoerr.IOException, err)
	}
	defer out.Close()

	return DecryptStream(in, out, s)
}

// rejectAliasedPaths refuses to process a file against itself:
// spec.md §4.5 step 1 requires the input and output to be distinct
// resources, comparing file identity (os.SameFile on the stat results)
// rather than the literal strings so that symlinks or relative-path
// variations of the same file are still caught.
func rejectAliasedPaths(inPath, outPath string) error {
	inAbs, err := filepath.Abs(inPath)
	if err != nil {
		return fmt.Errorf("%w: resolving input path: %v", cryptoerr.IOException, err)
	}
	outAbs, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("%w: resolving output path: %v", cryptoerr.IOException, err)
	}

	inInfo, err := os.Stat(inAbs)
	if err != nil {
		return fmt.Errorf("%w: statting input: %v", cryptoerr.IOException, err)
	}
	if outInfo, err := os.Stat(outAbs); err == nil {
		if os.SameFile(inInfo, outInfo) {
			return fmt.Errorf("%w: input and output name the same file", cryptoerr.IOException)
		}
	}

	return nil
}
