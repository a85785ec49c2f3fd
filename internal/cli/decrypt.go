package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/fileop"
)

func newDecryptCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		keyFile    string
		password   string
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file, or stdin, produced by 'cryptkeeper encrypt'",
		Long: `Decrypt data produced by 'cryptkeeper encrypt'. With -i/-o, streams a
file through the TOCTOU-resistant two-pass protocol, verifying the MAC
before any plaintext is written. Without -i, reads a single in-memory
ciphertext buffer from stdin — lowercase hex by default, or raw bytes
with --raw — and writes the plaintext to stdout.`,
		Example: "  cryptkeeper decrypt -i report.pdf.enc -o report.pdf\n" +
			"  cryptkeeper decrypt -i report.pdf.enc -k mykey.txt\n" +
			"  cryptkeeper decrypt -p hunter2 --raw < secret.ct",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return runDecryptData(keyFile, password, raw)
			}
			if outputPath == "" {
				outputPath = strings.TrimSuffix(inputPath, ".enc")
				if outputPath == inputPath {
					return fmt.Errorf("cannot infer output path, pass -o explicitly")
				}
			}
			return runDecryptFile(inputPath, outputPath, keyFile, password)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file to decrypt (omit to read stdin as a single buffer)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "destination path (default: input with .enc stripped)")
	cmd.Flags().StringVarP(&keyFile, "key-file", "k", "", "path to a key file produced by 'cryptkeeper key generate'")
	cmd.Flags().StringVarP(&password, "password", "p", "", "decryption password (prompted interactively if omitted)")
	cmd.Flags().BoolVar(&raw, "raw", false, "stdin/stdout mode only: read raw binary ciphertext instead of lowercase hex")

	return cmd
}

// runDecryptData is the buffer-oriented path (spec.md §4.4's
// Decrypt/DecryptWithPassword).
func runDecryptData(keyFile, password string, raw bool) error {
	s, err := resolveSecret(keyFile, password, false)
	if err != nil {
		return err
	}

	ciphertext, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	plaintext, err := cryptor.Decrypt(ciphertext, s, raw)
	if err != nil {
		return fmt.Errorf("decryption failed: %w", err)
	}

	if _, err := os.Stdout.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write stdout: %w", err)
	}
	return nil
}

func runDecryptFile(inputPath, outputPath, keyFile, password string) error {
	logger := newLogger()

	if _, err := os.Stat(outputPath); err == nil {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("operation cancelled")
		}
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", inputPath, err)
	}

	s, err := resolveSecret(keyFile, password, false)
	if err != nil {
		return err
	}

	src, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer src.Close() //nolint:errcheck

	dst, err := newAtomicWriter(outputPath)
	if err != nil {
		return err
	}

	bar := newProgressBar(info.Size(), "decrypting")
	start := time.Now()

	if err := fileop.DecryptStream(src, newProgressWriter(dst, bar), s); err != nil {
		dst.Abort()
		return fmt.Errorf("decryption failed: %w", err)
	}

	if err := dst.Commit(); err != nil {
		return err
	}

	logger.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int64("bytes", info.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("file decrypted")

	return nil
}
