package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hambosto/cryptkeeper/internal/cryptor"
	"github.com/hambosto/cryptkeeper/internal/fileop"
)

func newEncryptCommand() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		keyFile    string
		password   string
		raw        bool
	)

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file, or stdin, into cryptkeeper's ciphertext format",
		Long: `Encrypt data into cryptkeeper's versioned ciphertext format
(VERSION‖SALT‖IV‖CT‖MAC). With -i/-o, streams a file in one pass.
Without -i, reads stdin and writes the ciphertext to stdout as a
single in-memory buffer — lowercase hex by default, or raw bytes
with --raw.`,
		Example: "  cryptkeeper encrypt -i report.pdf -o report.pdf.enc\n" +
			"  cryptkeeper encrypt -i report.pdf -k mykey.txt\n" +
			"  echo secret | cryptkeeper encrypt -p hunter2 --raw > secret.ct",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return runEncryptData(keyFile, password, raw)
			}
			if outputPath == "" {
				outputPath = inputPath + ".enc"
			}
			return runEncryptFile(inputPath, outputPath, keyFile, password)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file to encrypt (omit to read stdin as a single buffer)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "destination path (default: input + .enc)")
	cmd.Flags().StringVarP(&keyFile, "key-file", "k", "", "path to a key file produced by 'cryptkeeper key generate'")
	cmd.Flags().StringVarP(&password, "password", "p", "", "encryption password (prompted interactively if omitted)")
	cmd.Flags().BoolVar(&raw, "raw", false, "stdin/stdout mode only: write raw binary ciphertext instead of lowercase hex")

	return cmd
}

// runEncryptData is the buffer-oriented path (spec.md §4.4's
// Encrypt/EncryptWithPassword), exposing the rawOutput toggle the file
// streaming path has no concept of.
func runEncryptData(keyFile, password string, raw bool) error {
	s, err := resolveSecret(keyFile, password, true)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	ciphertext, err := cryptor.Encrypt(data, s, raw)
	if err != nil {
		return fmt.Errorf("encryption failed: %w", err)
	}

	if _, err := os.Stdout.Write(ciphertext); err != nil {
		return fmt.Errorf("failed to write stdout: %w", err)
	}
	return nil
}

func runEncryptFile(inputPath, outputPath, keyFile, password string) error {
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

	s, err := resolveSecret(keyFile, password, true)
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

	bar := newProgressBar(info.Size(), "encrypting")
	start := time.Now()

	if err := fileop.EncryptStream(src, newProgressWriter(dst, bar), s); err != nil {
		dst.Abort()
		return fmt.Errorf("encryption failed: %w", err)
	}

	if err := dst.Commit(); err != nil {
		return err
	}

	logger.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int64("bytes", info.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("file encrypted")

	return nil
}
