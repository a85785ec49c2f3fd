package cli

import (
	"github.com/inancgumus/screen"
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "cryptkeeper",
		Short:   "Authenticated symmetric encryption for files and data",
		Version: appVersion,
		Long: `cryptkeeper encrypts and decrypts files and in-memory data with a
256-bit key or a password, using AES-128-CTR with an independent
HMAC-SHA256 over the ciphertext (encrypt-then-MAC), in the fixed
VERSION‖SALT‖IV‖CT‖MAC layout.`,
	}

	root.AddCommand(newEncryptCommand())
	root.AddCommand(newDecryptCommand())
	root.AddCommand(newKeyCommand())

	return root
}

// Execute runs the cryptkeeper CLI. It clears the screen before
// running so interactive prompts (huh) start from a clean terminal,
// mirroring the screen.Clear()/MoveTopLeft() sequence a full-screen
// prompt flow needs.
func Execute() error {
	screen.Clear()
	screen.MoveTopLeft()

	return newRootCommand().Execute()
}
