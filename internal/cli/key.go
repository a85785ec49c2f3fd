package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/keyring"
)

func newKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Generate and manage keys",
	}

	cmd.AddCommand(newKeyGenerateCommand())
	cmd.AddCommand(newKeyProtectCommand())
	cmd.AddCommand(newKeyChangePasswordCommand())

	return cmd
}

func newKeyGenerateCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new random key",
		Example: "  cryptkeeper key generate -o mykey.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyGenerate(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the key's ASCII-safe form (required)")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(fmt.Sprintf("failed to mark output flag as required: %v", err))
	}

	return cmd
}

func runKeyGenerate(outputPath string) error {
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

	k, err := key.Random()
	if err != nil {
		return fmt.Errorf("key generation failed: %w", err)
	}

	encoded, err := k.SaveToASCIISafeString()
	if err != nil {
		return fmt.Errorf("key encoding failed: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(encoded+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Info().Str("output", outputPath).Msg("key generated")
	fmt.Printf("Key written to %s. Keep it secret, there is no recovery if it is lost.\n", outputPath)
	return nil
}

func newKeyProtectCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Generate a new key wrapped under a password",
		Long:  "Generates a fresh random key and seals it into a KeyProtectedByPassword envelope, so the key itself is never written in the clear.",
		Example: "  cryptkeeper key protect -o mykey.protected",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyProtect(outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the protected key envelope (required)")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(fmt.Sprintf("failed to mark output flag as required: %v", err))
	}

	return cmd
}

func runKeyProtect(outputPath string) error {
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

	password, err := askNewPassword("Password to protect the new key")
	if err != nil {
		return err
	}

	kp, err := keyring.Create([]byte(password))
	if err != nil {
		return fmt.Errorf("failed to create protected key: %w", err)
	}

	encoded, err := kp.Save()
	if err != nil {
		return fmt.Errorf("failed to encode protected key: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(encoded+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	logger.Info().Str("output", outputPath).Msg("protected key created")
	fmt.Printf("Protected key written to %s.\n", outputPath)
	return nil
}

func newKeyChangePasswordCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Rotate the password protecting a KeyProtectedByPassword envelope",
		Example: "  cryptkeeper key change-password -f mykey.protected",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeyChangePassword(path)
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "path to the protected key envelope (required)")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	return cmd
}

func runKeyChangePassword(path string) error {
	logger := newLogger()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	kp, err := keyring.Load(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse protected key: %w", err)
	}

	oldPassword, err := askPassword("Current password")
	if err != nil {
		return err
	}

	newPassword, err := askNewPassword("New password")
	if err != nil {
		return err
	}

	rotated, err := kp.ChangePassword([]byte(oldPassword), []byte(newPassword))
	if err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}

	encoded, err := rotated.Save()
	if err != nil {
		return fmt.Errorf("failed to encode protected key: %w", err)
	}

	if err := os.WriteFile(path, []byte(encoded+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info().Str("file", path).Msg("protected key password rotated")
	fmt.Println("Password changed successfully.")
	return nil
}
