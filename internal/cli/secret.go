package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

// readKeyFile loads a Key from its checksummed ASCII-safe form stored
// in path.
func readKeyFile(path string) (key.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return key.Key{}, fmt.Errorf("failed to read key file %s: %w", path, err)
	}
	return key.LoadFromASCIISafeString(strings.TrimSpace(string(raw)))
}

// resolveSecret turns the CLI's --key-file/--password flags into a
// Secret, falling back to an interactive huh prompt when neither flag
// was given. confirm requests password-confirmation (the encrypt-side
// prompt); decrypt-side callers pass confirm=false.
func resolveSecret(keyFile, password string, confirm bool) (secret.Secret, error) {
	switch {
	case keyFile != "":
		k, err := readKeyFile(keyFile)
		if err != nil {
			return secret.Secret{}, err
		}
		return secret.FromKey(k), nil
	case password != "":
		return secret.FromPassword([]byte(password)), nil
	}

	choice, err := askSecretChoice()
	if err != nil {
		return secret.Secret{}, err
	}

	switch choice {
	case secretChoiceKey:
		path, err := askKeyFilePath("Path to key file")
		if err != nil {
			return secret.Secret{}, err
		}
		k, err := readKeyFile(path)
		if err != nil {
			return secret.Secret{}, err
		}
		return secret.FromKey(k), nil
	default:
		var pw string
		if confirm {
			pw, err = askNewPassword("Password")
		} else {
			pw, err = askPassword("Password")
		}
		if err != nil {
			return secret.Secret{}, err
		}
		return secret.FromPassword([]byte(pw)), nil
	}
}
