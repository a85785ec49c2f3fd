package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrPasswordMismatch is returned when a password confirmation prompt
// does not match the original entry.
var ErrPasswordMismatch = errors.New("passwords do not match")

// secretChoice is the answer to "protect this with a key file or a
// password", spec.md §3's KeyOrPassword made interactive.
type secretChoice string

const (
	secretChoiceKey      secretChoice = "key"
	secretChoicePassword secretChoice = "password"
)

// askSecretChoice prompts the user to pick between a key file and a
// password-derived secret.
func askSecretChoice() (secretChoice, error) {
	var choice secretChoice

	field := huh.NewSelect[secretChoice]().
		Title("Protect with").
		Options(
			huh.NewOption("A key file", secretChoiceKey),
			huh.NewOption("A password", secretChoicePassword),
		).
		Value(&choice)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("secret choice prompt failed: %w", err)
	}

	return choice, nil
}

// askPassword prompts for a password, masking input.
func askPassword(title string) (string, error) {
	var password string

	field := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("password prompt failed: %w", err)
	}

	return password, nil
}

// askNewPassword prompts for a password twice and requires they match,
// the interactive counterpart of an encrypt-side password entry.
func askNewPassword(title string) (string, error) {
	password, err := askPassword(title)
	if err != nil {
		return "", err
	}

	confirm, err := askPassword("Confirm " + title)
	if err != nil {
		return "", err
	}

	if password != confirm {
		return "", ErrPasswordMismatch
	}

	return password, nil
}

// askKeyFilePath prompts for the path to a key file.
func askKeyFilePath(title string) (string, error) {
	var path string

	field := huh.NewInput().
		Title(title).
		Value(&path)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("key file prompt failed: %w", err)
	}

	return path, nil
}

// confirmOverwrite asks whether an existing output path may be
// overwritten.
func confirmOverwrite(path string) (bool, error) {
	var ok bool

	field := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Value(&ok)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return false, fmt.Errorf("overwrite confirmation failed: %w", err)
	}

	return ok, nil
}
