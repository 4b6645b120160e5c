package crypt

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/term"
)

// ReadPassphrase prompts on out and reads a passphrase from the terminal fd
// without echo. With confirm set it asks twice and requires a match.
func ReadPassphrase(fd int, out io.Writer, confirm bool) (string, error) {
	if !term.IsTerminal(fd) {
		return "", errors.New("passphrase prompt needs a terminal")
	}

	fmt.Fprint(out, "Passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return "", errors.New("passphrase must not be empty")
	}
	if !confirm {
		return string(first), nil
	}

	fmt.Fprint(out, "Confirm passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passphrases do not match")
	}
	return string(first), nil
}
