package utils

import (
	"bufio"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/term"
)

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadPassphraseFromTTY prompts for a passphrase on /dev/tty (or CON on Windows).
// Used when stdin carries the entry body.
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for passphrase input: %w", ttyPath(), err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath())
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// PromptPassphrase reads a passphrase from stdin when it is a terminal and
// from the TTY otherwise.
func PromptPassphrase(prompt string) ([]byte, error) {
	if IsTerminal() {
		return ReadPassphrase(prompt)
	}
	return ReadPassphraseFromTTY(prompt)
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// WaitForEnterFromTTY blocks until the user presses Enter on the TTY.
func WaitForEnterFromTTY() error {
	tty, err := os.Open(ttyPath())
	if err != nil {
		return fmt.Errorf("cannot open %s for reading: %w", ttyPath(), err)
	}
	defer tty.Close()

	if _, err := bufio.NewReader(tty).ReadString('\n'); err != nil {
		return fmt.Errorf("failed to read from TTY: %w", err)
	}
	return nil
}

func ttyPath() string {
	if runtime.GOOS == "windows" {
		return "CON"
	}
	return "/dev/tty"
}
